// internal/handlers/stock.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// StockHandler records package intake
type StockHandler struct {
	service   ports.StockService
	validator *Validator
	loc       *time.Location
	logger    *slog.Logger
}

// NewStockHandler creates a new stock handler. Validity dates are read in loc.
func NewStockHandler(service ports.StockService, v *Validator, loc *time.Location, logger *slog.Logger) *StockHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StockHandler{
		service:   service,
		validator: v,
		loc:       loc,
		logger:    logger.With(slog.String("handler", "stock")),
	}
}

// ReceivePackageRequest is the body of POST /api/v1/packages
type ReceivePackageRequest struct {
	BarCode       string `json:"bar_code" validate:"required,ean13"`
	ProductTypeID int64  `json:"type_of_product" validate:"required,gt=0"`
	Amount        int    `json:"amount" validate:"required,gte=1"`
	Validity      string `json:"validity" validate:"required,datetime=2006-01-02"`
}

// ReceivePackage handles POST /api/v1/packages. A new bar code answers 201,
// a repeat intake 200.
func (h *StockHandler) ReceivePackage(w http.ResponseWriter, r *http.Request) {
	var req ReceivePackageRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "receive package", err)
		return
	}

	validity, err := parseDate("validity", req.Validity, h.loc)
	if err != nil {
		respondServiceError(h.logger, w, r, "receive package", err)
		return
	}

	pkg, created, err := h.service.ReceivePackage(r.Context(), domain.PackageIntake{
		BarCode:       req.BarCode,
		ProductTypeID: req.ProductTypeID,
		Amount:        req.Amount,
		Validity:      validity,
	})
	if err != nil {
		respondServiceError(h.logger, w, r, "receive package", err)
		return
	}

	h.logger.InfoContext(r.Context(), "package received",
		slog.Int64("package_id", pkg.ID),
		slog.String("bar_code", pkg.BarCode),
		slog.Int("amount", req.Amount),
		slog.Bool("created", created))

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(h.logger, w, status, pkg)
}

// GetPackage handles GET /api/v1/packages/{barcode}
func (h *StockHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	barCode := r.PathValue("barcode")
	if !domain.ValidEAN13(barCode) {
		respondServiceError(h.logger, w, r, "get package", domain.NewInvalidInput("barcode", "not a valid EAN-13"))
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), barCode)
	if err != nil {
		respondServiceError(h.logger, w, r, "get package", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, pkg)
}
