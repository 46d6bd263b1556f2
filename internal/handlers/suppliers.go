// internal/handlers/suppliers.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// pdfContentType is the media type of uploaded boletos
const pdfContentType = "application/pdf"

// SupplierHandler serves suppliers and their loads
type SupplierHandler struct {
	service   ports.SupplierService
	validator *Validator
	importer  *importer
	maxUpload int64
	loc       *time.Location
	logger    *slog.Logger
}

// NewSupplierHandler creates a new supplier handler. maxUpload bounds boleto PDFs in bytes.
func NewSupplierHandler(service ports.SupplierService, storage ports.FileStorage, tasks ports.TaskQueue, v *Validator, maxUpload int64, loc *time.Location, logger *slog.Logger) *SupplierHandler {
	if loc == nil {
		loc = time.UTC
	}
	logger = logger.With(slog.String("handler", "suppliers"))
	return &SupplierHandler{
		service:   service,
		validator: v,
		importer:  &importer{storage: storage, tasks: tasks, logger: logger},
		maxUpload: maxUpload,
		loc:       loc,
		logger:    logger,
	}
}

// CreateSupplierRequest is the body of POST /api/v1/suppliers
type CreateSupplierRequest struct {
	Name string `json:"name" validate:"required,max=120"`
	CNPJ string `json:"cnpj" validate:"required,cnpj"`
}

// CreateLoadRequest is the body of POST /api/v1/loads
type CreateLoadRequest struct {
	SupplierID   int64  `json:"supplier" validate:"required,gt=0"`
	PurchaseCost *Money `json:"purchase_cost" validate:"required"`
	DueDate      string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// ListSuppliers handles GET /api/v1/suppliers?search=&limit=
func (h *SupplierHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	suppliers, err := h.service.ListSuppliers(r.Context(), r.URL.Query().Get("search"), limit)
	if err != nil {
		respondServiceError(h.logger, w, r, "list suppliers", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, suppliers)
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *SupplierHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req CreateSupplierRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "create supplier", err)
		return
	}

	supplier := &domain.Supplier{Name: req.Name, CNPJ: req.CNPJ}
	if err := h.service.CreateSupplier(r.Context(), supplier); err != nil {
		respondServiceError(h.logger, w, r, "create supplier", err)
		return
	}

	h.logger.InfoContext(r.Context(), "supplier created",
		slog.Int64("supplier_id", supplier.ID),
		slog.String("cnpj", supplier.CNPJ))

	respondJSON(h.logger, w, http.StatusCreated, supplier)
}

// ListLoads handles GET /api/v1/loads?page=
func (h *SupplierHandler) ListLoads(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListLoads(r.Context(), pageParam(r))
	if err != nil {
		respondServiceError(h.logger, w, r, "list loads", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// CreateLoad handles POST /api/v1/loads
func (h *SupplierHandler) CreateLoad(w http.ResponseWriter, r *http.Request) {
	var req CreateLoadRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "create load", err)
		return
	}

	dueDate, err := parseDate("due_date", req.DueDate, h.loc)
	if err != nil {
		respondServiceError(h.logger, w, r, "create load", err)
		return
	}

	load := &domain.Load{
		SupplierID:   req.SupplierID,
		PurchaseCost: req.PurchaseCost.Decimal,
		DueDate:      dueDate,
	}
	if err := h.service.CreateLoad(r.Context(), load); err != nil {
		respondServiceError(h.logger, w, r, "create load", err)
		return
	}

	h.logger.InfoContext(r.Context(), "load created",
		slog.Int64("load_id", load.ID),
		slog.Int64("supplier_id", load.SupplierID),
		slog.String("purchase_cost", load.PurchaseCost.StringFixed(2)))

	respondJSON(h.logger, w, http.StatusCreated, load)
}

// ImportLoad handles POST /api/v1/loads/import with a multipart boleto PDF "file"
func (h *SupplierHandler) ImportLoad(w http.ResponseWriter, r *http.Request) {
	h.importer.accept(w, r, uploadKind{
		taskType:     workers.TypeLoadPDFImport,
		extension:    ".pdf",
		contentTypes: []string{pdfContentType},
		maxBytes:     h.maxUpload,
	})
}
