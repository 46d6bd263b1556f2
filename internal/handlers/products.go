// internal/handlers/products.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// ProductHandler serves the product type catalog
type ProductHandler struct {
	service   ports.CatalogService
	validator *Validator
	importer  *importer
	maxUpload int64
	logger    *slog.Logger
}

// NewProductHandler creates a new product handler. maxUpload bounds imported workbooks in bytes.
func NewProductHandler(service ports.CatalogService, storage ports.FileStorage, tasks ports.TaskQueue, v *Validator, maxUpload int64, logger *slog.Logger) *ProductHandler {
	logger = logger.With(slog.String("handler", "products"))
	return &ProductHandler{
		service:   service,
		validator: v,
		importer:  &importer{storage: storage, tasks: tasks, logger: logger},
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// CreateProductRequest is the body of POST /api/v1/products
type CreateProductRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Price *Money `json:"price" validate:"required"`
}

// UpdateProductRequest is the body of PUT /api/v1/products/{id}. Omitted fields are kept.
type UpdateProductRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=120"`
	Price *Money  `json:"price"`
}

// ListProducts handles GET /api/v1/products?search=&page=
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListProducts(r.Context(), r.URL.Query().Get("search"), pageParam(r))
	if err != nil {
		respondServiceError(h.logger, w, r, "list products", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "get product", err)
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		respondServiceError(h.logger, w, r, "get product", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, product)
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "create product", err)
		return
	}

	product := &domain.ProductType{Title: req.Title, Price: req.Price.Decimal}
	if err := h.service.CreateProduct(r.Context(), product); err != nil {
		respondServiceError(h.logger, w, r, "create product", err)
		return
	}

	h.logger.InfoContext(r.Context(), "product created",
		slog.Int64("product_id", product.ID),
		slog.String("title", product.Title))

	respondJSON(h.logger, w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "update product", err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "update product", err)
		return
	}

	update := domain.ProductUpdate{Title: req.Title}
	if req.Price != nil {
		price := req.Price.Decimal
		update.Price = &price
	}

	product, err := h.service.UpdateProduct(r.Context(), id, update)
	if err != nil {
		respondServiceError(h.logger, w, r, "update product", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "delete product", err)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		respondServiceError(h.logger, w, r, "delete product", err)
		return
	}

	h.logger.InfoContext(r.Context(), "product deleted", slog.Int64("product_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// ImportProducts handles POST /api/v1/products/import with a multipart xlsx "file"
func (h *ProductHandler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	h.importer.accept(w, r, uploadKind{
		taskType:     workers.TypeCatalogImport,
		extension:    ".xlsx",
		contentTypes: []string{spreadsheet.ContentType},
		maxBytes:     h.maxUpload,
	})
}
