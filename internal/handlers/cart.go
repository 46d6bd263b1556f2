// internal/handlers/cart.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// CartHandler serves the point of sale: carts and the order history
type CartHandler struct {
	cart      ports.CartService
	sales     ports.SalesService
	validator *Validator
	logger    *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cart ports.CartService, sales ports.SalesService, v *Validator, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		cart:      cart,
		sales:     sales,
		validator: v,
		logger:    logger.With(slog.String("handler", "cart")),
	}
}

// AddItemRequest is the body of POST /api/v1/cart/items.
// A zero order_id opens a new order and a zero amount adds one unit.
type AddItemRequest struct {
	OrderID int64  `json:"order_id" validate:"gte=0"`
	BarCode string `json:"bar_code" validate:"required,ean13"`
	Amount  int    `json:"amount" validate:"omitempty,gte=1"`
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "add item to cart", err)
		return
	}
	if req.Amount == 0 {
		req.Amount = 1
	}

	orderID, err := h.cart.AddItemToCart(r.Context(), domain.AddItemRequest{
		OrderID: req.OrderID,
		BarCode: req.BarCode,
		Amount:  req.Amount,
	})
	if err != nil {
		respondServiceError(h.logger, w, r, "add item to cart", err)
		return
	}

	h.logger.InfoContext(r.Context(), "item added to cart",
		slog.Int64("order_id", orderID),
		slog.String("bar_code", req.BarCode),
		slog.Int("amount", req.Amount))

	respondJSON(h.logger, w, http.StatusOK, map[string]int64{"order_id": orderID})
}

// ListOrders handles GET /api/v1/orders?page=
func (h *CartHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := h.sales.ListOrders(r.Context(), pageParam(r))
	if err != nil {
		respondServiceError(h.logger, w, r, "list orders", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, page)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *CartHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "get cart", err)
		return
	}

	cart, err := h.cart.GetCart(r.Context(), orderID)
	if err != nil {
		respondServiceError(h.logger, w, r, "get cart", err)
		return
	}
	respondJSON(h.logger, w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/v1/orders/{id}/items/{package_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "remove item from cart", err)
		return
	}
	packageID, err := pathID(r, "package_id")
	if err != nil {
		respondServiceError(h.logger, w, r, "remove item from cart", err)
		return
	}

	deleted, err := h.cart.RemoveItemFromCart(r.Context(), orderID, packageID)
	if err != nil {
		respondServiceError(h.logger, w, r, "remove item from cart", err)
		return
	}

	h.logger.InfoContext(r.Context(), "item removed from cart",
		slog.Int64("order_id", orderID),
		slog.Int64("package_id", packageID),
		slog.Bool("order_deleted", deleted))

	respondJSON(h.logger, w, http.StatusOK, map[string]bool{"order_deleted": deleted})
}

// AbandonOrder handles DELETE /api/v1/orders/{id}
func (h *CartHandler) AbandonOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondServiceError(h.logger, w, r, "abandon cart", err)
		return
	}

	if err := h.cart.AbandonCart(r.Context(), orderID); err != nil {
		respondServiceError(h.logger, w, r, "abandon cart", err)
		return
	}

	h.logger.InfoContext(r.Context(), "cart abandoned", slog.Int64("order_id", orderID))
	w.WriteHeader(http.StatusNoContent)
}
