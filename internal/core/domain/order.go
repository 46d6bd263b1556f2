// internal/core/domain/order.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a sale under construction or completed
type Order struct {
	ID        int64     `json:"order_id"`
	OrderDate time.Time `json:"order_date"`
}

// OrderItem is the quantity of one package sold in an order.
// Price is the catalog price at the moment the item was first added.
type OrderItem struct {
	OrderID   int64           `json:"order"`
	PackageID int64           `json:"package"`
	Amount    int             `json:"amount"`
	Price     decimal.Decimal `json:"price"`
}

// Total returns price times amount
func (i *OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// AddItemRequest adds units of the package with BarCode to an order.
// OrderID zero starts a new order.
type AddItemRequest struct {
	OrderID int64  `json:"order_id"`
	BarCode string `json:"bar_code"`
	Amount  int    `json:"amount"`
}

// Validate rejects malformed requests before any storage access
func (r *AddItemRequest) Validate() error {
	if r.OrderID < 0 {
		return NewInvalidInput("order_id", "must be positive")
	}
	if !ValidEAN13(r.BarCode) {
		return NewInvalidInput("bar_code", "not a valid EAN-13")
	}
	if r.Amount < 1 {
		return NewInvalidInput("amount", "must be at least 1")
	}
	return nil
}

// CartLine is one row of the cart view
type CartLine struct {
	PackageID int64           `json:"package_id"`
	BarCode   string          `json:"bar_code"`
	Title     string          `json:"title"`
	Amount    int             `json:"amount"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// Cart is an order with its lines and grand total
type Cart struct {
	Order Order           `json:"order"`
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// NewCart sums the line totals into the cart total
func NewCart(order Order, lines []CartLine) *Cart {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Total)
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return &Cart{Order: order, Lines: lines, Total: total}
}

// OrderSummary is an order with its total, as listed in the order history
type OrderSummary struct {
	ID        int64           `json:"order_id"`
	OrderDate time.Time       `json:"order_date"`
	Items     int             `json:"items"`
	Total     decimal.Decimal `json:"total"`
}
