// internal/core/domain/catalog.go
package domain

import (
	"github.com/shopspring/decimal"
)

// ProductType is a catalog entry. Packages reference it for their price.
type ProductType struct {
	ID    int64           `json:"type_of_product_id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// Validate normalizes the title and checks the price
func (p *ProductType) Validate() error {
	p.Title = NormalizeTitle(p.Title)
	if p.Title == "" {
		return NewInvalidInput("title", "is required")
	}
	if len(p.Title) > 120 {
		return NewInvalidInput("title", "is too long")
	}
	if p.Price.IsNegative() {
		return NewInvalidInput("price", "cannot be negative")
	}
	return nil
}

// ProductUpdate carries the fields to change. Nil fields are left as stored.
type ProductUpdate struct {
	Title *string          `json:"title,omitempty"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// Empty reports whether the update changes nothing
func (u *ProductUpdate) Empty() bool {
	return u.Title == nil && u.Price == nil
}
