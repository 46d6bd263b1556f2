// internal/core/domain/stock.go
package domain

import (
	"time"
)

// DateLayout is the wire layout for calendar dates
const DateLayout = "2006-01-02"

// Package is a received lot of one product type, identified by its bar code
type Package struct {
	ID            int64     `json:"package_id"`
	BarCode       string    `json:"bar_code"`
	ProductTypeID int64     `json:"type_of_product"`
	Purchased     int       `json:"number_of_items_purchased"`
	Sold          int       `json:"number_of_items_sold"`
	Validity      time.Time `json:"validity"`
}

// Available returns the units still on the shelf
func (p *Package) Available() int {
	return p.Purchased - p.Sold
}

// PackageIntake is a stock receipt for a bar code
type PackageIntake struct {
	BarCode       string    `json:"bar_code"`
	ProductTypeID int64     `json:"type_of_product"`
	Amount        int       `json:"amount"`
	Validity      time.Time `json:"validity"`
}

// Validate checks the intake against today's date in the shop time zone
func (in *PackageIntake) Validate(today time.Time) error {
	if !ValidEAN13(in.BarCode) {
		return NewInvalidInput("bar_code", "not a valid EAN-13")
	}
	if in.ProductTypeID < 1 {
		return NewInvalidInput("type_of_product", "must be a positive id")
	}
	if in.Amount < 1 {
		return NewInvalidInput("amount", "must be at least 1")
	}
	if in.Validity.IsZero() {
		return NewInvalidInput("validity", "is required")
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	vy, vm, vd := in.Validity.Date()
	validity := time.Date(vy, vm, vd, 0, 0, 0, 0, today.Location())
	if validity.Before(start) {
		return NewInvalidInput("validity", "cannot be in the past")
	}
	return nil
}
