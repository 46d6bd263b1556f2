// internal/core/domain/supplier.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is a vendor identified by its CNPJ
type Supplier struct {
	ID   int64  `json:"supplier_id"`
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

// Validate normalizes name and CNPJ in place
func (s *Supplier) Validate() error {
	s.Name = NormalizeTitle(s.Name)
	if s.Name == "" {
		return NewInvalidInput("name", "is required")
	}
	if !ValidCNPJ(s.CNPJ) {
		return NewInvalidInput("cnpj", "check digits do not match")
	}
	s.CNPJ = NormalizeCNPJ(s.CNPJ)
	return nil
}

// Load is a billing ticket owed to a supplier
type Load struct {
	ID           int64           `json:"load_id"`
	SupplierID   int64           `json:"supplier"`
	SupplierName string          `json:"supplier_name,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	DueDate      time.Time       `json:"due_date"`
}

// Validate checks the ticket fields
func (l *Load) Validate() error {
	if l.SupplierID < 1 {
		return NewInvalidInput("supplier", "must be a positive id")
	}
	if !l.PurchaseCost.IsPositive() {
		return NewInvalidInput("purchase_cost", "must be greater than zero")
	}
	if l.DueDate.IsZero() {
		return NewInvalidInput("due_date", "is required")
	}
	return nil
}
