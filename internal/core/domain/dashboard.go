// internal/core/domain/dashboard.go
package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPageSize is the listing page size used across the API
const DefaultPageSize = 10

// MonthlySales is the revenue of one calendar month
type MonthlySales struct {
	Month time.Time       `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Dashboard summarizes sales and payables
type Dashboard struct {
	Sales       []MonthlySales  `json:"sales"`
	Income      decimal.Decimal `json:"income"`
	Debt        decimal.Decimal `json:"debt"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Page is one page of a listing
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPage computes pagination metadata around items
func NewPage[T any](items []T, page, perPage, total int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if page <= 0 {
		page = 1
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}
}

// Offset returns the row offset of a 1-based page
func Offset(page, perPage int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * perPage
}
