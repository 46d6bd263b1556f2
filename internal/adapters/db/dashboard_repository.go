// internal/adapters/db/dashboard_repository.go
package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type dashboardRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.DashboardRepository = (*dashboardRepository)(nil)

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *Database, logger *slog.Logger) ports.DashboardRepository {
	return &dashboardRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "dashboard")),
	}
}

// MonthlySales sums sales per calendar month in loc, starting at from.
// Months without sales are omitted.
func (r *dashboardRepository) MonthlySales(ctx context.Context, from time.Time, loc *time.Location) ([]domain.MonthlySales, error) {
	// Postgres knows zones by IANA name only, and time.Local has none
	if loc == nil || loc == time.Local {
		loc = time.UTC
	}

	const query = `
		SELECT date_trunc('month', o.order_date AT TIME ZONE $2) AS month,
		       SUM(oi.price * oi.amount)
		FROM orders o
		JOIN order_items oi ON oi."order" = o.order_id
		WHERE o.order_date >= $1
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.db.Query(ctx, query, from, loc.String())
	if err != nil {
		return nil, mapError("monthly sales", err)
	}
	sales, err := ScanMany(rows, func(row pgx.Rows) (domain.MonthlySales, error) {
		var (
			month time.Time
			total decimal.Decimal
		)
		if err := row.Scan(&month, &total); err != nil {
			return domain.MonthlySales{}, err
		}
		return domain.MonthlySales{
			Month: time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, loc),
			Total: total,
		}, nil
	})
	if err != nil {
		return nil, mapError("scan monthly sales", err)
	}
	return sales, nil
}

// IncomeBetween sums sales of orders dated in [from, to)
func (r *dashboardRepository) IncomeBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(oi.price * oi.amount), 0)
		FROM orders o
		JOIN order_items oi ON oi."order" = o.order_id
		WHERE o.order_date >= $1 AND o.order_date < $2`

	var total decimal.Decimal
	if err := r.db.QueryRow(ctx, query, from, to).Scan(&total); err != nil {
		return decimal.Zero, mapError("income", err)
	}
	return total, nil
}

// DebtBetween sums the purchase cost of loads due in [from, to)
func (r *dashboardRepository) DebtBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(purchase_cost), 0)
		FROM loads
		WHERE due_date >= $1::date AND due_date < $2::date`

	var total decimal.Decimal
	err := r.db.QueryRow(ctx, query, from.Format(domain.DateLayout), to.Format(domain.DateLayout)).Scan(&total)
	if err != nil {
		return decimal.Zero, mapError("debt", err)
	}
	return total, nil
}
