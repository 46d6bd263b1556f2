// internal/adapters/db/order_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type orderRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.OrderRepository = (*orderRepository)(nil)

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *Database, logger *slog.Logger) ports.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "order")),
	}
}

// summaryQuery selects one row per order with its unit count and total
func summaryQuery() sq.SelectBuilder {
	return psql.Select(
		"o.order_id",
		"o.order_date",
		"COALESCE(SUM(oi.amount), 0)",
		"COALESCE(SUM(oi.price * oi.amount), 0)",
	).
		From("orders o").
		LeftJoin(`order_items oi ON oi."order" = o.order_id`).
		GroupBy("o.order_id", "o.order_date")
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := ScanOne(
		r.db.QueryRow(ctx, `SELECT order_id, order_date FROM orders WHERE order_id = $1`, id),
		func(row pgx.Row) (*domain.Order, error) {
			var o domain.Order
			if err := row.Scan(&o.ID, &o.OrderDate); err != nil {
				return nil, err
			}
			return &o, nil
		})
	if err != nil {
		return nil, mapError("find order", err)
	}
	return order, nil
}

// CartLines lists the items of an order with the product title, in bar code order
func (r *orderRepository) CartLines(ctx context.Context, orderID int64) ([]domain.CartLine, error) {
	const query = `
		SELECT p.package_id, p.bar_code, t.title, oi.amount, oi.price, oi.price * oi.amount
		FROM order_items oi
		JOIN packages p ON p.package_id = oi.package
		JOIN types_of_product t ON t.type_of_product_id = p.type_of_product
		WHERE oi."order" = $1
		ORDER BY p.bar_code`

	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, mapError("list cart lines", err)
	}
	lines, err := ScanMany(rows, func(row pgx.Rows) (domain.CartLine, error) {
		var l domain.CartLine
		err := row.Scan(&l.PackageID, &l.BarCode, &l.Title, &l.Amount, &l.Price, &l.Total)
		return l, err
	})
	if err != nil {
		return nil, mapError("scan cart lines", err)
	}
	return lines, nil
}

// List pages through orders, most recent first
func (r *orderRepository) List(ctx context.Context, page, perPage int) ([]domain.OrderSummary, int, error) {
	total, err := countQuery(ctx, r.db, psql.Select("COUNT(*)").From("orders"))
	if err != nil {
		return nil, 0, mapError("count orders", err)
	}
	if total == 0 {
		return []domain.OrderSummary{}, 0, nil
	}

	query, args, err := summaryQuery().
		OrderBy("o.order_date DESC", "o.order_id DESC").
		Limit(uint64(perPage)).
		Offset(uint64(domain.Offset(page, perPage))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	summaries, err := r.summaries(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// Between returns the summaries of orders dated in [from, to), oldest first
func (r *orderRepository) Between(ctx context.Context, from, to time.Time) ([]domain.OrderSummary, error) {
	query, args, err := summaryQuery().
		Where(sq.GtOrEq{"o.order_date": from}).
		Where(sq.Lt{"o.order_date": to}).
		OrderBy("o.order_date", "o.order_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build range query: %w", err)
	}
	return r.summaries(ctx, query, args...)
}

func (r *orderRepository) summaries(ctx context.Context, query string, args ...any) ([]domain.OrderSummary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	summaries, err := ScanMany(rows, func(row pgx.Rows) (domain.OrderSummary, error) {
		var s domain.OrderSummary
		err := row.Scan(&s.ID, &s.OrderDate, &s.Items, &s.Total)
		return s, err
	})
	if err != nil {
		return nil, mapError("scan orders", err)
	}
	return summaries, nil
}
