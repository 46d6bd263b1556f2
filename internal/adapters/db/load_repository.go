// internal/adapters/db/load_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type loadRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.LoadRepository = (*loadRepository)(nil)

// NewLoadRepository creates a new load repository
func NewLoadRepository(db *Database, logger *slog.Logger) ports.LoadRepository {
	return &loadRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "load")),
	}
}

func (r *loadRepository) Create(ctx context.Context, load *domain.Load) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO loads (supplier, purchase_cost, due_date) VALUES ($1, $2, $3) RETURNING load_id`,
		load.SupplierID, load.PurchaseCost, load.DueDate).Scan(&load.ID)
	if err != nil {
		return mapError("create load", err)
	}

	r.logger.InfoContext(ctx, "load created",
		slog.Int64("load_id", load.ID),
		slog.Int64("supplier_id", load.SupplierID),
		slog.String("purchase_cost", load.PurchaseCost.StringFixed(2)))
	return nil
}

// List pages through loads, latest due date first
func (r *loadRepository) List(ctx context.Context, page, perPage int) ([]domain.Load, int, error) {
	total, err := countQuery(ctx, r.db, psql.Select("COUNT(*)").From("loads"))
	if err != nil {
		return nil, 0, mapError("count loads", err)
	}
	if total == 0 {
		return []domain.Load{}, 0, nil
	}

	query, args, err := psql.Select("l.load_id", "l.supplier", "s.name", "l.purchase_cost", "l.due_date").
		From("loads l").
		Join("suppliers s ON s.supplier_id = l.supplier").
		OrderBy("l.due_date DESC", "l.load_id DESC").
		Limit(uint64(perPage)).
		Offset(uint64(domain.Offset(page, perPage))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("list loads", err)
	}
	loads, err := ScanMany(rows, func(row pgx.Rows) (domain.Load, error) {
		var l domain.Load
		err := row.Scan(&l.ID, &l.SupplierID, &l.SupplierName, &l.PurchaseCost, &l.DueDate)
		return l, err
	})
	if err != nil {
		return nil, 0, mapError("scan loads", err)
	}
	return loads, total, nil
}
