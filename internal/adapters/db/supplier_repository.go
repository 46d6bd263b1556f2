// internal/adapters/db/supplier_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type supplierRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.SupplierRepository = (*supplierRepository)(nil)

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *Database, logger *slog.Logger) ports.SupplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "supplier")),
	}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO suppliers (name, cnpj) VALUES ($1, $2) RETURNING supplier_id`,
		supplier.Name, supplier.CNPJ).Scan(&supplier.ID)
	if err != nil {
		return mapError("create supplier", err)
	}
	return nil
}

func (r *supplierRepository) FindByID(ctx context.Context, id int64) (*domain.Supplier, error) {
	return r.findOne(ctx, sq.Eq{"supplier_id": id})
}

func (r *supplierRepository) FindByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error) {
	return r.findOne(ctx, sq.Eq{"cnpj": domain.NormalizeCNPJ(cnpj)})
}

func (r *supplierRepository) findOne(ctx context.Context, where sq.Eq) (*domain.Supplier, error) {
	query, args, err := psql.Select("supplier_id", "name", "cnpj").
		From("suppliers").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	supplier, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanSupplier)
	if err != nil {
		return nil, mapError("find supplier", err)
	}
	return supplier, nil
}

// List returns up to limit suppliers whose name or CNPJ matches search
func (r *supplierRepository) List(ctx context.Context, search string, limit int) ([]domain.Supplier, error) {
	qb := psql.Select("supplier_id", "name", "cnpj").
		From("suppliers").
		OrderBy("name", "supplier_id").
		Limit(uint64(limit))

	if pattern := likePattern(search); pattern != "" {
		or := sq.Or{sq.Expr(`name ILIKE ? ESCAPE '\'`, pattern)}
		if digits := domain.NormalizeCNPJ(search); digits != "" {
			or = append(or, sq.Expr("cnpj LIKE ?", digits+"%"))
		}
		qb = qb.Where(or)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list suppliers", err)
	}
	suppliers, err := ScanMany(rows, func(row pgx.Rows) (domain.Supplier, error) {
		s, err := scanSupplier(row)
		if err != nil {
			return domain.Supplier{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, mapError("scan suppliers", err)
	}
	return suppliers, nil
}

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	if err := row.Scan(&s.ID, &s.Name, &s.CNPJ); err != nil {
		return nil, err
	}
	return &s, nil
}
