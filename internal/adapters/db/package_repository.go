// internal/adapters/db/package_repository.go
package db

import (
	"context"
	"log/slog"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

type packageRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.PackageRepository = (*packageRepository)(nil)

// NewPackageRepository creates a new package repository
func NewPackageRepository(db *Database, logger *slog.Logger) ports.PackageRepository {
	return &packageRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "package")),
	}
}

// Receive upserts by bar code. A repeated intake adds its amount to the
// purchased count and keeps the existing product type and validity.
func (r *packageRepository) Receive(ctx context.Context, intake domain.PackageIntake) (*domain.Package, bool, error) {
	const query = `
		INSERT INTO packages (bar_code, type_of_product, number_of_items_purchased, number_of_items_sold, validity)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (bar_code) DO UPDATE
		SET number_of_items_purchased = packages.number_of_items_purchased + EXCLUDED.number_of_items_purchased
		RETURNING package_id, bar_code, type_of_product, number_of_items_purchased,
		          number_of_items_sold, validity, (xmax = 0) AS inserted`

	var (
		pkg     domain.Package
		created bool
	)
	err := r.db.QueryRow(ctx, query,
		intake.BarCode, intake.ProductTypeID, intake.Amount, intake.Validity,
	).Scan(&pkg.ID, &pkg.BarCode, &pkg.ProductTypeID, &pkg.Purchased, &pkg.Sold, &pkg.Validity, &created)
	if err != nil {
		return nil, false, mapError("receive package", err)
	}

	r.logger.InfoContext(ctx, "package received",
		slog.Int64("package_id", pkg.ID),
		slog.Int("amount", intake.Amount),
		slog.Bool("created", created))

	return &pkg, created, nil
}

func (r *packageRepository) FindByBarcode(ctx context.Context, barCode string) (*domain.Package, error) {
	const query = `
		SELECT package_id, bar_code, type_of_product, number_of_items_purchased,
		       number_of_items_sold, validity
		FROM packages
		WHERE bar_code = $1`

	pkg, err := ScanOne(r.db.QueryRow(ctx, query, barCode), scanPackage)
	if err != nil {
		return nil, mapError("find package", err)
	}
	return pkg, nil
}
