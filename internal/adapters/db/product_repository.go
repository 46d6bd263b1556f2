// internal/adapters/db/product_repository.go
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

var productColumns = []string{"type_of_product_id", "title", "price"}

type productRepository struct {
	db     *Database
	logger *slog.Logger
}

var _ ports.ProductRepository = (*productRepository)(nil)

// NewProductRepository creates a new product repository
func NewProductRepository(db *Database, logger *slog.Logger) ports.ProductRepository {
	return &productRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "product")),
	}
}

func (r *productRepository) Create(ctx context.Context, product *domain.ProductType) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO types_of_product (title, price) VALUES ($1, $2) RETURNING type_of_product_id`,
		product.Title, product.Price).Scan(&product.ID)
	if err != nil {
		return mapError("create product", err)
	}

	r.logger.DebugContext(ctx, "product created", slog.Int64("id", product.ID))
	return nil
}

// CreateBatch loads products with a single COPY, which is all-or-nothing
func (r *productRepository) CreateBatch(ctx context.Context, products []domain.ProductType) (int, error) {
	if len(products) == 0 {
		return 0, nil
	}

	copied, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"types_of_product"},
		[]string{"title", "price"},
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			return []any{products[i].Title, products[i].Price}, nil
		}),
	)
	if err != nil {
		return 0, mapError("copy products", err)
	}

	r.logger.InfoContext(ctx, "products imported", slog.Int64("count", copied))
	return int(copied), nil
}

func (r *productRepository) Update(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductType, error) {
	qb := psql.Update("types_of_product").
		Where(sq.Eq{"type_of_product_id": id}).
		Suffix("RETURNING type_of_product_id, title, price")
	if update.Title != nil {
		qb = qb.Set("title", *update.Title)
	}
	if update.Price != nil {
		qb = qb.Set("price", *update.Price)
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	product, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanProduct)
	if err != nil {
		return nil, mapError("update product", err)
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM types_of_product WHERE type_of_product_id = $1`, id)
	if err != nil {
		return mapError("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("product %d", id)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.ProductType, error) {
	query, args, err := psql.Select(productColumns...).
		From("types_of_product").
		Where(sq.Eq{"type_of_product_id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	product, err := ScanOne(r.db.QueryRow(ctx, query, args...), scanProduct)
	if err != nil {
		return nil, mapError("find product", err)
	}
	return product, nil
}

// Search matches every word of search against the title, case-insensitively
func (r *productRepository) Search(ctx context.Context, search string, page, perPage int) ([]domain.ProductType, int, error) {
	var where sq.Sqlizer = sq.Expr("TRUE")
	if pattern := likePattern(search); pattern != "" {
		where = sq.Expr(`title ILIKE ? ESCAPE '\'`, pattern)
	}

	total, err := countQuery(ctx, r.db, psql.Select("COUNT(*)").From("types_of_product").Where(where))
	if err != nil {
		return nil, 0, mapError("count products", err)
	}
	if total == 0 {
		return []domain.ProductType{}, 0, nil
	}

	query, args, err := psql.Select(productColumns...).
		From("types_of_product").
		Where(where).
		OrderBy("title", "type_of_product_id").
		Limit(uint64(perPage)).
		Offset(uint64(domain.Offset(page, perPage))).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, mapError("search products", err)
	}
	products, err := ScanMany(rows, func(row pgx.Rows) (domain.ProductType, error) {
		p, err := scanProduct(row)
		if err != nil {
			return domain.ProductType{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, 0, mapError("scan products", err)
	}
	return products, total, nil
}

func scanProduct(row pgx.Row) (*domain.ProductType, error) {
	var p domain.ProductType
	if err := row.Scan(&p.ID, &p.Title, &p.Price); err != nil {
		return nil, err
	}
	return &p, nil
}
