// internal/core/services/catalog.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// CatalogService manages product types
type CatalogService struct {
	products ports.ProductRepository
	cache    ports.CacheRepository
	logger   *slog.Logger
}

var _ ports.CatalogService = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(products ports.ProductRepository, cache ports.CacheRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		logger:   logger.With(slog.String("service", "catalog")),
	}
}

// CreateProduct validates and stores a new product type
func (s *CatalogService) CreateProduct(ctx context.Context, product *domain.ProductType) error {
	if err := product.Validate(); err != nil {
		return err
	}

	if err := s.products.Create(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, cacheCatalogPattern)

	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", product.ID),
		slog.String("title", product.Title))

	return nil
}

// UpdateProduct changes the supplied fields of a product type
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, update domain.ProductUpdate) (*domain.ProductType, error) {
	if id < 1 {
		return nil, domain.NewInvalidInput("id", "must be positive")
	}
	if update.Empty() {
		return nil, domain.NewInvalidInput("body", "nothing to update")
	}
	if update.Title != nil {
		title := domain.NormalizeTitle(*update.Title)
		if title == "" {
			return nil, domain.NewInvalidInput("title", "is required")
		}
		update.Title = &title
	}
	if update.Price != nil && update.Price.IsNegative() {
		return nil, domain.NewInvalidInput("price", "cannot be negative")
	}

	product, err := s.products.Update(ctx, id, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, domain.NotFoundf("product %d", id)
	}

	invalidate(ctx, s.cache, s.logger, cacheCatalogPattern)

	s.logger.InfoContext(ctx, "product updated", slog.Int64("product_id", id))
	return product, nil
}

// DeleteProduct removes a product type that no package references
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	if id < 1 {
		return domain.NewInvalidInput("id", "must be positive")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, cacheCatalogPattern)

	s.logger.InfoContext(ctx, "product deleted", slog.Int64("product_id", id))
	return nil
}

// GetProduct returns a product type by id
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.ProductType, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, domain.NotFoundf("product %d", id)
	}
	return product, nil
}

// ListProducts searches the catalog. Every word of search must appear in the
// title, in order. Results are cached per search and page.
func (s *CatalogService) ListProducts(ctx context.Context, search string, page int) (*domain.Page[domain.ProductType], error) {
	page = normalizePage(page)

	fetch := func() (interface{}, error) {
		items, total, err := s.products.Search(ctx, search, page, domain.DefaultPageSize)
		if err != nil {
			return nil, err
		}
		result := domain.NewPage(items, page, domain.DefaultPageSize, total)
		return &result, nil
	}

	if s.cache == nil {
		v, err := fetch()
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}
		return v.(*domain.Page[domain.ProductType]), nil
	}

	var result domain.Page[domain.ProductType]
	if err := s.cache.GetOrSet(ctx, catalogKey(search, page), &result, fetch, catalogTTL); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &result, nil
}

// ImportProducts stores a batch of product types, skipping invalid rows
func (s *CatalogService) ImportProducts(ctx context.Context, products []domain.ProductType) (int, error) {
	valid := make([]domain.ProductType, 0, len(products))
	for i := range products {
		if err := products[i].Validate(); err != nil {
			s.logger.WarnContext(ctx, "skipping invalid product",
				slog.Int("row", i+1),
				slog.String("error", err.Error()))
			continue
		}
		valid = append(valid, products[i])
	}
	if len(valid) == 0 {
		return 0, nil
	}

	n, err := s.products.CreateBatch(ctx, valid)
	if err != nil {
		return 0, fmt.Errorf("failed to import products: %w", err)
	}

	invalidate(ctx, s.cache, s.logger, cacheCatalogPattern)

	s.logger.InfoContext(ctx, "products imported",
		slog.Int("imported", n),
		slog.Int("skipped", len(products)-len(valid)))

	return n, nil
}
