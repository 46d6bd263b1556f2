// internal/core/services/suppliers.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// DefaultSupplierLimit caps supplier listings used by pickers
const DefaultSupplierLimit = 20

// SupplierService manages suppliers and billing tickets
type SupplierService struct {
	suppliers ports.SupplierRepository
	loads     ports.LoadRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

var _ ports.SupplierService = (*SupplierService)(nil)

// NewSupplierService creates a new supplier service
func NewSupplierService(suppliers ports.SupplierRepository, loads ports.LoadRepository, cache ports.CacheRepository, logger *slog.Logger) *SupplierService {
	return &SupplierService{
		suppliers: suppliers,
		loads:     loads,
		cache:     cache,
		logger:    logger.With(slog.String("service", "supplier")),
	}
}

// CreateSupplier validates the CNPJ and stores the supplier
func (s *SupplierService) CreateSupplier(ctx context.Context, supplier *domain.Supplier) error {
	if err := supplier.Validate(); err != nil {
		return err
	}

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.InfoContext(ctx, "supplier created",
		slog.Int64("supplier_id", supplier.ID),
		slog.String("cnpj", supplier.CNPJ))

	return nil
}

// ListSuppliers returns up to limit suppliers whose name matches search
func (s *SupplierService) ListSuppliers(ctx context.Context, search string, limit int) ([]domain.Supplier, error) {
	if limit <= 0 || limit > 100 {
		limit = DefaultSupplierLimit
	}

	suppliers, err := s.suppliers.List(ctx, search, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}
	return suppliers, nil
}

// FindSupplierByCNPJ looks a supplier up by CNPJ, formatted or not
func (s *SupplierService) FindSupplierByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error) {
	if !domain.ValidCNPJ(cnpj) {
		return nil, domain.NewInvalidInput("cnpj", "check digits do not match")
	}

	supplier, err := s.suppliers.FindByCNPJ(ctx, domain.NormalizeCNPJ(cnpj))
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	if supplier == nil {
		return nil, domain.NotFoundf("supplier with cnpj %s", domain.FormatCNPJ(domain.NormalizeCNPJ(cnpj)))
	}
	return supplier, nil
}

// CreateLoad records a billing ticket owed to an existing supplier
func (s *SupplierService) CreateLoad(ctx context.Context, load *domain.Load) error {
	if err := load.Validate(); err != nil {
		return err
	}

	supplier, err := s.suppliers.FindByID(ctx, load.SupplierID)
	if err != nil {
		return fmt.Errorf("failed to find supplier: %w", err)
	}
	if supplier == nil {
		return domain.NotFoundf("supplier %d", load.SupplierID)
	}

	if err := s.loads.Create(ctx, load); err != nil {
		return fmt.Errorf("failed to create load: %w", err)
	}
	load.SupplierName = supplier.Name

	invalidate(ctx, s.cache, s.logger, CacheKeyDashboard)

	s.logger.InfoContext(ctx, "load created",
		slog.Int64("load_id", load.ID),
		slog.Int64("supplier_id", load.SupplierID),
		slog.String("purchase_cost", load.PurchaseCost.StringFixed(2)))

	return nil
}

// ListLoads pages through billing tickets, latest due date first
func (s *SupplierService) ListLoads(ctx context.Context, page int) (*domain.Page[domain.Load], error) {
	page = normalizePage(page)

	loads, total, err := s.loads.List(ctx, page, domain.DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads: %w", err)
	}

	result := domain.NewPage(loads, page, domain.DefaultPageSize, total)
	return &result, nil
}
