// internal/core/services/stock.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// StockService records package intake
type StockService struct {
	packages ports.PackageRepository
	now      Clock
	logger   *slog.Logger
}

var _ ports.StockService = (*StockService)(nil)

// NewStockService creates a new stock service
func NewStockService(packages ports.PackageRepository, now Clock, logger *slog.Logger) *StockService {
	if now == nil {
		now = NewClock(nil)
	}
	return &StockService{
		packages: packages,
		now:      now,
		logger:   logger.With(slog.String("service", "stock")),
	}
}

// ReceivePackage adds intake.Amount units to the package with the bar code,
// creating it on first intake. Product type and validity of an existing package are kept.
func (s *StockService) ReceivePackage(ctx context.Context, intake domain.PackageIntake) (*domain.Package, bool, error) {
	if err := intake.Validate(s.now()); err != nil {
		return nil, false, err
	}

	pkg, created, err := s.packages.Receive(ctx, intake)
	if err != nil {
		return nil, false, fmt.Errorf("failed to receive package: %w", err)
	}

	s.logger.InfoContext(ctx, "package received",
		slog.Int64("package_id", pkg.ID),
		slog.String("bar_code", pkg.BarCode),
		slog.Int("amount", intake.Amount),
		slog.Int("purchased", pkg.Purchased),
		slog.Bool("created", created))

	return pkg, created, nil
}

// GetPackage finds a package by bar code
func (s *StockService) GetPackage(ctx context.Context, barCode string) (*domain.Package, error) {
	if !domain.ValidEAN13(barCode) {
		return nil, domain.NewInvalidInput("bar_code", "not a valid EAN-13")
	}

	pkg, err := s.packages.FindByBarcode(ctx, barCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	if pkg == nil {
		return nil, domain.NotFoundf("package with bar code %s", barCode)
	}
	return pkg, nil
}
