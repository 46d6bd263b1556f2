// internal/core/services/sales.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// dashboardMonths is the span of the monthly sales series
const dashboardMonths = 12

// SalesService serves order history and the sales dashboard
type SalesService struct {
	orders    ports.OrderRepository
	dashboard ports.DashboardRepository
	cache     ports.CacheRepository
	now       Clock
	logger    *slog.Logger
}

var _ ports.SalesService = (*SalesService)(nil)

// NewSalesService creates a new sales service
func NewSalesService(orders ports.OrderRepository, dashboard ports.DashboardRepository, cache ports.CacheRepository, now Clock, logger *slog.Logger) *SalesService {
	if now == nil {
		now = NewClock(nil)
	}
	return &SalesService{
		orders:    orders,
		dashboard: dashboard,
		cache:     cache,
		now:       now,
		logger:    logger.With(slog.String("service", "sales")),
	}
}

// ListOrders pages through orders, most recent first
func (s *SalesService) ListOrders(ctx context.Context, page int) (*domain.Page[domain.OrderSummary], error) {
	page = normalizePage(page)

	orders, total, err := s.orders.List(ctx, page, domain.DefaultPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	result := domain.NewPage(orders, page, domain.DefaultPageSize, total)
	return &result, nil
}

// OrdersBetween returns order summaries dated in [from, to)
func (s *SalesService) OrdersBetween(ctx context.Context, from, to time.Time) ([]domain.OrderSummary, error) {
	if !from.Before(to) {
		return nil, domain.NewInvalidInput("date_range", "from must be before to")
	}

	orders, err := s.orders.Between(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders in range: %w", err)
	}
	return orders, nil
}

// Dashboard returns the cached dashboard, computing it on a miss
func (s *SalesService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	if s.cache == nil {
		return s.compute(ctx)
	}

	var result domain.Dashboard
	err := s.cache.GetOrSet(ctx, CacheKeyDashboard, &result, func() (interface{}, error) {
		return s.compute(ctx)
	}, dashboardTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard: %w", err)
	}
	return &result, nil
}

// RefreshDashboard recomputes the dashboard and overwrites the cached copy
func (s *SalesService) RefreshDashboard(ctx context.Context) (*domain.Dashboard, error) {
	result, err := s.compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh dashboard: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, CacheKeyDashboard, result, dashboardTTL); err != nil {
			s.logger.WarnContext(ctx, "failed to store dashboard", slog.String("error", err.Error()))
		}
	}
	return result, nil
}

// compute runs the three dashboard aggregates concurrently
func (s *SalesService) compute(ctx context.Context) (*domain.Dashboard, error) {
	now := s.now()
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	seriesStart := monthStart.AddDate(0, -(dashboardMonths - 1), 0)

	var (
		sales  []domain.MonthlySales
		income decimal.Decimal
		debt   decimal.Decimal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.dashboard.MonthlySales(gctx, seriesStart, loc)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = s.dashboard.IncomeBetween(gctx, monthStart, nextMonth)
		return err
	})
	g.Go(func() error {
		var err error
		debt, err = s.dashboard.DebtBetween(gctx, monthStart, nextMonth)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Dashboard{
		Sales:       fillMonths(sales, seriesStart, dashboardMonths),
		Income:      income,
		Debt:        debt,
		GeneratedAt: now,
	}, nil
}

// fillMonths returns one entry per month from start, zero where no sales were recorded
func fillMonths(sales []domain.MonthlySales, start time.Time, months int) []domain.MonthlySales {
	byMonth := make(map[string]decimal.Decimal, len(sales))
	for _, m := range sales {
		byMonth[m.Month.Format("2006-01")] = m.Total
	}

	out := make([]domain.MonthlySales, months)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0)
		total, ok := byMonth[month.Format("2006-01")]
		if !ok {
			total = decimal.Zero
		}
		out[i] = domain.MonthlySales{Month: month, Total: total}
	}
	return out
}
