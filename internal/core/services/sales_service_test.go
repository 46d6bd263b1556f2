// internal/core/services/sales_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/services"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

func TestSalesService_Dashboard_FillsMissingMonths(t *testing.T) {
	loc := helpers.TestLocation(t)
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, loc)
	seriesStart := time.Date(2023, 4, 1, 0, 0, 0, 0, loc)
	monthStart := time.Date(2024, 3, 1, 0, 0, 0, 0, loc)
	nextMonth := time.Date(2024, 4, 1, 0, 0, 0, 0, loc)

	ctrl := gomock.NewController(t)
	dashboard := mocks.NewMockDashboardRepository(ctrl)
	dashboard.EXPECT().MonthlySales(gomock.Any(), seriesStart, loc).Return([]domain.MonthlySales{
		{Month: time.Date(2024, 1, 1, 0, 0, 0, 0, loc), Total: decimal.RequireFromString("150.00")},
		{Month: time.Date(2024, 3, 1, 0, 0, 0, 0, loc), Total: decimal.RequireFromString("42.50")},
	}, nil)
	dashboard.EXPECT().IncomeBetween(gomock.Any(), monthStart, nextMonth).Return(decimal.RequireFromString("42.50"), nil)
	dashboard.EXPECT().DebtBetween(gomock.Any(), monthStart, nextMonth).Return(decimal.RequireFromString("1250.00"), nil)

	svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), dashboard, nil, helpers.FixedClock(now), helpers.TestLogger())
	result, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	require.Len(t, result.Sales, 12)
	assert.Equal(t, seriesStart, result.Sales[0].Month)
	assert.Equal(t, monthStart, result.Sales[11].Month)
	assert.True(t, result.Sales[0].Total.IsZero())
	assert.True(t, decimal.RequireFromString("150").Equal(result.Sales[9].Total))
	assert.True(t, result.Sales[10].Total.IsZero())
	assert.True(t, decimal.RequireFromString("42.5").Equal(result.Sales[11].Total))
	assert.True(t, decimal.RequireFromString("1250").Equal(result.Debt))
	assert.Equal(t, now, result.GeneratedAt)
}

func TestSalesService_Dashboard_AggregateFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	dashboard := mocks.NewMockDashboardRepository(ctrl)
	dashboard.EXPECT().MonthlySales(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	dashboard.EXPECT().IncomeBetween(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(decimal.Zero, domain.NewStorageError("income", errors.New("boom"))).AnyTimes()
	dashboard.EXPECT().DebtBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, nil).AnyTimes()

	svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), dashboard, nil, nil, helpers.TestLogger())
	_, err := svc.Dashboard(context.Background())

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestNewClock_DefaultsToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, services.NewClock(nil)().Location())

	loc := helpers.TestLocation(t)
	assert.Equal(t, loc, services.NewClock(loc)().Location())
}

func TestSalesService_Dashboard_NilClockBucketsInUTC(t *testing.T) {
	ctrl := gomock.NewController(t)
	dashboard := mocks.NewMockDashboardRepository(ctrl)
	dashboard.EXPECT().MonthlySales(gomock.Any(), gomock.Any(), time.UTC).Return(nil, nil)
	dashboard.EXPECT().IncomeBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, nil)
	dashboard.EXPECT().DebtBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, nil)

	svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), dashboard, nil, nil, helpers.TestLogger())
	result, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, result.Sales, 12)
	assert.Equal(t, time.UTC, result.Sales[0].Month.Location())
}

func TestSalesService_Dashboard_UsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	cached := domain.Dashboard{Income: decimal.NewFromInt(7)}

	cache.EXPECT().GetOrSet(gomock.Any(), services.CacheKeyDashboard, gomock.Any(), gomock.Any(), 5*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, dest interface{}, _ func() (interface{}, error), _ time.Duration) error {
			*dest.(*domain.Dashboard) = cached
			return nil
		})

	svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), mocks.NewMockDashboardRepository(ctrl), cache, nil, helpers.TestLogger())
	result, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(result.Income))
}

func TestSalesService_RefreshDashboard_OverwritesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	dashboard := mocks.NewMockDashboardRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	dashboard.EXPECT().MonthlySales(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
	dashboard.EXPECT().IncomeBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, nil)
	dashboard.EXPECT().DebtBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(decimal.Zero, nil)
	cache.EXPECT().SetWithTTL(gomock.Any(), services.CacheKeyDashboard, gomock.Any(), 5*time.Minute).Return(nil)

	svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), dashboard, cache, nil, helpers.TestLogger())
	result, err := svc.RefreshDashboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, result.Sales, 12)
}

func TestSalesService_OrdersBetween(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid_range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		orders := mocks.NewMockOrderRepository(ctrl)
		orders.EXPECT().Between(gomock.Any(), from, from.AddDate(0, 1, 0)).
			Return([]domain.OrderSummary{{ID: 1, Items: 2, Total: decimal.NewFromInt(10)}}, nil)

		svc := services.NewSalesService(orders, mocks.NewMockDashboardRepository(ctrl), nil, nil, helpers.TestLogger())
		result, err := svc.OrdersBetween(context.Background(), from, from.AddDate(0, 1, 0))

		require.NoError(t, err)
		assert.Len(t, result, 1)
	})

	t.Run("inverted_range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := services.NewSalesService(mocks.NewMockOrderRepository(ctrl), mocks.NewMockDashboardRepository(ctrl), nil, nil, helpers.TestLogger())
		_, err := svc.OrdersBetween(context.Background(), from, from)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSalesService_ListOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderRepository(ctrl)
	orders.EXPECT().List(gomock.Any(), 1, domain.DefaultPageSize).Return(nil, 0, nil)

	svc := services.NewSalesService(orders, mocks.NewMockDashboardRepository(ctrl), nil, nil, helpers.TestLogger())
	page, err := svc.ListOrders(context.Background(), -4)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.TotalPages)
}
