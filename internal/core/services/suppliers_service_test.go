// internal/core/services/suppliers_service_test.go
package services_test

import (
	"context"
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

type supplierFixture struct {
	suppliers *mocks.MockSupplierRepository
	loads     *mocks.MockLoadRepository
	cache     *mocks.MockCacheRepository
	svc       *services.SupplierService
}

func newSupplierFixture(t *testing.T) *supplierFixture {
	ctrl := gomock.NewController(t)
	f := &supplierFixture{
		suppliers: mocks.NewMockSupplierRepository(ctrl),
		loads:     mocks.NewMockLoadRepository(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
	}
	f.svc = services.NewSupplierService(f.suppliers, f.loads, f.cache, helpers.TestLogger())
	return f
}

func TestSupplierService_CreateSupplier(t *testing.T) {
	t.Run("stores_digits_only", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.suppliers.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, s *domain.Supplier) error {
				assert.Equal(t, helpers.TestCNPJ, s.CNPJ)
				s.ID = 5
				return nil
			})

		supplier := helpers.CreateTestSupplier(func(s *domain.Supplier) { s.CNPJ = "11.222.333/0001-81" })
		require.NoError(t, f.svc.CreateSupplier(context.Background(), supplier))
		assert.Equal(t, int64(5), supplier.ID)
	})

	t.Run("invalid_cnpj", func(t *testing.T) {
		f := newSupplierFixture(t)
		supplier := helpers.CreateTestSupplier(func(s *domain.Supplier) { s.CNPJ = "11.222.333/0001-82" })
		err := f.svc.CreateSupplier(context.Background(), supplier)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("duplicate_cnpj", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.suppliers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Conflictf("create supplier: duplicate value"))
		err := f.svc.CreateSupplier(context.Background(), helpers.CreateTestSupplier())
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestSupplierService_ListSuppliers(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "default_limit", limit: 0, wantLimit: services.DefaultSupplierLimit},
		{name: "explicit_limit", limit: 5, wantLimit: 5},
		{name: "oversized_limit", limit: 1000, wantLimit: services.DefaultSupplierLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSupplierFixture(t)
			f.suppliers.EXPECT().List(gomock.Any(), "dist", tt.wantLimit).Return(nil, nil)

			suppliers, err := f.svc.ListSuppliers(context.Background(), "dist", tt.limit)

			require.NoError(t, err)
			assert.NotNil(t, suppliers)
			assert.Empty(t, suppliers)
		})
	}
}

func TestSupplierService_FindSupplierByCNPJ(t *testing.T) {
	f := newSupplierFixture(t)
	f.suppliers.EXPECT().FindByCNPJ(gomock.Any(), helpers.TestCNPJ).Return(nil, nil)

	_, err := f.svc.FindSupplierByCNPJ(context.Background(), "11.222.333/0001-81")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "11.222.333/0001-81")
}

func TestSupplierService_CreateLoad(t *testing.T) {
	due := time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC)

	t.Run("records_load_and_invalidates_dashboard", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.suppliers.EXPECT().FindByID(gomock.Any(), int64(5)).
			Return(&domain.Supplier{ID: 5, Name: "Distribuidora Bahia", CNPJ: helpers.TestCNPJ}, nil)
		f.loads.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l *domain.Load) error {
				l.ID = 8
				return nil
			})
		f.cache.EXPECT().Delete(gomock.Any(), services.CacheKeyDashboard).Return(nil)

		load := helpers.CreateTestLoad(5, func(l *domain.Load) { l.DueDate = due })
		require.NoError(t, f.svc.CreateLoad(context.Background(), load))
		assert.Equal(t, int64(8), load.ID)
		assert.Equal(t, "Distribuidora Bahia", load.SupplierName)
	})

	t.Run("unknown_supplier", func(t *testing.T) {
		f := newSupplierFixture(t)
		f.suppliers.EXPECT().FindByID(gomock.Any(), int64(5)).Return(nil, nil)

		err := f.svc.CreateLoad(context.Background(), helpers.CreateTestLoad(5))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("zero_cost", func(t *testing.T) {
		f := newSupplierFixture(t)
		load := helpers.CreateTestLoad(5, func(l *domain.Load) { l.PurchaseCost = decimal.Zero })
		err := f.svc.CreateLoad(context.Background(), load)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSupplierService_ListLoads(t *testing.T) {
	f := newSupplierFixture(t)
	loads := []domain.Load{{ID: 1, SupplierID: 5, PurchaseCost: decimal.NewFromInt(100)}}
	f.loads.EXPECT().List(gomock.Any(), 3, domain.DefaultPageSize).Return(loads, 21, nil)

	page, err := f.svc.ListLoads(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Items, 1)
}
