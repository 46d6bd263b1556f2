package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/handlers"
	"github.com/ammerola/pos-inventory/internal/workers"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

func TestDashboardHandler_GetDashboard(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := mocks.NewMockSalesService(ctrl)
		h := handlers.NewDashboardHandler(sales, mocks.NewMockTaskQueue(ctrl), helpers.TestLogger())

		sales.EXPECT().Dashboard(gomock.Any()).Return(&domain.Dashboard{
			Income: decimal.RequireFromString("1500.00"),
			Debt:   decimal.RequireFromString("320.10"),
		}, nil)

		w := httptest.NewRecorder()
		h.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got domain.Dashboard
		decodeBody(t, w, &got)
		assert.True(t, decimal.RequireFromString("320.10").Equal(got.Debt))
	})

	t.Run("storage_failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := mocks.NewMockSalesService(ctrl)
		h := handlers.NewDashboardHandler(sales, mocks.NewMockTaskQueue(ctrl), helpers.TestLogger())

		sales.EXPECT().Dashboard(gomock.Any()).Return(nil, domain.NewStorageError("dashboard", errors.New("timeout")))

		w := httptest.NewRecorder()
		h.GetDashboard(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestDashboardHandler_RefreshDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	tasks := mocks.NewMockTaskQueue(ctrl)
	h := handlers.NewDashboardHandler(mocks.NewMockSalesService(ctrl), tasks, helpers.TestLogger())

	tasks.EXPECT().Enqueue(gomock.Any(), workers.TypeDashboardRefresh, nil).Return("task-1", nil)

	w := httptest.NewRecorder()
	h.RefreshDashboard(w, httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/refresh", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
}
