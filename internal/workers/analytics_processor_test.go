package workers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/workers"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

func TestAnalyticsProcessor_RefreshDashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	sales := mocks.NewMockSalesService(ctrl)
	processor := workers.NewAnalyticsProcessor(sales, mocks.NewMockFileStorage(ctrl), helpers.TestLocation(t), helpers.TestLogger())

	sales.EXPECT().RefreshDashboard(gomock.Any()).Return(&domain.Dashboard{
		Income: decimal.RequireFromString("1500.00"),
		Debt:   decimal.RequireFromString("320.10"),
	}, nil)
	require.NoError(t, processor.RefreshDashboard(context.Background(), asynq.NewTask(workers.TypeDashboardRefresh, nil)))

	boom := errors.New("database down")
	sales.EXPECT().RefreshDashboard(gomock.Any()).Return(nil, boom)
	assert.ErrorIs(t, processor.RefreshDashboard(context.Background(), asynq.NewTask(workers.TypeDashboardRefresh, nil)), boom)
}

func reportTask(t *testing.T, payload workers.SalesReportPayload) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(workers.TypeSalesReport, b)
}

func TestAnalyticsProcessor_GenerateSalesReport(t *testing.T) {
	loc := helpers.TestLocation(t)
	payload := workers.SalesReportPayload{JobID: "job-3", From: "2024-03-01", To: "2024-03-31"}
	orders := []domain.OrderSummary{
		{ID: 7, OrderDate: time.Date(2024, 3, 10, 14, 30, 0, 0, loc), Items: 2, Total: decimal.RequireFromString("31.50")},
	}

	t.Run("uploads_workbook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := mocks.NewMockSalesService(ctrl)
		storage := mocks.NewMockFileStorage(ctrl)
		processor := workers.NewAnalyticsProcessor(sales, storage, loc, helpers.TestLogger())

		sales.EXPECT().OrdersBetween(gomock.Any(),
			time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			time.Date(2024, 4, 1, 0, 0, 0, 0, loc),
		).Return(orders, nil)

		var uploaded []byte
		storage.EXPECT().Upload(gomock.Any(), workers.ReportKey(payload), gomock.Any(), spreadsheet.ContentType).
			DoAndReturn(func(_ context.Context, key string, data io.Reader, _ string) (string, error) {
				var err error
				uploaded, err = io.ReadAll(data)
				return "s3://reports/" + key, err
			})

		require.NoError(t, processor.GenerateSalesReport(context.Background(), reportTask(t, payload)))

		file, err := xlsx.OpenBinary(uploaded)
		require.NoError(t, err)
		cell, err := file.Sheets[0].Cell(1, 0)
		require.NoError(t, err)
		assert.Equal(t, "7", cell.Value)
	})

	t.Run("invalid_dates_are_not_retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		processor := workers.NewAnalyticsProcessor(mocks.NewMockSalesService(ctrl), mocks.NewMockFileStorage(ctrl), loc, helpers.TestLogger())

		err := processor.GenerateSalesReport(context.Background(),
			reportTask(t, workers.SalesReportPayload{From: "01/03/2024", To: "2024-03-31"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("reversed_range_is_not_retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := mocks.NewMockSalesService(ctrl)
		processor := workers.NewAnalyticsProcessor(sales, mocks.NewMockFileStorage(ctrl), loc, helpers.TestLogger())

		sales.EXPECT().OrdersBetween(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domain.NewInvalidInput("date_range", "from must be before to"))

		err := processor.GenerateSalesReport(context.Background(),
			reportTask(t, workers.SalesReportPayload{From: "2024-04-01", To: "2024-03-01"}))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("upload_failure_is_retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sales := mocks.NewMockSalesService(ctrl)
		storage := mocks.NewMockFileStorage(ctrl)
		processor := workers.NewAnalyticsProcessor(sales, storage, loc, helpers.TestLogger())

		sales.EXPECT().OrdersBetween(gomock.Any(), gomock.Any(), gomock.Any()).Return(orders, nil)
		storage.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.New("bucket unavailable"))

		err := processor.GenerateSalesReport(context.Background(), reportTask(t, payload))
		require.Error(t, err)
		assert.False(t, errors.Is(err, asynq.SkipRetry))
	})
}

func TestReportRange(t *testing.T) {
	loc := helpers.TestLocation(t)
	from, to, err := workers.ReportRange("2024-02-01", "2024-02-29", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, loc), to)

	_, _, err = workers.ReportRange("2024-02-01", "", loc)
	assert.Error(t, err)
}

func TestReportKey(t *testing.T) {
	key := workers.ReportKey(workers.SalesReportPayload{JobID: "abc", From: "2024-03-01", To: "2024-03-31"})
	assert.Equal(t, "reports/sales/vendas_2024-03-01_2024-03-31_abc.xlsx", key)
	assert.True(t, bytes.HasPrefix([]byte(key), []byte(workers.ReportPrefix)))
}
