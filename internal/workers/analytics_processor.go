// internal/workers/analytics_processor.go
package workers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// ReportPrefix is the storage prefix of generated sales reports
const ReportPrefix = "reports/sales/"

// ReportResult is written as the task result of a sales report
type ReportResult struct {
	Key      string `json:"key"`
	Location string `json:"location"`
	Orders   int    `json:"orders"`
}

// AnalyticsProcessor warms the dashboard and renders sales reports
type AnalyticsProcessor struct {
	sales   ports.SalesService
	storage ports.FileStorage
	loc     *time.Location
	logger  *slog.Logger
}

// NewAnalyticsProcessor creates a new analytics processor
func NewAnalyticsProcessor(sales ports.SalesService, storage ports.FileStorage, loc *time.Location, logger *slog.Logger) *AnalyticsProcessor {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsProcessor{
		sales:   sales,
		storage: storage,
		loc:     loc,
		logger:  logger.With(slog.String("processor", "analytics")),
	}
}

// RefreshDashboard recomputes the cached dashboard
func (p *AnalyticsProcessor) RefreshDashboard(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	dashboard, err := p.sales.RefreshDashboard(ctx)
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "dashboard refreshed",
		slog.String("income", dashboard.Income.StringFixed(2)),
		slog.String("debt", dashboard.Debt.StringFixed(2)),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// GenerateSalesReport renders the orders of a date range and uploads the workbook
func (p *AnalyticsProcessor) GenerateSalesReport(ctx context.Context, t *asynq.Task) error {
	var payload SalesReportPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	from, to, err := ReportRange(payload.From, payload.To, p.loc)
	if err != nil {
		return fmt.Errorf("invalid report range: %v: %w", err, asynq.SkipRetry)
	}

	orders, err := p.sales.OrdersBetween(ctx, from, to)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("invalid report range: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to load orders: %w", err)
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteSales(&buf, orders, p.loc); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	key := ReportKey(payload)
	location, err := p.storage.Upload(ctx, key, &buf, spreadsheet.ContentType)
	if err != nil {
		return fmt.Errorf("failed to upload report: %w", err)
	}

	writeResult(ctx, p.logger, t, ReportResult{Key: key, Location: location, Orders: len(orders)})

	p.logger.InfoContext(ctx, "sales report generated",
		slog.String("job_id", payload.JobID),
		slog.String("key", key),
		slog.Int("orders", len(orders)))

	return nil
}

// ReportRange turns inclusive calendar dates into the half-open range [from, to+1 day)
func ReportRange(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(domain.DateLayout, from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	end, err := time.ParseInLocation(domain.DateLayout, to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	return start, end.AddDate(0, 0, 1), nil
}

// ReportKey names the stored workbook of a report request
func ReportKey(p SalesReportPayload) string {
	return fmt.Sprintf("%svendas_%s_%s_%s.xlsx", ReportPrefix, p.From, p.To, p.JobID)
}
