// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/pkg/logger"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// ExportHandler exports the order history as xlsx
type ExportHandler struct {
	sales     ports.SalesService
	tasks     ports.TaskQueue
	validator *Validator
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

// NewExportHandler creates a new export handler. Dates are calendar days in loc.
func NewExportHandler(sales ports.SalesService, tasks ports.TaskQueue, v *Validator, loc *time.Location, logger *slog.Logger) *ExportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportHandler{
		sales:     sales,
		tasks:     tasks,
		validator: v,
		loc:       loc,
		now:       time.Now,
		logger:    logger.With(slog.String("handler", "export")),
	}
}

// SalesReportRequest is the body of POST /api/v1/reports/sales. Both dates are inclusive.
type SalesReportRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

// ExportOrders handles GET /api/v1/export/orders?from=&to=.
// Without dates it exports the current month up to today.
func (h *ExportHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, err := h.exportRange(r)
	if err != nil {
		respondServiceError(h.logger, w, r, "export orders", err)
		return
	}

	orders, err := h.sales.OrdersBetween(ctx, from, to)
	if err != nil {
		respondServiceError(h.logger, w, r, "export orders", err)
		return
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteSales(&buf, orders, h.loc); err != nil {
		respondServiceError(h.logger, w, r, "export orders", fmt.Errorf("failed to render workbook: %w", err))
		return
	}

	filename := fmt.Sprintf("vendas_%s_%s.xlsx",
		from.Format(domain.DateLayout), to.AddDate(0, 0, -1).Format(domain.DateLayout))

	w.Header().Set("Content-Type", spreadsheet.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.ErrorContext(ctx, "failed to write export",
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "orders exported",
		slog.Int("orders", len(orders)),
		slog.String("filename", filename))
}

// RequestSalesReport handles POST /api/v1/reports/sales. The workbook is
// rendered by the worker and uploaded to storage.
func (h *ExportHandler) RequestSalesReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SalesReportRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "queue sales report", err)
		return
	}

	from, to, err := workers.ReportRange(req.From, req.To, h.loc)
	if err != nil || !from.Before(to) {
		respondServiceError(h.logger, w, r, "queue sales report",
			domain.NewInvalidInput("to", "must not be before from"))
		return
	}

	userID, _ := logger.UserID(ctx)
	payload := workers.SalesReportPayload{
		JobID:  uuid.New().String(),
		From:   req.From,
		To:     req.To,
		UserID: userID,
	}

	taskID, err := h.tasks.Enqueue(ctx, workers.TypeSalesReport, payload)
	if err != nil {
		respondServiceError(h.logger, w, r, "queue sales report", err)
		return
	}

	h.logger.InfoContext(ctx, "sales report queued",
		slog.String("job_id", payload.JobID),
		slog.String("task_id", taskID))

	respondJSON(h.logger, w, http.StatusAccepted, map[string]string{
		"job_id":  payload.JobID,
		"task_id": taskID,
		"key":     workers.ReportKey(payload),
		"status":  "queued",
	})
}

// exportRange reads from and to as inclusive dates and returns [from, to+1 day)
func (h *ExportHandler) exportRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()
	now := h.now().In(h.loc)

	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, h.loc)
	if v := q.Get("from"); v != "" {
		d, err := parseDate("from", v, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}

	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	if v := q.Get("to"); v != "" {
		d, err := parseDate("to", v, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}

	to = to.AddDate(0, 0, 1)
	if !from.Before(to) {
		return time.Time{}, time.Time{}, domain.NewInvalidInput("to", "must not be before from")
	}
	return from, to, nil
}
