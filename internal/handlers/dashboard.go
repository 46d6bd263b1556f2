// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// DashboardHandler serves the home dashboard
type DashboardHandler struct {
	sales  ports.SalesService
	tasks  ports.TaskQueue
	logger *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(sales ports.SalesService, tasks ports.TaskQueue, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		sales:  sales,
		tasks:  tasks,
		logger: logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.sales.Dashboard(r.Context())
	if err != nil {
		respondServiceError(h.logger, w, r, "load dashboard", err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	respondJSON(h.logger, w, http.StatusOK, dashboard)
}

// RefreshDashboard handles POST /api/v1/dashboard/refresh by queueing a recompute
func (h *DashboardHandler) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	taskID, err := h.tasks.Enqueue(r.Context(), workers.TypeDashboardRefresh, nil)
	if err != nil {
		respondServiceError(h.logger, w, r, "queue dashboard refresh", err)
		return
	}

	respondJSON(h.logger, w, http.StatusAccepted, map[string]string{
		"task_id": taskID,
		"status":  "queued",
	})
}
