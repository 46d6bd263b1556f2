// internal/workers/tasks.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// Task types handled by the worker
const (
	TypeCatalogImport    = "catalog:import"
	TypeLoadPDFImport    = "loads:import_pdf"
	TypeSalesReport      = "reports:sales"
	TypeCleanup          = "maintenance:cleanup"
	TypeDashboardRefresh = "dashboard:refresh"
)

// Queue names, in the priority order configured for the worker
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// UploadPrefix is the storage prefix of files waiting to be imported
const UploadPrefix = "uploads/"

// ImportPayload points a worker at an uploaded file
type ImportPayload struct {
	JobID    string `json:"job_id"`
	FileKey  string `json:"file_key"`
	FileName string `json:"file_name"`
	UserID   int64  `json:"user_id,omitempty"`
}

// SalesReportPayload asks for a sales workbook covering [From, To]
type SalesReportPayload struct {
	JobID  string `json:"job_id"`
	From   string `json:"from"`
	To     string `json:"to"`
	UserID int64  `json:"user_id,omitempty"`
}

// CleanupPayload tunes a maintenance run. Zero values use the processor defaults.
type CleanupPayload struct {
	OrphanOrderAge time.Duration `json:"orphan_order_age,omitempty"`
	TempFileMaxAge time.Duration `json:"temp_file_max_age,omitempty"`
}

// taskOptions returns the queue and retry policy of each task type
func taskOptions(taskType string) []asynq.Option {
	switch taskType {
	case TypeCatalogImport, TypeLoadPDFImport:
		return []asynq.Option{
			asynq.Queue(QueueDefault),
			asynq.MaxRetry(3),
			asynq.Timeout(5 * time.Minute),
			asynq.Retention(24 * time.Hour),
		}
	case TypeSalesReport:
		return []asynq.Option{
			asynq.Queue(QueueDefault),
			asynq.MaxRetry(3),
			asynq.Timeout(10 * time.Minute),
			asynq.Retention(24 * time.Hour),
		}
	case TypeDashboardRefresh:
		return []asynq.Option{
			asynq.Queue(QueueCritical),
			asynq.MaxRetry(1),
			asynq.Timeout(time.Minute),
		}
	default:
		return []asynq.Option{
			asynq.Queue(QueueLow),
			asynq.MaxRetry(2),
			asynq.Timeout(5 * time.Minute),
		}
	}
}

// NewTask encodes payload as JSON into a task of taskType
func NewTask(taskType string, payload any) (*asynq.Task, error) {
	if payload == nil {
		return asynq.NewTask(taskType, nil, taskOptions(taskType)...), nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, b, taskOptions(taskType)...), nil
}

// Enqueuer is the part of asynq.Client used to schedule tasks
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskQueue schedules tasks on asynq
type TaskQueue struct {
	client Enqueuer
	logger *slog.Logger
}

var _ ports.TaskQueue = (*TaskQueue)(nil)

// NewTaskQueue creates a new task queue over an asynq client
func NewTaskQueue(client Enqueuer, logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		client: client,
		logger: logger.With(slog.String("component", "task_queue")),
	}
}

// Enqueue schedules a task and returns its id
func (q *TaskQueue) Enqueue(ctx context.Context, taskType string, payload any) (string, error) {
	task, err := NewTask(taskType, payload)
	if err != nil {
		return "", err
	}

	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	q.logger.InfoContext(ctx, "task enqueued",
		slog.String("task_id", info.ID),
		slog.String("task_type", taskType),
		slog.String("queue", info.Queue))

	return info.ID, nil
}

func decodePayload(t *asynq.Task, dst any) error {
	if len(t.Payload()) == 0 {
		return nil
	}
	if err := json.Unmarshal(t.Payload(), dst); err != nil {
		return fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return nil
}
