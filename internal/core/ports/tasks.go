// internal/core/ports/tasks.go
package ports

import "context"

// TaskQueue hands work to the background workers
type TaskQueue interface {
	// Enqueue schedules a task of taskType with a JSON-encoded payload and returns its id
	Enqueue(ctx context.Context, taskType string, payload any) (string, error)
}
