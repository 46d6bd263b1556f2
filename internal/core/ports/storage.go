// internal/core/ports/storage.go
package ports

import (
	"context"
	"io"
	"time"
)

// FileStorage stores generated reports and uploaded documents
type FileStorage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, duration time.Duration) (string, error)
}
