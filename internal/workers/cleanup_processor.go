// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pos-inventory/internal/adapters/storage"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

const (
	defaultOrphanOrderAge = time.Hour
	defaultTempFileMaxAge = 24 * time.Hour
	cleanupLockKey        = "lock:cleanup"
	cleanupLockTTL        = 10 * time.Minute
)

// CleanupProcessor removes orders left without items and stale temp files
type CleanupProcessor struct {
	db      ports.Database
	cache   ports.CacheRepository
	tempDir string
	maxAge  time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db ports.Database, cache ports.CacheRepository, tempDir string, tempFileMaxAge time.Duration, logger *slog.Logger) *CleanupProcessor {
	if tempFileMaxAge <= 0 {
		tempFileMaxAge = defaultTempFileMaxAge
	}
	return &CleanupProcessor{
		db:      db,
		cache:   cache,
		tempDir: tempDir,
		maxAge:  tempFileMaxAge,
		now:     time.Now,
		logger:  logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupResult is written as the task result of a maintenance run
type CleanupResult struct {
	OrdersDeleted int64 `json:"orders_deleted"`
	FilesDeleted  int   `json:"files_deleted"`
}

// Cleanup runs one maintenance pass. Overlapping runs are skipped.
func (p *CleanupProcessor) Cleanup(ctx context.Context, t *asynq.Task) error {
	var payload CleanupPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}

	if p.cache != nil {
		acquired, err := p.cache.SetNX(ctx, cleanupLockKey, p.now().Unix(), cleanupLockTTL)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to take cleanup lock", slog.String("error", err.Error()))
		} else if !acquired {
			p.logger.InfoContext(ctx, "cleanup already running, skipping")
			return nil
		} else {
			defer func() {
				if err := p.cache.Delete(context.WithoutCancel(ctx), cleanupLockKey); err != nil {
					p.logger.WarnContext(ctx, "failed to release cleanup lock", slog.String("error", err.Error()))
				}
			}()
		}
	}

	orphanAge := payload.OrphanOrderAge
	if orphanAge <= 0 {
		orphanAge = defaultOrphanOrderAge
	}
	orders, err := p.CleanupOrphanOrders(ctx, p.now().Add(-orphanAge))
	if err != nil {
		return err
	}

	maxAge := payload.TempFileMaxAge
	if maxAge <= 0 {
		maxAge = p.maxAge
	}
	files, err := p.CleanupTempFiles(ctx, maxAge)
	if err != nil {
		return err
	}

	writeResult(ctx, p.logger, t, CleanupResult{OrdersDeleted: orders, FilesDeleted: files})
	return nil
}

// CleanupOrphanOrders deletes orders older than cutoff that have no items
func (p *CleanupProcessor) CleanupOrphanOrders(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := p.db.ExecAll(ctx, ports.Statement{
		SQL: `
			DELETE FROM orders o
			WHERE o.order_date < $1
			  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi."order" = o.order_id)`,
		Args: []any{cutoff},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphan orders: %w", err)
	}

	p.logger.InfoContext(ctx, "orphan orders cleaned up",
		slog.Int64("orders_deleted", deleted),
		slog.Time("cutoff", cutoff))

	return deleted, nil
}

// CleanupTempFiles removes files in the temp dir not modified within maxAge.
// Files kept by local storage are left alone.
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, maxAge time.Duration) (int, error) {
	if p.tempDir == "" {
		return 0, nil
	}

	storageDir := filepath.Join(p.tempDir, storage.LocalDirName)
	cutoff := p.now().Add(-maxAge)
	var deletedCount int
	err := filepath.WalkDir(p.tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path == storageDir {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}
		return nil
	})
	if err != nil {
		return deletedCount, fmt.Errorf("failed to walk temp directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return deletedCount, nil
}
