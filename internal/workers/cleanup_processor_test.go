package workers_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pos-inventory/internal/adapters/storage"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/workers"
	"github.com/ammerola/pos-inventory/test/helpers"
	"github.com/ammerola/pos-inventory/test/mocks"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	modified := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, modified, modified))
	return path
}

func TestCleanupProcessor_Cleanup(t *testing.T) {
	t.Run("deletes_orphans_and_stale_files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockDatabase(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)
		dir := t.TempDir()

		stale := writeAgedFile(t, dir, "boleto_old.pdf", 48*time.Hour)
		fresh := writeAgedFile(t, dir, "boleto_new.pdf", time.Minute)

		gomock.InOrder(
			cache.EXPECT().SetNX(gomock.Any(), "lock:cleanup", gomock.Any(), 10*time.Minute).Return(true, nil),
			db.EXPECT().ExecAll(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, stmts ...ports.Statement) (int64, error) {
					require.Len(t, stmts, 1)
					assert.Contains(t, stmts[0].SQL, "DELETE FROM orders")
					assert.Contains(t, stmts[0].SQL, "NOT EXISTS")
					require.Len(t, stmts[0].Args, 1)
					cutoff, ok := stmts[0].Args[0].(time.Time)
					require.True(t, ok)
					assert.WithinDuration(t, time.Now().Add(-time.Hour), cutoff, time.Minute)
					return 3, nil
				}),
			cache.EXPECT().Delete(gomock.Any(), "lock:cleanup").Return(nil),
		)

		processor := workers.NewCleanupProcessor(db, cache, dir, 24*time.Hour, helpers.TestLogger())
		require.NoError(t, processor.Cleanup(context.Background(), asynq.NewTask(workers.TypeCleanup, nil)))

		assert.NoFileExists(t, stale)
		assert.FileExists(t, fresh)
	})

	t.Run("skips_when_lock_is_held", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockDatabase(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().SetNX(gomock.Any(), "lock:cleanup", gomock.Any(), gomock.Any()).Return(false, nil)

		processor := workers.NewCleanupProcessor(db, cache, t.TempDir(), time.Hour, helpers.TestLogger())
		assert.NoError(t, processor.Cleanup(context.Background(), asynq.NewTask(workers.TypeCleanup, nil)))
	})

	t.Run("runs_without_lock_when_cache_fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockDatabase(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)

		cache.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))
		db.EXPECT().ExecAll(gomock.Any(), gomock.Any()).Return(int64(0), nil)

		processor := workers.NewCleanupProcessor(db, cache, t.TempDir(), time.Hour, helpers.TestLogger())
		assert.NoError(t, processor.Cleanup(context.Background(), asynq.NewTask(workers.TypeCleanup, nil)))
	})

	t.Run("database_failure_releases_lock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockDatabase(ctrl)
		cache := mocks.NewMockCacheRepository(ctrl)
		boom := errors.New("connection reset")

		cache.EXPECT().SetNX(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
		db.EXPECT().ExecAll(gomock.Any(), gomock.Any()).Return(int64(0), boom)
		cache.EXPECT().Delete(gomock.Any(), "lock:cleanup").Return(nil)

		processor := workers.NewCleanupProcessor(db, cache, t.TempDir(), time.Hour, helpers.TestLogger())
		err := processor.Cleanup(context.Background(), asynq.NewTask(workers.TypeCleanup, nil))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("payload_overrides_ages", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		db := mocks.NewMockDatabase(ctrl)
		dir := t.TempDir()
		recent := writeAgedFile(t, dir, "export.xlsx", 10*time.Minute)

		db.EXPECT().ExecAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, stmts ...ports.Statement) (int64, error) {
				cutoff := stmts[0].Args[0].(time.Time)
				assert.WithinDuration(t, time.Now().Add(-30*time.Minute), cutoff, time.Minute)
				return 1, nil
			})

		task, err := workers.NewTask(workers.TypeCleanup, workers.CleanupPayload{
			OrphanOrderAge: 30 * time.Minute,
			TempFileMaxAge: 5 * time.Minute,
		})
		require.NoError(t, err)

		processor := workers.NewCleanupProcessor(db, nil, dir, 24*time.Hour, helpers.TestLogger())
		require.NoError(t, processor.Cleanup(context.Background(), task))
		assert.NoFileExists(t, recent)
	})
}

func TestCleanupProcessor_CleanupTempFiles_MissingDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := filepath.Join(t.TempDir(), "missing")

	processor := workers.NewCleanupProcessor(mocks.NewMockDatabase(ctrl), nil, dir, time.Hour, helpers.TestLogger())
	n, err := processor.CleanupTempFiles(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCleanupProcessor_CleanupTempFiles_KeepsLocalStorage(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	ctx := context.Background()

	store, err := storage.NewLocalStorage(filepath.Join(dir, storage.LocalDirName), helpers.TestLogger())
	require.NoError(t, err)
	_, err = store.Upload(ctx, "reports/sales.xlsx", bytes.NewBufferString("report"), "")
	require.NoError(t, err)

	report := filepath.Join(dir, storage.LocalDirName, "reports", "sales.xlsx")
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(report, old, old))
	stale := writeAgedFile(t, dir, "upload-123.xlsx", 48*time.Hour)

	processor := workers.NewCleanupProcessor(mocks.NewMockDatabase(ctrl), nil, dir, 24*time.Hour, helpers.TestLogger())
	n, err := processor.CleanupTempFiles(ctx, 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, report)

	data, err := store.Download(ctx, "reports/sales.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "report", string(data))
}
