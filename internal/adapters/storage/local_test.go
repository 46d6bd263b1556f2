package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/pos-inventory/internal/adapters/storage"
	"github.com/ammerola/pos-inventory/test/helpers"
)

func newLocal(t *testing.T) (*storage.LocalStorage, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "files")
	s, err := storage.NewLocalStorage(dir, helpers.TestLogger())
	require.NoError(t, err)
	return s, dir
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t)

	location, err := s.Upload(ctx, "uploads/job-1.xlsx", strings.NewReader("conteudo"), "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "file://"))
	assert.FileExists(t, filepath.Join(dir, "uploads", "job-1.xlsx"))

	data, err := s.Download(ctx, "uploads/job-1.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "conteudo", string(data))

	url, err := s.GetPresignedURL(ctx, "uploads/job-1.xlsx", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, location, url)

	require.NoError(t, s.Delete(ctx, "uploads/job-1.xlsx"))
	assert.NoFileExists(t, filepath.Join(dir, "uploads", "job-1.xlsx"))

	_, err = s.Download(ctx, "uploads/job-1.xlsx")
	assert.Error(t, err)

	assert.NoError(t, s.Delete(ctx, "uploads/job-1.xlsx"))
}

func TestLocalStorage_OverwriteLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s, dir := newLocal(t)

	_, err := s.Upload(ctx, "reports/a.xlsx", strings.NewReader("v1"), "")
	require.NoError(t, err)
	_, err = s.Upload(ctx, "reports/a.xlsx", strings.NewReader("v2"), "")
	require.NoError(t, err)

	data, err := s.Download(ctx, "reports/a.xlsx")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t)

	for _, key := range []string{"", "../outside.txt", "a/../../outside.txt", "/etc/passwd"} {
		t.Run(key, func(t *testing.T) {
			_, err := s.Upload(ctx, key, strings.NewReader("x"), "")
			assert.ErrorIs(t, err, storage.ErrInvalidKey)
		})
	}
}

func TestLocalStorage_Ping(t *testing.T) {
	s, dir := newLocal(t)
	require.NoError(t, s.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(dir))
	assert.Error(t, s.Ping(context.Background()))
}
