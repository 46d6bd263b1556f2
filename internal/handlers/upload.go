// internal/handlers/upload.go
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
	"github.com/ammerola/pos-inventory/internal/pkg/logger"
	"github.com/ammerola/pos-inventory/internal/workers"
)

// ImportJob is the response to an accepted upload
type ImportJob struct {
	JobID   string `json:"job_id"`
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// uploadKind describes what an import endpoint accepts
type uploadKind struct {
	taskType     string
	extension    string
	contentTypes []string
	maxBytes     int64
}

// importer stores an uploaded file and queues the task that processes it
type importer struct {
	storage ports.FileStorage
	tasks   ports.TaskQueue
	logger  *slog.Logger
}

// accept reads the "file" form field, stores it under uploads/ and enqueues kind.taskType
func (im *importer) accept(w http.ResponseWriter, r *http.Request, kind uploadKind) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, kind.maxBytes+1<<20)
	if err := r.ParseMultipartForm(kind.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(im.logger, w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		respondServiceError(im.logger, w, r, "parse upload", domain.NewInvalidInput("file", "multipart form expected"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondServiceError(im.logger, w, r, "parse upload", domain.NewInvalidInput("file", "is required"))
		return
	}
	defer file.Close()

	if header.Size > kind.maxBytes {
		respondError(im.logger, w, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}
	if !acceptedUpload(header.Filename, header.Header.Get("Content-Type"), kind) {
		respondServiceError(im.logger, w, r, "parse upload",
			domain.NewInvalidInput("file", fmt.Sprintf("only %s files are accepted", kind.extension)))
		return
	}

	jobID := uuid.New().String()
	key := workers.UploadPrefix + jobID + kind.extension
	if _, err := im.storage.Upload(ctx, key, file, kind.contentTypes[0]); err != nil {
		respondServiceError(im.logger, w, r, "store upload", err)
		return
	}

	userID, _ := logger.UserID(ctx)
	taskID, err := im.tasks.Enqueue(ctx, kind.taskType, workers.ImportPayload{
		JobID:    jobID,
		FileKey:  key,
		FileName: header.Filename,
		UserID:   userID,
	})
	if err != nil {
		if delErr := im.storage.Delete(ctx, key); delErr != nil {
			im.logger.WarnContext(ctx, "failed to delete orphan upload",
				slog.String("file_key", key),
				slog.String("error", delErr.Error()))
		}
		respondServiceError(im.logger, w, r, "queue import", err)
		return
	}

	im.logger.InfoContext(ctx, "import queued",
		slog.String("job_id", jobID),
		slog.String("task_id", taskID),
		slog.String("task_type", kind.taskType),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	respondJSON(im.logger, w, http.StatusAccepted, ImportJob{
		JobID:   jobID,
		TaskID:  taskID,
		Status:  "queued",
		Message: "file has been queued for processing",
	})
}

func acceptedUpload(filename, contentType string, kind uploadKind) bool {
	if !strings.EqualFold(filepath.Ext(filename), kind.extension) {
		return false
	}
	if contentType == "" || contentType == "application/octet-stream" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, ct := range kind.contentTypes {
		if mediaType == ct {
			return true
		}
	}
	return false
}
