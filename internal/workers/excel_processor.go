// internal/workers/excel_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/pos-inventory/internal/adapters/spreadsheet"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// ImportResult is written as the task result of an import
type ImportResult struct {
	Imported int                    `json:"imported"`
	Skipped  []spreadsheet.RowError `json:"skipped,omitempty"`
}

// ExcelProcessor imports catalog workbooks
type ExcelProcessor struct {
	catalog ports.CatalogService
	storage ports.FileStorage
	logger  *slog.Logger
}

// NewExcelProcessor creates a new Excel processor
func NewExcelProcessor(catalog ports.CatalogService, storage ports.FileStorage, logger *slog.Logger) *ExcelProcessor {
	return &ExcelProcessor{
		catalog: catalog,
		storage: storage,
		logger:  logger.With(slog.String("processor", "excel")),
	}
}

// ProcessCatalogImport reads product types from an uploaded workbook and stores them
func (p *ExcelProcessor) ProcessCatalogImport(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}
	if payload.FileKey == "" {
		return fmt.Errorf("missing file key: %w", asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing catalog workbook",
		slog.String("job_id", payload.JobID),
		slog.String("file_key", payload.FileKey))

	data, err := p.storage.Download(ctx, payload.FileKey)
	if err != nil {
		return fmt.Errorf("failed to download workbook: %w", err)
	}

	products, skipped, err := spreadsheet.ReadProducts(data)
	if err != nil {
		return fmt.Errorf("failed to parse workbook %s: %v: %w", payload.FileName, err, asynq.SkipRetry)
	}

	imported, err := p.catalog.ImportProducts(ctx, products)
	if err != nil {
		return fmt.Errorf("failed to import products: %w", err)
	}

	if err := p.storage.Delete(ctx, payload.FileKey); err != nil {
		p.logger.WarnContext(ctx, "failed to delete processed upload",
			slog.String("file_key", payload.FileKey),
			slog.String("error", err.Error()))
	}

	writeResult(ctx, p.logger, t, ImportResult{Imported: imported, Skipped: skipped})

	p.logger.InfoContext(ctx, "catalog import completed",
		slog.String("job_id", payload.JobID),
		slog.Int("rows", len(products)+len(skipped)),
		slog.Int("imported", imported),
		slog.Int("skipped", len(skipped)))

	return nil
}

// writeResult stores v as the task result when the task runs on a server
func writeResult(ctx context.Context, logger *slog.Logger, t *asynq.Task, v any) {
	rw := t.ResultWriter()
	if rw == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		logger.WarnContext(ctx, "failed to marshal task result", slog.String("error", err.Error()))
		return
	}
	if _, err := rw.Write(b); err != nil {
		logger.WarnContext(ctx, "failed to write task result", slog.String("error", err.Error()))
	}
}
