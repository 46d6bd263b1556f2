// internal/workers/pdf_processor.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/ledongthuc/pdf"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
	"github.com/ammerola/pos-inventory/internal/core/ports"
)

var (
	cnpjRe   = regexp.MustCompile(`\b\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}\b`)
	amountRe = regexp.MustCompile(`R\$\s*((?:0|[1-9]\d{0,2}(?:\.\d{3})*),\d{2})`)
	dateRe   = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)
)

// ErrNoBoletoData means the document lacks a CNPJ, an amount or a due date
var ErrNoBoletoData = errors.New("boleto data not found")

// Boleto holds the fields read from a billing ticket
type Boleto struct {
	CNPJs   []string
	Amount  decimal.Decimal
	DueDate time.Time
}

// ParseBoleto extracts candidate CNPJs, the document amount and the due date.
// The amount is the largest R$ value, and the due date is the one on a
// "Vencimento" line or, failing that, the latest date found.
func ParseBoleto(text string, loc *time.Location) (*Boleto, error) {
	if loc == nil {
		loc = time.UTC
	}

	b := &Boleto{}
	seen := make(map[string]bool)
	for _, m := range cnpjRe.FindAllString(text, -1) {
		digits := domain.NormalizeCNPJ(m)
		if seen[digits] || !domain.ValidCNPJ(digits) {
			continue
		}
		seen[digits] = true
		b.CNPJs = append(b.CNPJs, digits)
	}
	if len(b.CNPJs) == 0 {
		return nil, fmt.Errorf("no valid CNPJ: %w", ErrNoBoletoData)
	}

	for _, m := range amountRe.FindAllStringSubmatch(text, -1) {
		amount, err := domain.ParseBRL(m[1])
		if err != nil {
			continue
		}
		if amount.GreaterThan(b.Amount) {
			b.Amount = amount
		}
	}
	if !b.Amount.IsPositive() {
		return nil, fmt.Errorf("no amount: %w", ErrNoBoletoData)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), "vencimento") {
			continue
		}
		candidates := line
		if i+1 < len(lines) {
			candidates += " " + lines[i+1]
		}
		if m := dateRe.FindString(candidates); m != "" {
			if due, err := time.ParseInLocation("02/01/2006", m, loc); err == nil {
				b.DueDate = due
				break
			}
		}
	}
	if b.DueDate.IsZero() {
		for _, m := range dateRe.FindAllString(text, -1) {
			due, err := time.ParseInLocation("02/01/2006", m, loc)
			if err == nil && due.After(b.DueDate) {
				b.DueDate = due
			}
		}
	}
	if b.DueDate.IsZero() {
		return nil, fmt.Errorf("no due date: %w", ErrNoBoletoData)
	}

	return b, nil
}

// PDFProcessor turns uploaded boletos into loads
type PDFProcessor struct {
	suppliers ports.SupplierService
	storage   ports.FileStorage
	tempDir   string
	loc       *time.Location
	logger    *slog.Logger
}

// NewPDFProcessor creates a new PDF processor
func NewPDFProcessor(suppliers ports.SupplierService, storage ports.FileStorage, tempDir string, loc *time.Location, logger *slog.Logger) *PDFProcessor {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &PDFProcessor{
		suppliers: suppliers,
		storage:   storage,
		tempDir:   tempDir,
		loc:       loc,
		logger:    logger.With(slog.String("processor", "pdf")),
	}
}

// ProcessLoadImport reads a boleto and records it as a load of its supplier
func (p *PDFProcessor) ProcessLoadImport(ctx context.Context, t *asynq.Task) error {
	var payload ImportPayload
	if err := decodePayload(t, &payload); err != nil {
		return err
	}
	if payload.FileKey == "" {
		return fmt.Errorf("missing file key: %w", asynq.SkipRetry)
	}

	p.logger.InfoContext(ctx, "processing boleto",
		slog.String("job_id", payload.JobID),
		slog.String("file_key", payload.FileKey))

	data, err := p.storage.Download(ctx, payload.FileKey)
	if err != nil {
		return fmt.Errorf("failed to download boleto: %w", err)
	}

	text, err := p.extractText(ctx, data)
	if err != nil {
		return fmt.Errorf("failed to read boleto %s: %v: %w", payload.FileName, err, asynq.SkipRetry)
	}

	boleto, err := ParseBoleto(text, p.loc)
	if err != nil {
		return fmt.Errorf("failed to parse boleto %s: %v: %w", payload.FileName, err, asynq.SkipRetry)
	}

	supplier, err := p.findSupplier(ctx, boleto.CNPJs)
	if err != nil {
		return err
	}

	load := &domain.Load{
		SupplierID:   supplier.ID,
		PurchaseCost: boleto.Amount,
		DueDate:      boleto.DueDate,
	}
	if err := p.suppliers.CreateLoad(ctx, load); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to create load: %v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to create load: %w", err)
	}

	if err := p.storage.Delete(ctx, payload.FileKey); err != nil {
		p.logger.WarnContext(ctx, "failed to delete processed upload",
			slog.String("file_key", payload.FileKey),
			slog.String("error", err.Error()))
	}

	writeResult(ctx, p.logger, t, load)

	p.logger.InfoContext(ctx, "boleto imported",
		slog.String("job_id", payload.JobID),
		slog.Int64("load_id", load.ID),
		slog.Int64("supplier_id", supplier.ID),
		slog.String("amount", boleto.Amount.StringFixed(2)))

	return nil
}

// findSupplier returns the first registered supplier among cnpjs.
// A boleto also carries the payer's CNPJ, so unknown ones are skipped.
func (p *PDFProcessor) findSupplier(ctx context.Context, cnpjs []string) (*domain.Supplier, error) {
	for _, cnpj := range cnpjs {
		supplier, err := p.suppliers.FindSupplierByCNPJ(ctx, cnpj)
		if err == nil {
			return supplier, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to find supplier: %w", err)
		}
	}
	return nil, fmt.Errorf("no registered supplier among %v: %w", cnpjs, asynq.SkipRetry)
}

func (p *PDFProcessor) extractText(ctx context.Context, data []byte) (_ string, err error) {
	// the pdf reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	if err := os.MkdirAll(p.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	path := filepath.Join(p.tempDir, "boleto_"+uuid.New().String()+".pdf")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	defer os.Remove(path)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.WarnContext(ctx, "failed to extract text from page",
				slog.Int("page", pageNum),
				slog.String("error", err.Error()))
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
