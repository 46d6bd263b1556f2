// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// statusFor maps a core error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock), errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(logger *slog.Logger, w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(logger *slog.Logger, w http.ResponseWriter, status int, message string) {
	respondJSON(logger, w, status, map[string]string{"error": message})
}

// respondServiceError logs err and answers with its mapped status.
// Storage failures are not echoed to the client.
func respondServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "failed to "+op,
			slog.String("error", err.Error()))
		respondError(logger, w, status, "internal server error")
		return
	}

	logger.DebugContext(r.Context(), op+" rejected",
		slog.String("error", err.Error()),
		slog.Int("status", status))
	respondError(logger, w, status, err.Error())
}

// Validator checks request DTOs. Field names in errors are the JSON names.
type Validator struct {
	v *validator.Validate
}

// NewValidator registers the ean13 and cnpj tags
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation("ean13", func(fl validator.FieldLevel) bool {
		return domain.ValidEAN13(fl.Field().String())
	})
	_ = v.RegisterValidation("cnpj", func(fl validator.FieldLevel) bool {
		return domain.ValidCNPJ(fl.Field().String())
	})
	return &Validator{v: v}
}

// Struct returns an InvalidInputError for the first failing field
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return domain.NewInvalidInput(fe.Field(), reasonFor(fe))
	}
	return domain.NewInvalidInput("body", err.Error())
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ean13":
		return "not a valid EAN-13"
	case "cnpj":
		return "not a valid CNPJ"
	case "email":
		return "not a valid email"
	case "datetime":
		return "must be a date in the format " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

// decodeJSON reads a JSON body into dst and validates it
func decodeJSON(v *Validator, r *http.Request, w http.ResponseWriter, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewInvalidInput("body", "is required")
		}
		return domain.NewInvalidInput("body", err.Error())
	}
	return v.Struct(dst)
}

// Money accepts a JSON number, a decimal string or a pt-BR amount such as "1.234,56"
type Money struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Money) UnmarshalJSON(b []byte) error {
	if err := m.Decimal.UnmarshalJSON(b); err == nil {
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("invalid amount %s", b)
	}
	d, err := domain.ParseBRL(s)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.NewInvalidInput(name, "must be a positive integer")
	}
	return id, nil
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(domain.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, domain.NewInvalidInput(field, "must be a date in the format "+domain.DateLayout)
	}
	return t, nil
}
