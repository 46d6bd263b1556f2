// internal/adapters/db/repository.go
package db

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/pos-inventory/internal/core/domain"
)

// psql builds Postgres statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// querier is satisfied by *pgxpool.Pool, *Database and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Postgres error codes mapped to domain errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapError converts a driver error into a domain error for op.
// Constraint violations become conflicts or missing references; everything else is a StorageError.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return domain.Conflictf("%s: duplicate value", op)
	case pgForeignKeyViolation:
		if strings.HasPrefix(op, "delete") {
			return domain.Conflictf("%s: still referenced", op)
		}
		return domain.NotFoundf("%s: referenced record", op)
	case pgCheckViolation:
		return domain.NewInvalidInput(op, "violates a table constraint")
	}
	return domain.NewStorageError(op, err)
}

// likePattern turns "arroz tipo" into "%arroz%tipo%", escaping LIKE metacharacters
func likePattern(search string) string {
	words := strings.Fields(search)
	if len(words) == 0 {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	for i, w := range words {
		words[i] = r.Replace(w)
	}
	return "%" + strings.Join(words, "%") + "%"
}

// countQuery runs a SELECT COUNT(*) built from b
func countQuery(ctx context.Context, q querier, b sq.SelectBuilder) (int, error) {
	sqlStr, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := q.QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
