// internal/core/ports/database.go
package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Statement is one parameterized SQL statement
type Statement struct {
	SQL  string
	Args []any
}

// Database defines the port for database operations, abstracting away the
// concrete pgxpool implementation from handlers and workers that need basic DB access.
type Database interface {
	Close()
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	// ExecAll runs stmts in one transaction and returns the rows affected across all of them.
	// Nothing is applied unless every statement succeeds.
	ExecAll(ctx context.Context, stmts ...Statement) (int64, error)
}
