package postgres

import (
	"context"
	"database/sql"
)

// Queryer is satisfied by *sql.DB through Connection's embedding.
type Queryer interface {
	QueryContext(ctx context.Context, sql string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, sql string, args ...interface{}) *sql.Row
}
