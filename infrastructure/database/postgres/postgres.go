package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/sysantonio/api-boukii-sub001/internal/config"
)

// Conn is the database capability the analytics core depends on. The
// transactional store is read-only from this service's perspective, so no
// transaction or exec support is exposed.
type Conn interface {
	Queryer
	Close() error
	Ping(context.Context) error
}

type Connection struct {
	*sql.DB
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return &Connection{DB: db}, nil
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}
