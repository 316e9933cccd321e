// Package adapters turns infrastructure clients into admin health checkers.
package adapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLChecker probes a database pool with a ping.
type SQLChecker struct {
	db *sql.DB
}

func NewSQLChecker(db *sql.DB) *SQLChecker {
	return &SQLChecker{db: db}
}

func (c *SQLChecker) Health(ctx context.Context) error {
	if c.db == nil {
		return errors.New("database not configured")
	}
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// CheckerFunc adapts a plain function to a health checker.
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Health(ctx context.Context) error { return f(ctx) }
