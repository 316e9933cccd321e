package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "triad/pkg/platform/audit"
	"triad/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_security (
	id         UUID PRIMARY KEY,
	timestamp  TIMESTAMPTZ NOT NULL,
	subject    TEXT NOT NULL,
	action     TEXT NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	ip         TEXT NOT NULL DEFAULT '',
	request_id TEXT NOT NULL DEFAULT '',
	actor_id   TEXT NOT NULL DEFAULT '',
	severity   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS audit_security_timestamp_idx ON audit_security (timestamp DESC);
`

// Store implements audit.Store on the audit_security table.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit table when missing. It joins a transaction
// carried by ctx.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := tx.Exec(ctx, s.db).ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate audit schema: %w", err)
	}
	return nil
}

// AppendSecurity inserts a security event under a fresh ID.
func (s *Store) AppendSecurity(ctx context.Context, event audit.SecurityEvent) error {
	_, err := tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO audit_security (
			id, timestamp, subject, action, reason,
			ip, request_id, actor_id, severity
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		uuid.New(),
		event.Timestamp,
		event.Subject,
		event.Action,
		event.Reason,
		event.IP,
		event.RequestID,
		event.ActorID,
		string(event.Severity),
	)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent events. A non-positive limit returns
// every event.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.SecurityEvent, error) {
	query := `
		SELECT timestamp, subject, action, reason, ip, request_id, actor_id, severity
		FROM audit_security
		ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query security events: %w", err)
	}
	defer rows.Close()

	events := []audit.SecurityEvent{}
	for rows.Next() {
		var (
			event    audit.SecurityEvent
			severity string
		)
		err := rows.Scan(
			&event.Timestamp,
			&event.Subject,
			&event.Action,
			&event.Reason,
			&event.IP,
			&event.RequestID,
			&event.ActorID,
			&severity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		event.Timestamp = event.Timestamp.UTC()
		event.Severity = audit.Severity(severity)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}
	return events, nil
}
