package quarantine

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"triad/internal/integrity/models"
	"triad/pkg/platform/sentinel"
	"triad/pkg/platform/tx"
)

const schema = `
CREATE TABLE IF NOT EXISTS quarantined_records (
	record_id      TEXT PRIMARY KEY,
	severity       TEXT NOT NULL,
	reason         TEXT NOT NULL,
	record         JSONB NOT NULL,
	diagnostic     JSONB NOT NULL,
	quarantined_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS quarantined_records_at_idx ON quarantined_records (quarantined_at DESC);
`

// PostgresStore persists quarantined records in PostgreSQL. Records and
// diagnostics are stored as JSONB so operators can query them in place.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed quarantine store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the quarantine table when missing. It joins a
// transaction carried by ctx.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := tx.Exec(ctx, s.db).ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate quarantine schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, entry *models.QuarantineEntry) error {
	if entry == nil {
		return fmt.Errorf("quarantine entry is required")
	}
	record, err := json.Marshal(entry.Record)
	if err != nil {
		return fmt.Errorf("encode quarantined record: %w", err)
	}
	diagnostic, err := json.Marshal(entry.Diagnostic)
	if err != nil {
		return fmt.Errorf("encode diagnostic: %w", err)
	}
	_, err = tx.Exec(ctx, s.db).ExecContext(ctx, `
		INSERT INTO quarantined_records (record_id, severity, reason, record, diagnostic, quarantined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (record_id) DO UPDATE SET
			severity = EXCLUDED.severity,
			reason = EXCLUDED.reason,
			record = EXCLUDED.record,
			diagnostic = EXCLUDED.diagnostic,
			quarantined_at = EXCLUDED.quarantined_at`,
		entry.Record.ID,
		string(entry.Diagnostic.Severity),
		entry.Reason,
		record,
		diagnostic,
		entry.QuarantinedAt,
	)
	if err != nil {
		return fmt.Errorf("put quarantined record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, recordID string) (*models.QuarantineEntry, error) {
	row := tx.Exec(ctx, s.db).QueryRowContext(ctx, `
		SELECT reason, record, diagnostic, quarantined_at
		FROM quarantined_records WHERE record_id = $1`, recordID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("quarantined record %s: %w", recordID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get quarantined record: %w", err)
	}
	return entry, nil
}

// List returns entries newest first.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]*models.QuarantineEntry, error) {
	rows, err := tx.Exec(ctx, s.db).QueryContext(ctx, `
		SELECT reason, record, diagnostic, quarantined_at
		FROM quarantined_records
		ORDER BY quarantined_at DESC, record_id
		LIMIT $1`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list quarantined records: %w", err)
	}
	defer rows.Close()

	var entries []*models.QuarantineEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quarantined record: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quarantined records: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) Delete(ctx context.Context, recordID string) error {
	res, err := tx.Exec(ctx, s.db).ExecContext(ctx, `DELETE FROM quarantined_records WHERE record_id = $1`, recordID)
	if err != nil {
		return fmt.Errorf("delete quarantined record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quarantined record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("quarantined record %s: %w", recordID, sentinel.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*models.QuarantineEntry, error) {
	var (
		entry      models.QuarantineEntry
		record     []byte
		diagnostic []byte
	)
	if err := row.Scan(&entry.Reason, &record, &diagnostic, &entry.QuarantinedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(record, &entry.Record); err != nil {
		return nil, fmt.Errorf("decode quarantined record: %w", err)
	}
	if err := json.Unmarshal(diagnostic, &entry.Diagnostic); err != nil {
		return nil, fmt.Errorf("decode diagnostic: %w", err)
	}
	entry.QuarantinedAt = entry.QuarantinedAt.UTC()
	return &entry, nil
}
