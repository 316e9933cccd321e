// Package quarantine holds records the corrector could not repair.
package quarantine

import (
	"context"

	"triad/internal/integrity/models"
)

// Store persists quarantined records keyed by record ID. Putting an ID
// twice replaces the earlier entry.
type Store interface {
	Put(ctx context.Context, entry *models.QuarantineEntry) error
	Get(ctx context.Context, recordID string) (*models.QuarantineEntry, error)
	List(ctx context.Context, limit int) ([]*models.QuarantineEntry, error)
	Delete(ctx context.Context, recordID string) error
}

const defaultListLimit = 100

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}
