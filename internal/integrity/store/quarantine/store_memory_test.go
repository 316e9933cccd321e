package quarantine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triad/internal/integrity/models"
	"triad/internal/integrity/store/quarantine"
	rmodels "triad/internal/record/models"
	"triad/pkg/platform/sentinel"
	"triad/pkg/testutil"
)

func newEntry(t *testing.T, id string, at time.Time) *models.QuarantineEntry {
	t.Helper()
	enriched := testutil.CorruptedEnriched(t, rmodels.DimensionTech, rmodels.DimensionPeople)
	enriched.ID = id
	return &models.QuarantineEntry{
		Record: enriched,
		Diagnostic: models.DiagnosticReport{
			IsCorrupted: true,
			Severity:    models.SeverityMajor,
			Corrupted:   []rmodels.Dimension{rmodels.DimensionTech, rmodels.DimensionPeople},
			Healthy:     []rmodels.Dimension{rmodels.DimensionSpirit},
			Confidence:  0.33,
		},
		Reason:        "irreparable",
		QuarantinedAt: at,
	}
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := quarantine.NewInMemory()
	base := testutil.FixedTime

	t.Run("Get for missing record returns ErrNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})

	t.Run("Put then Get returns an isolated copy", func(t *testing.T) {
		entry := newEntry(t, "a4b0f4f6-7a1e-4d39-8f0c-2a7c3f0e9b01", base)
		require.NoError(t, store.Put(ctx, entry))
		entry.Record.People.Guidance[0] = "changed after put"

		got, err := store.Get(ctx, entry.Record.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "changed after put", got.Record.People.Guidance[0])
		assert.Equal(t, models.SeverityMajor, got.Diagnostic.Severity)
	})

	t.Run("List is newest first and bounded", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, newEntry(t, "c1d6a3b2-9f40-4c55-b7a8-1e2d3c4b5a60", base.Add(time.Hour))))
		list, err := store.List(ctx, 1)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "c1d6a3b2-9f40-4c55-b7a8-1e2d3c4b5a60", list[0].Record.ID)

		all, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("Delete removes the record", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "c1d6a3b2-9f40-4c55-b7a8-1e2d3c4b5a60"))
		err := store.Delete(ctx, "c1d6a3b2-9f40-4c55-b7a8-1e2d3c4b5a60")
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))
	})

	t.Run("nil entry is rejected", func(t *testing.T) {
		assert.Error(t, store.Put(ctx, nil))
	})
}
