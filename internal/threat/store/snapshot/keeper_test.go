package snapshot

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triad/internal/record/hashing"
	"triad/internal/threat/models"
	"triad/internal/threat/service"
	"triad/pkg/requestcontext"
)

type failingStore struct{ err error }

func (f failingStore) Save(context.Context, string, models.Snapshot) error { return f.err }
func (f failingStore) Load(context.Context, string) (*models.Snapshot, error) {
	return nil, f.err
}

func newSentinel(t *testing.T) *service.Sentinel {
	t.Helper()
	s, err := service.New(service.DetectorFunc(hashing.Detect),
		service.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return s
}

func TestKeeper_RestoreWithoutSnapshot(t *testing.T) {
	k := NewKeeper(NewInMemory(), newSentinel(t), "edge-1", time.Minute, slog.New(slog.DiscardHandler))
	restored, err := k.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, restored)
	assert.True(t, k.LastSave().IsZero())
}

func TestKeeper_SaveAndRestore(t *testing.T) {
	store := NewInMemory()
	logger := slog.New(slog.DiscardHandler)

	original := newSentinel(t)
	ctx := requestcontext.WithTime(context.Background(), takenAt)
	for _, f := range []float64{10, 11} {
		_, err := original.Scan(ctx, models.ScanInput{Frequency: &f})
		require.NoError(t, err)
	}
	require.NotEqual(t, models.LevelCalm, original.State().Level)

	saved, err := NewKeeper(store, original, "edge-1", time.Minute, logger).SaveNow(context.Background())
	require.NoError(t, err)

	restarted := newSentinel(t)
	k := NewKeeper(store, restarted, "edge-1", time.Minute, logger)
	restored, err := k.Restore(context.Background())
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Equal(t, saved.State.Level, restarted.State().Level)
	assert.Equal(t, saved.State.Score, restarted.State().Score)
	assert.Equal(t, original.Stats(), restarted.Stats())
}

func TestKeeper_StoreErrors(t *testing.T) {
	boom := errors.New("redis down")
	k := NewKeeper(failingStore{err: boom}, newSentinel(t), "edge-1", time.Minute, slog.New(slog.DiscardHandler))

	_, err := k.Restore(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = k.SaveNow(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, k.LastSave().IsZero())
}

func TestKeeper_RunSavesPeriodicallyAndOnStop(t *testing.T) {
	store := NewInMemory()
	k := NewKeeper(store, newSentinel(t), "edge-1", 10*time.Millisecond, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		k.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !k.LastSave().IsZero() }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	snap, err := store.Load(context.Background(), "edge-1")
	require.NoError(t, err)
	assert.Equal(t, models.LevelCalm, snap.State.Level)
}
