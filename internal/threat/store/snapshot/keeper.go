package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"triad/internal/threat/models"
	"triad/pkg/platform/sentinel"
)

// Snapshotter is the part of the sentinel the keeper persists.
type Snapshotter interface {
	Snapshot() models.Snapshot
	Restore(snap models.Snapshot) error
}

// Keeper restores a sentinel from its store on start and saves it
// periodically afterwards, so a restarted host resumes where it left off.
type Keeper struct {
	store    Store
	target   Snapshotter
	name     string
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	lastSave time.Time
}

// NewKeeper binds target to store under name.
func NewKeeper(store Store, target Snapshotter, name string, interval time.Duration, logger *slog.Logger) *Keeper {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Keeper{
		store:    store,
		target:   target,
		name:     name,
		interval: interval,
		logger:   logger,
	}
}

// Restore loads the saved snapshot into the sentinel. It reports false
// without error when nothing was saved yet.
func (k *Keeper) Restore(ctx context.Context) (bool, error) {
	snap, err := k.store.Load(ctx, k.name)
	if errors.Is(err, sentinel.ErrNotFound) {
		k.logger.InfoContext(ctx, "no sentinel snapshot to restore", "sentinel", k.name)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load snapshot %s: %w", k.name, err)
	}
	if err := k.target.Restore(*snap); err != nil {
		return false, fmt.Errorf("restore snapshot %s: %w", k.name, err)
	}
	k.logger.InfoContext(ctx, "sentinel snapshot restored",
		"sentinel", k.name,
		"taken_at", snap.TakenAt,
		"level", string(snap.State.Level),
	)
	return true, nil
}

// SaveNow writes the sentinel's current snapshot.
func (k *Keeper) SaveNow(ctx context.Context) (models.Snapshot, error) {
	snap := k.target.Snapshot()
	if err := k.store.Save(ctx, k.name, snap); err != nil {
		return snap, fmt.Errorf("save snapshot %s: %w", k.name, err)
	}
	k.mu.Lock()
	k.lastSave = snap.TakenAt
	k.mu.Unlock()
	return snap, nil
}

// LastSave returns when the last successful save was taken, zero if never.
func (k *Keeper) LastSave() time.Time {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lastSave
}

// Run saves on every interval until ctx is cancelled, then saves once more
// with a detached context. Save failures are logged and retried next tick.
func (k *Keeper) Run(ctx context.Context) {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := k.SaveNow(ctx); err != nil {
				k.logger.WarnContext(ctx, "periodic snapshot failed", "sentinel", k.name, "error", err)
			}
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			if _, err := k.SaveNow(final); err != nil {
				k.logger.ErrorContext(final, "final snapshot failed", "sentinel", k.name, "error", err)
			}
			cancel()
			return
		}
	}
}
