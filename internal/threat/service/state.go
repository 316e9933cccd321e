package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"triad/internal/record/hashing"
	"triad/internal/threat/models"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/middleware/requesttime"
	"triad/pkg/requestcontext"
)

// State returns a copy of the alert position.
func (s *Sentinel) State() models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Sentinel) stateLocked() models.State {
	out := s.state
	out.ActiveThreats = cloneSignals(s.state.ActiveThreats)
	out.LastScan = cloneTime(s.state.LastScan)
	return out
}

// Memory returns a copy of the adaptive memory.
func (s *Sentinel) Memory() models.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.memoryLocked()
}

func (s *Sentinel) memoryLocked() models.Memory {
	counters := make(map[models.ThreatType]int, len(s.counters))
	for t, n := range s.counters {
		counters[t] = n
	}
	return models.Memory{
		RecentSignals: cloneSignals(s.recent.Slice()),
		Counters:      counters,
		Sensitivity:   s.sensitivity,
		LastLockdown:  cloneTime(s.lastLockdown),
	}
}

// Stats returns activity counters.
func (s *Sentinel) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetAlert forces CALM with a zero score and clears active threats.
// Memory, counters, sensitivity and the repetition window are kept.
func (s *Sentinel) ResetAlert(ctx context.Context) {
	now := requesttime.Now(ctx)

	s.mu.Lock()
	previous := s.state.Level
	previousScore := s.state.Score
	s.state.Level = models.LevelCalm
	s.state.Score = 0
	s.state.ActiveThreats = nil
	s.stats.Resets++
	s.metrics.SetAlert(models.LevelCalm.Rank(), 0)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "sentinel alert reset",
		"previous_level", previous,
		"previous_score", previousScore,
		"operator", requestcontext.Operator(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.dispatch(ctx, []models.Event{{
		Type:     models.EventAllClear,
		Previous: previous,
		Level:    models.LevelCalm,
		At:       now,
	}})
}

// AdjustSensitivity adds delta to the sensitivity, never going below the
// configured floor, and returns the new value.
func (s *Sentinel) AdjustSensitivity(delta float64) (float64, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "sensitivity delta must be finite")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sensitivity = math.Max(s.config.MinSensitivity, s.sensitivity+delta)
	s.logger.Info("sentinel sensitivity adjusted",
		"delta", delta,
		"sensitivity", s.sensitivity,
	)
	return s.sensitivity, nil
}

// Snapshot captures everything Restore needs to resume where this sentinel
// left off.
func (s *Sentinel) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fingerprints := s.fingerprints.Slice()
	encoded := make([]string, len(fingerprints))
	for i, fp := range fingerprints {
		encoded[i] = fp.String()
	}
	var baseline *float64
	if s.baseline != nil {
		b := *s.baseline
		baseline = &b
	}
	return models.Snapshot{
		Version:      models.SnapshotVersion,
		TakenAt:      time.Now().UTC(),
		State:        s.stateLocked(),
		Memory:       s.memoryLocked(),
		Stats:        s.stats,
		Baseline:     baseline,
		Fingerprints: encoded,
	}
}

// Restore replaces the sentinel's state with snap. Subscribers are kept and
// no events are emitted. Signals and fingerprints beyond the configured
// capacities keep only the newest entries.
func (s *Sentinel) Restore(snap models.Snapshot) error {
	if err := s.checkSnapshot(snap); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid sentinel snapshot")
	}
	fingerprints := make([]hashing.Digest, len(snap.Fingerprints))
	for i, raw := range snap.Fingerprints {
		fp, err := hashing.ParseDigest(raw)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid sentinel snapshot fingerprint")
		}
		fingerprints[i] = fp
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = models.State{
		Level:         snap.State.Level,
		Score:         snap.State.Score,
		ActiveThreats: cloneSignals(snap.State.ActiveThreats),
		LastScan:      cloneTime(snap.State.LastScan),
	}
	s.recent.Reset()
	for _, sig := range snap.Memory.RecentSignals {
		s.recent.Push(sig.Clone())
	}
	s.counters = newCounters()
	for t, n := range snap.Memory.Counters {
		s.counters[t] = n
	}
	s.sensitivity = snap.Memory.Sensitivity
	s.lastLockdown = cloneTime(snap.Memory.LastLockdown)
	s.stats = snap.Stats
	s.baseline = nil
	if snap.Baseline != nil {
		b := *snap.Baseline
		s.baseline = &b
	}
	s.fingerprints.Reset()
	for _, fp := range fingerprints {
		s.fingerprints.Push(fp)
	}

	s.metrics.SetAlert(s.state.Level.Rank(), s.state.Score)
	s.logger.Info("sentinel state restored",
		"alert_level", s.state.Level,
		"alert_score", s.state.Score,
		"recent_signals", s.recent.Len(),
		"taken_at", snap.TakenAt,
	)
	return nil
}

func (s *Sentinel) checkSnapshot(snap models.Snapshot) error {
	if snap.Version != models.SnapshotVersion {
		return fmt.Errorf("unsupported version %d", snap.Version)
	}
	if !snap.State.Level.IsValid() {
		return fmt.Errorf("unknown alert level %q", snap.State.Level)
	}
	if snap.State.Score < 0 || snap.State.Score > models.MaxScore || math.IsNaN(snap.State.Score) {
		return fmt.Errorf("alert score %g outside [0,%g]", snap.State.Score, models.MaxScore)
	}
	if !(snap.Memory.Sensitivity >= s.config.MinSensitivity) || math.IsInf(snap.Memory.Sensitivity, 0) {
		return fmt.Errorf("sensitivity %g below floor %g", snap.Memory.Sensitivity, s.config.MinSensitivity)
	}
	for t, n := range snap.Memory.Counters {
		if !t.IsValid() || n < 0 {
			return fmt.Errorf("invalid counter %d for %s", n, t)
		}
	}
	for _, sig := range snap.Memory.RecentSignals {
		if !sig.Type.IsValid() || !sig.Pathway.IsValid() {
			return fmt.Errorf("invalid signal %s", sig.ID)
		}
	}
	return nil
}

func cloneSignals(in []models.Signal) []models.Signal {
	out := make([]models.Signal, len(in))
	for i, sig := range in {
		out[i] = sig.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
