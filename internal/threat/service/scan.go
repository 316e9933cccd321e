package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
	"triad/internal/threat/config"
	"triad/internal/threat/models"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/middleware/requesttime"
	"triad/pkg/requestcontext"
)

// finding is a check hit before it is stamped into a Signal.
type finding struct {
	threat   models.ThreatType
	pathway  models.Pathway
	evidence []string
}

// Scan screens one input. Detection outcomes are returned in the result;
// an error means the input itself was unusable.
func (s *Sentinel) Scan(ctx context.Context, in models.ScanInput) (*models.ScanResult, error) {
	ctx, span := s.tracer.Start(ctx, "sentinel.scan")
	defer span.End()
	start := time.Now()

	result, events, err := s.scan(ctx, in)
	s.metrics.ObserveScanDuration(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sentinel.alert_level", string(result.Level)),
		attribute.Float64("sentinel.alert_score", result.Score),
		attribute.Bool("sentinel.deep_evaluated", result.DeepEvaluated),
	)
	if result.Signal != nil {
		span.SetAttributes(attribute.String("sentinel.threat_type", result.Signal.Type.String()))
	}
	span.SetStatus(codes.Ok, "")

	s.dispatch(ctx, events)
	return result, nil
}

func (s *Sentinel) scan(ctx context.Context, in models.ScanInput) (*models.ScanResult, []models.Event, error) {
	if in.IsEmpty() {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "scan input is empty")
	}
	if in.Frequency != nil && (math.IsNaN(*in.Frequency) || math.IsInf(*in.Frequency, 0)) {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "frequency must be finite")
	}

	fingerprint, err := hashing.Fingerprint(in)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fingerprint scan input")
	}
	breached := false
	if in.Record != nil {
		if breached, err = s.detector.Detect(*in.Record); err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check record integrity")
		}
	}

	now := requesttime.Now(ctx)
	freq := frequencyOf(in)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Scans++
	s.state.LastScan = &now
	s.fingerprints.Push(fingerprint)
	previous := s.state.Level

	hit := s.fastPath(in, freq, breached, fingerprint)
	if freq != nil {
		baseline := *freq
		s.baseline = &baseline
	}

	result := &models.ScanResult{}
	if hit == nil && previous != models.LevelCalm {
		result.DeepEvaluated = true
		s.stats.DeepScans++
		hit = s.deepPath(in, now)
	}

	var events []models.Event
	if hit != nil {
		signal := s.raise(ctx, *hit, in.Source, now)
		result.Signal = &signal
		changes := s.transition(ctx, previous, now)
		events = append(events, models.Event{
			Type:     models.EventThreatDetected,
			Signal:   &signal,
			Previous: previous,
			Level:    s.state.Level,
			Score:    s.state.Score,
			At:       now,
		})
		events = append(events, changes...)
	}

	s.metrics.IncrementScans()
	s.metrics.SetAlert(s.state.Level.Rank(), s.state.Score)

	result.Level = s.state.Level
	result.Score = s.state.Score
	return result, events, nil
}

// frequencyOf prefers the explicit frequency and falls back to the record's
// spirit frequency. A zero spirit frequency counts as absent; the balance
// check reports it.
func frequencyOf(in models.ScanInput) *float64 {
	if in.Frequency != nil {
		f := *in.Frequency
		return &f
	}
	if in.Record != nil && in.Record.Spirit.Frequency != 0 {
		f := in.Record.Spirit.Frequency
		return &f
	}
	return nil
}

// fastPath runs the five cheap checks; the first hit wins. Callers hold mu.
func (s *Sentinel) fastPath(in models.ScanInput, freq *float64, breached bool, fingerprint hashing.Digest) *finding {
	fast := func(t models.ThreatType, evidence ...string) *finding {
		return &finding{threat: t, pathway: models.PathwayFast, evidence: evidence}
	}

	if freq != nil && (*freq < rmodels.MinFrequency || *freq > rmodels.MaxFrequency) {
		return fast(models.ThreatFrequencyAnomaly,
			fmt.Sprintf("frequency %g outside [%g, %g]", *freq, rmodels.MinFrequency, rmodels.MaxFrequency))
	}
	if breached {
		return fast(models.ThreatIntegrityBreach,
			fmt.Sprintf("record %s integrity hash does not match its payloads", in.Record.ID))
	}
	if in.Record != nil {
		if gaps := imbalance(*in.Record); len(gaps) > 0 {
			return fast(models.ThreatIntegrityBreach, gaps...)
		}
	}
	if freq != nil && s.baseline != nil {
		if delta := math.Abs(*freq - *s.baseline); delta > s.config.SpikeThreshold {
			return fast(models.ThreatFrequencyAnomaly,
				fmt.Sprintf("frequency %g deviates %g from baseline %g", *freq, delta, *s.baseline))
		}
	}
	if seen := s.countFingerprint(fingerprint); seen > s.config.RepetitionLimit {
		return fast(models.ThreatCascadeRisk,
			fmt.Sprintf("input %.16s repeated %d times in the last %d inputs", fingerprint, seen, s.fingerprints.Len()))
	}
	return nil
}

// imbalance lists the degenerate payloads of r.
func imbalance(r rmodels.EncodingRecord) []string {
	var gaps []string
	if r.Tech.DataType == "" {
		gaps = append(gaps, "tech: empty data type")
	}
	if r.Tech.SchemaVersion == "" {
		gaps = append(gaps, "tech: empty schema version")
	}
	if strings.TrimSpace(r.People.Narrative) == "" {
		gaps = append(gaps, "people: empty narrative")
	}
	if r.Spirit.Resonance == 0 {
		gaps = append(gaps, "spirit: zero resonance")
	}
	if r.Spirit.Frequency == 0 {
		gaps = append(gaps, "spirit: zero frequency")
	}
	if r.Spirit.Geometry == "" {
		gaps = append(gaps, "spirit: empty geometry")
	}
	return gaps
}

func (s *Sentinel) countFingerprint(fingerprint hashing.Digest) int {
	seen := 0
	for _, fp := range s.fingerprints.Slice() {
		if fp == fingerprint {
			seen++
		}
	}
	return seen
}

// deepPath runs the expensive checks in order; the first hit wins. Callers
// hold mu.
func (s *Sentinel) deepPath(in models.ScanInput, now time.Time) *finding {
	deep := func(t models.ThreatType, evidence []string) *finding {
		return &finding{threat: t, pathway: models.PathwayDeep, evidence: evidence}
	}

	text := screenText(in)
	if evidence := config.Match(s.manipulation, text); len(evidence) > 0 {
		return deep(models.ThreatManipulation, evidence)
	}
	if in.Intention != nil && !in.Intention.ServesFlourishing && !in.Intention.CreatesValue {
		return deep(models.ThreatExtraction, []string{
			fmt.Sprintf("intention %q neither serves flourishing nor creates value", in.Intention.Description),
		})
	}
	if evidence := config.Match(s.sovereignty, text); len(evidence) > 0 {
		return deep(models.ThreatSovereignty, evidence)
	}
	if types := s.recentTypes(now); len(types) >= s.config.CascadeDistinct {
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		return deep(models.ThreatCascadeRisk, []string{
			fmt.Sprintf("%d distinct signal types within %s: %s", len(types), s.config.CascadeWindow, strings.Join(names, ", ")),
		})
	}
	return nil
}

// screenText gathers every free-text field of the input.
func screenText(in models.ScanInput) string {
	var parts []string
	if in.Content != "" {
		parts = append(parts, in.Content)
	}
	if in.Intention != nil && in.Intention.Description != "" {
		parts = append(parts, in.Intention.Description)
	}
	if in.Record != nil {
		if in.Record.People.Narrative != "" {
			parts = append(parts, in.Record.People.Narrative)
		}
		parts = append(parts, in.Record.People.Guidance...)
	}
	return strings.Join(parts, "\n")
}

// recentTypes returns the distinct signal types recorded within the cascade
// window before now, in first-seen order.
func (s *Sentinel) recentTypes(now time.Time) []models.ThreatType {
	cutoff := now.Add(-s.config.CascadeWindow)
	seen := make(map[models.ThreatType]bool)
	var types []models.ThreatType
	for _, sig := range s.recent.Slice() {
		if sig.Timestamp.Before(cutoff) || sig.Timestamp.After(now) || seen[sig.Type] {
			continue
		}
		seen[sig.Type] = true
		types = append(types, sig.Type)
	}
	return types
}

// raise stamps a finding into a Signal and applies it to memory, score and
// sensitivity. Callers hold mu.
func (s *Sentinel) raise(ctx context.Context, f finding, source string, now time.Time) models.Signal {
	signal := models.Signal{
		ID:        uuid.NewString(),
		Type:      f.threat,
		Severity:  f.threat.Severity(),
		Pathway:   f.pathway,
		Evidence:  f.evidence,
		Source:    source,
		Timestamp: now,
	}

	s.recent.Push(signal.Clone())
	s.state.ActiveThreats = append(s.state.ActiveThreats, signal.Clone())
	if over := len(s.state.ActiveThreats) - s.config.MemoryCapacity; over > 0 {
		s.state.ActiveThreats = append([]models.Signal(nil), s.state.ActiveThreats[over:]...)
	}

	s.state.Score = math.Min(models.MaxScore, s.state.Score+signal.Severity*s.sensitivity*s.config.ScoreFactor)

	s.counters[signal.Type]++
	if s.counters[signal.Type] > s.config.AdaptiveThreshold && s.sensitivity < s.config.MaxAdaptiveSensitivity {
		s.sensitivity = math.Min(s.config.MaxAdaptiveSensitivity, s.sensitivity+s.config.AdaptiveStep)
	}

	if signal.Pathway == models.PathwayDeep {
		s.stats.DeepSignals++
	} else {
		s.stats.FastSignals++
	}
	s.metrics.IncrementSignals(signal.Type.String(), string(signal.Pathway))

	s.logger.InfoContext(ctx, "threat signal raised",
		"signal_id", signal.ID,
		"threat_type", signal.Type.String(),
		"pathway", signal.Pathway,
		"severity", signal.Severity,
		"alert_score", s.state.Score,
		"sensitivity", s.sensitivity,
		"source", source,
		"request_id", requestcontext.RequestID(ctx),
	)
	return signal
}

// transition re-derives the level from the score and reports any change.
// Callers hold mu.
func (s *Sentinel) transition(ctx context.Context, previous models.AlertLevel, now time.Time) []models.Event {
	level := models.LevelFor(s.state.Score)
	if level == previous {
		return nil
	}
	s.state.Level = level
	events := []models.Event{{
		Type:     models.EventAlertChanged,
		Previous: previous,
		Level:    level,
		Score:    s.state.Score,
		At:       now,
	}}
	s.logger.WarnContext(ctx, "alert level changed",
		"previous_level", previous,
		"alert_level", level,
		"alert_score", s.state.Score,
	)

	if level == models.LevelLockdown {
		at := now
		s.lastLockdown = &at
		s.stats.Lockdowns++
		s.metrics.IncrementLockdowns()
		events = append(events, models.Event{
			Type:     models.EventLockdownEngaged,
			Previous: previous,
			Level:    level,
			Score:    s.state.Score,
			At:       now,
		})
		s.logger.WarnContext(ctx, "lockdown engaged",
			"alert_score", s.state.Score,
			"active_threats", len(s.state.ActiveThreats),
		)
	}
	return events
}
