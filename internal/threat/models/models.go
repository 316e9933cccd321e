// Package models holds the sentinel's signal, state and event types.
package models

import (
	"fmt"
	"time"
)

// ThreatType classifies a signal. The zero-based values index the
// per-type tables below, so every table is sized by threatTypeCount and a
// new type that is not added to each of them fails to compile.
type ThreatType int

const (
	ThreatFrequencyAnomaly ThreatType = iota
	ThreatIntegrityBreach
	ThreatCascadeRisk
	ThreatManipulation
	ThreatExtraction
	ThreatSovereignty

	threatTypeCount
)

var threatTypeNames = [threatTypeCount]string{
	ThreatFrequencyAnomaly: "frequency_anomaly",
	ThreatIntegrityBreach:  "integrity_breach",
	ThreatCascadeRisk:      "cascade_risk",
	ThreatManipulation:     "manipulation_detected",
	ThreatExtraction:       "extraction_attempt",
	ThreatSovereignty:      "sovereignty_violation",
}

var threatSeverities = [threatTypeCount]float64{
	ThreatFrequencyAnomaly: 40,
	ThreatIntegrityBreach:  70,
	ThreatCascadeRisk:      60,
	ThreatManipulation:     75,
	ThreatExtraction:       65,
	ThreatSovereignty:      80,
}

// ThreatTypes returns every threat type in declaration order.
func ThreatTypes() []ThreatType {
	out := make([]ThreatType, threatTypeCount)
	for i := range out {
		out[i] = ThreatType(i)
	}
	return out
}

func (t ThreatType) IsValid() bool {
	return t >= 0 && t < threatTypeCount
}

func (t ThreatType) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("threat_type(%d)", int(t))
	}
	return threatTypeNames[t]
}

// Severity is the base weight a signal of this type adds to the score.
func (t ThreatType) Severity() float64 {
	if !t.IsValid() {
		return 0
	}
	return threatSeverities[t]
}

func (t ThreatType) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid threat type %d", int(t))
	}
	return []byte(threatTypeNames[t]), nil
}

func (t *ThreatType) UnmarshalText(text []byte) error {
	parsed, err := ParseThreatType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseThreatType maps a wire name back to its type.
func ParseThreatType(name string) (ThreatType, error) {
	for i, n := range threatTypeNames {
		if n == name {
			return ThreatType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown threat type %q", name)
}

// Pathway names the screening path that produced a signal.
type Pathway string

const (
	PathwayFast Pathway = "fast"
	PathwayDeep Pathway = "deep"
)

func (p Pathway) IsValid() bool {
	return p == PathwayFast || p == PathwayDeep
}

// AlertLevel is the graduated sentinel state derived from the score.
type AlertLevel string

const (
	LevelCalm     AlertLevel = "CALM"
	LevelVigilant AlertLevel = "VIGILANT"
	LevelAlert    AlertLevel = "ALERT"
	LevelLockdown AlertLevel = "LOCKDOWN"
)

// Score thresholds, inclusive upper bounds.
const (
	MaxScore = 100.0

	calmCeiling     = 25.0
	vigilantCeiling = 50.0
	alertCeiling    = 75.0
)

func (l AlertLevel) IsValid() bool {
	switch l {
	case LevelCalm, LevelVigilant, LevelAlert, LevelLockdown:
		return true
	}
	return false
}

// Rank orders levels from CALM (0) to LOCKDOWN (3).
func (l AlertLevel) Rank() int {
	switch l {
	case LevelVigilant:
		return 1
	case LevelAlert:
		return 2
	case LevelLockdown:
		return 3
	default:
		return 0
	}
}

// LevelFor derives the alert level from a score.
func LevelFor(score float64) AlertLevel {
	switch {
	case score <= calmCeiling:
		return LevelCalm
	case score <= vigilantCeiling:
		return LevelVigilant
	case score <= alertCeiling:
		return LevelAlert
	default:
		return LevelLockdown
	}
}

// Signal is one detection. It is never mutated after creation.
type Signal struct {
	ID        string     `json:"id" cbor:"id"`
	Type      ThreatType `json:"type" cbor:"type"`
	Severity  float64    `json:"severity" cbor:"severity"`
	Pathway   Pathway    `json:"pathway" cbor:"pathway"`
	Evidence  []string   `json:"evidence" cbor:"evidence"`
	Source    string     `json:"source,omitempty" cbor:"source,omitempty"`
	Timestamp time.Time  `json:"timestamp" cbor:"timestamp"`
}

// Clone returns a copy that shares no slices with s.
func (s Signal) Clone() Signal {
	out := s
	out.Evidence = append([]string(nil), s.Evidence...)
	return out
}

// State is the sentinel's alert position.
type State struct {
	Level         AlertLevel `json:"alert_level" cbor:"alert_level"`
	Score         float64    `json:"alert_score" cbor:"alert_score"`
	ActiveThreats []Signal   `json:"active_threats" cbor:"active_threats"`
	LastScan      *time.Time `json:"last_scan" cbor:"last_scan"`
}

// Memory is the sentinel's adaptive memory. It survives ResetAlert.
type Memory struct {
	RecentSignals []Signal           `json:"recent_signals" cbor:"recent_signals"`
	Counters      map[ThreatType]int `json:"counters" cbor:"counters"`
	Sensitivity   float64            `json:"sensitivity" cbor:"sensitivity"`
	LastLockdown  *time.Time         `json:"last_lockdown" cbor:"last_lockdown"`
}

// Stats counts sentinel activity since construction or restore.
type Stats struct {
	Scans       int64 `json:"scans" cbor:"scans"`
	FastSignals int64 `json:"fast_signals" cbor:"fast_signals"`
	DeepSignals int64 `json:"deep_signals" cbor:"deep_signals"`
	DeepScans   int64 `json:"deep_scans" cbor:"deep_scans"`
	Lockdowns   int64 `json:"lockdowns" cbor:"lockdowns"`
	Resets      int64 `json:"resets" cbor:"resets"`
}

// Signals returns the total across both pathways.
func (s Stats) Signals() int64 {
	return s.FastSignals + s.DeepSignals
}

// SnapshotVersion is bumped when the snapshot layout changes incompatibly.
const SnapshotVersion = 1

// Snapshot is the serializable form of a sentinel, persisted by its host.
type Snapshot struct {
	Version      int       `json:"version" cbor:"version"`
	TakenAt      time.Time `json:"taken_at" cbor:"taken_at"`
	State        State     `json:"state" cbor:"state"`
	Memory       Memory    `json:"memory" cbor:"memory"`
	Stats        Stats     `json:"stats" cbor:"stats"`
	Baseline     *float64  `json:"baseline" cbor:"baseline"`
	Fingerprints []string  `json:"fingerprints" cbor:"fingerprints"`
}

// Intention is a declared purpose screened by the extraction check.
type Intention struct {
	Description       string `json:"description" cbor:"description"`
	ServesFlourishing bool   `json:"serves_flourishing" cbor:"serves_flourishing"`
	CreatesValue      bool   `json:"creates_value" cbor:"creates_value"`
}

// ScanResult reports the outcome of one scan. Signal is nil when nothing
// fired.
type ScanResult struct {
	Signal        *Signal    `json:"signal"`
	Level         AlertLevel `json:"alert_level"`
	Score         float64    `json:"alert_score"`
	DeepEvaluated bool       `json:"deep_evaluated"`
}
