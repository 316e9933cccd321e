package models

import (
	"time"

	rmodels "triad/internal/record/models"
)

// Severity grades a diagnosis by how many dimensions diverged.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is one of the supported enum values.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityNone, SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	}
	return false
}

// Repairable reports whether a single-dimension repair is possible.
func (s Severity) Repairable() bool {
	return s == SeverityMinor
}

// SeverityFor maps a corrupted-dimension count to its severity.
func SeverityFor(corrupted int) Severity {
	switch {
	case corrupted <= 0:
		return SeverityNone
	case corrupted == 1:
		return SeverityMinor
	case corrupted == 2:
		return SeverityMajor
	default:
		return SeverityCritical
	}
}

// DiagnosticReport localizes which dimensions disagree with the hashes
// captured at enrichment. It is derived on demand and never stored.
type DiagnosticReport struct {
	IsCorrupted bool                `json:"is_corrupted"`
	Severity    Severity            `json:"severity"`
	Corrupted   []rmodels.Dimension `json:"corrupted_dimensions"`
	Healthy     []rmodels.Dimension `json:"healthy_dimensions"`
	Confidence  float64             `json:"confidence"`
}

// CorrectionResult is the outcome of one reconstruction attempt.
type CorrectionResult struct {
	Applied   bool                    `json:"applied"`
	Corrected *rmodels.EncodingRecord `json:"corrected"`
	Log       []string                `json:"correction_log"`
	// Repaired names the rebuilt dimension when Applied.
	Repaired rmodels.Dimension `json:"repaired,omitempty"`
	// Reference holds the enrichment hashes the healthy dimensions must still match.
	Reference rmodels.DimensionHashes `json:"reference"`
}

// Outcome classifies a processed record for stats and metrics.
type Outcome string

const (
	OutcomeHealthy    Outcome = "healthy"
	OutcomeCorrected  Outcome = "corrected"
	OutcomeFailed     Outcome = "failed"
	OutcomeUnresolved Outcome = "unresolved"
)

// ProcessResult is what the pipeline reports for one record.
type ProcessResult struct {
	RecordID   string                  `json:"record_id"`
	Diagnostic DiagnosticReport        `json:"diagnostic"`
	Applied    bool                    `json:"applied"`
	Corrected  *rmodels.EncodingRecord `json:"corrected"`
	Outcome    Outcome                 `json:"outcome"`
	Log        []string                `json:"correction_log,omitempty"`
}

// Irreparable reports whether the caller must escalate or discard the record.
func (r *ProcessResult) Irreparable() bool {
	return r.Outcome == OutcomeFailed
}

// Stats counts pipeline outcomes.
type Stats struct {
	Total      int `json:"total"`
	Healthy    int `json:"healthy"`
	Corrected  int `json:"corrected"`
	Failed     int `json:"failed"`
	Unresolved int `json:"unresolved"`
}

// Add counts one outcome.
func (s *Stats) Add(o Outcome) {
	s.Total++
	switch o {
	case OutcomeHealthy:
		s.Healthy++
	case OutcomeCorrected:
		s.Corrected++
	case OutcomeFailed:
		s.Failed++
	case OutcomeUnresolved:
		s.Unresolved++
	}
}

// BatchResult holds per-record results in input order plus batch-local stats.
type BatchResult struct {
	Results []ProcessResult `json:"results"`
	Stats   Stats           `json:"stats"`
}

// LogEntry is one line of the correction log.
type LogEntry struct {
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`
	Outcome  Outcome   `json:"outcome"`
	Severity Severity  `json:"severity"`
	Lines    []string  `json:"lines"`
}

// QuarantineEntry is an irreparable record held for human review.
type QuarantineEntry struct {
	Record        rmodels.EnrichedRecord `json:"record"`
	Diagnostic    DiagnosticReport       `json:"diagnostic"`
	Reason        string                 `json:"reason"`
	QuarantinedAt time.Time              `json:"quarantined_at"`
}
