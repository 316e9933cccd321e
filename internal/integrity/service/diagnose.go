package service

import (
	"fmt"

	"triad/internal/integrity/models"
	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
)

// Diagnose compares each payload's current hash against the hash captured
// at enrichment and grades the divergence. Two agreeing payloads outvote a
// single divergent one, so one corrupted dimension is diagnosed with full
// confidence; beyond that no majority remains.
func (s *Service) Diagnose(enriched rmodels.EnrichedRecord) (models.DiagnosticReport, error) {
	report := models.DiagnosticReport{
		Corrupted: []rmodels.Dimension{},
		Healthy:   []rmodels.Dimension{},
	}
	for _, d := range rmodels.Dimensions {
		digest, err := hashing.HashDimension(enriched.EncodingRecord, d)
		if err != nil {
			return models.DiagnosticReport{}, fmt.Errorf("hash %s: %w", d, err)
		}
		if digest.String() == enriched.Hashes.For(d) {
			report.Healthy = append(report.Healthy, d)
		} else {
			report.Corrupted = append(report.Corrupted, d)
		}
	}

	report.Severity = models.SeverityFor(len(report.Corrupted))
	report.IsCorrupted = report.Severity != models.SeverityNone
	switch report.Severity {
	case models.SeverityMajor:
		report.Confidence = s.config.MajorConfidence
	case models.SeverityCritical:
		report.Confidence = s.config.CriticalConfidence
	default:
		report.Confidence = 1.0
	}
	return report, nil
}
