package service

import (
	"fmt"
	"strings"

	"triad/internal/integrity/models"
	"triad/internal/record/derive"
	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
)

// Correct rebuilds the single corrupted dimension from the two healthy ones
// and reseals the record. With two or more corrupted dimensions there is no
// majority to rebuild from; the result is not applied and the caller must
// escalate.
func (s *Service) Correct(enriched rmodels.EnrichedRecord, report models.DiagnosticReport) (models.CorrectionResult, error) {
	result := models.CorrectionResult{Reference: enriched.Hashes}

	switch len(report.Corrupted) {
	case 0:
		result.Log = append(result.Log, "no corrupted dimension; nothing to correct")
		return result, nil
	case 1:
	default:
		result.Log = append(result.Log, fmt.Sprintf(
			"%d dimensions corrupted (%s); no majority left to rebuild from, escalating",
			len(report.Corrupted), joinDimensions(report.Corrupted)))
		return result, nil
	}

	d := report.Corrupted[0]
	result.Log = append(result.Log, fmt.Sprintf("%s dimension diverged from its enrichment hash", d))

	rebuilt, err := derive.Rebuild(enriched.EncodingRecord, d)
	if err != nil {
		return models.CorrectionResult{}, err
	}
	result.Log = append(result.Log, describeRebuild(d, rebuilt, report.Healthy))

	sealed, err := hashing.Seal(rebuilt)
	if err != nil {
		return models.CorrectionResult{}, fmt.Errorf("seal corrected record: %w", err)
	}
	result.Log = append(result.Log, "resealed integrity hash "+sealed.IntegrityHash[:16])

	result.Applied = true
	result.Corrected = &sealed
	result.Repaired = d
	return result, nil
}

func describeRebuild(d rmodels.Dimension, r rmodels.EncodingRecord, healthy []rmodels.Dimension) string {
	from := joinDimensions(healthy)
	switch d {
	case rmodels.DimensionTech:
		return fmt.Sprintf("rebuilt tech from %s: data type %q inferred from %s geometry, magnitude restored for resonance %d",
			from, r.Tech.DataType, r.Spirit.Geometry, r.Spirit.Resonance)
	case rmodels.DimensionPeople:
		return fmt.Sprintf("rebuilt people from %s: narrative regenerated from %s values at resonance %d",
			from, r.Tech.DataType, r.Spirit.Resonance)
	default:
		return fmt.Sprintf("rebuilt spirit from %s: %g Hz, resonance %d, %s geometry",
			from, r.Spirit.Frequency, r.Spirit.Resonance, r.Spirit.Geometry)
	}
}

func joinDimensions(dims []rmodels.Dimension) string {
	names := make([]string, len(dims))
	for i, d := range dims {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}
