package service

import (
	"triad/internal/integrity/models"
	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
)

// Validate is the acceptance gate for a repair. The corrected record must be
// internally consistent and every dimension that was not rebuilt must still
// hash to its enrichment-time value.
func (s *Service) Validate(result models.CorrectionResult) (bool, error) {
	if !result.Applied || result.Corrected == nil {
		return false, nil
	}
	hashes, err := hashing.Compute(*result.Corrected)
	if err != nil {
		return false, err
	}
	if hashes.Combined != result.Corrected.IntegrityHash {
		return false, nil
	}
	for _, d := range rmodels.Dimensions {
		if d == result.Repaired {
			continue
		}
		if hashes.For(d) != result.Reference.For(d) {
			return false, nil
		}
	}
	return true, nil
}
