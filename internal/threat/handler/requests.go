package handler

import (
	"fmt"
	"math"

	rmodels "triad/internal/record/models"
	"triad/internal/threat/models"
	dErrors "triad/pkg/domain-errors"
)

const (
	// maxContentBytes bounds free text submitted for screening.
	maxContentBytes = 64 << 10

	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// ScanRequest is the HTTP request body for POST /sentinel/scan.
type ScanRequest struct {
	Frequency *float64                `json:"frequency,omitempty"`
	Record    *rmodels.EncodingRecord `json:"record,omitempty"`
	Content   string                  `json:"content,omitempty"`
	Intention *models.Intention       `json:"intention,omitempty"`
	Source    string                  `json:"source,omitempty"`
}

// Validate implements httputil.Validatable.
func (r *ScanRequest) Validate() error {
	if r == nil || r.Input().IsEmpty() {
		return dErrors.New(dErrors.CodeBadRequest, "one of frequency, record, content or intention is required")
	}
	if len(r.Content) > maxContentBytes {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("content exceeds %d bytes", maxContentBytes))
	}
	return nil
}

// Input converts the request to a sentinel input.
func (r *ScanRequest) Input() models.ScanInput {
	return models.ScanInput{
		Frequency: r.Frequency,
		Record:    r.Record,
		Content:   r.Content,
		Intention: r.Intention,
		Source:    r.Source,
	}
}

// SensitivityRequest is the HTTP request body for POST /sentinel/sensitivity.
type SensitivityRequest struct {
	Delta *float64 `json:"delta"`
}

// Validate implements httputil.Validatable.
func (r *SensitivityRequest) Validate() error {
	if r == nil || r.Delta == nil {
		return dErrors.New(dErrors.CodeBadRequest, "delta is required")
	}
	if math.Abs(*r.Delta) > 10 {
		return dErrors.New(dErrors.CodeInvalidInput, "delta must be within [-10, 10]")
	}
	return nil
}

type SensitivityResponse struct {
	Sensitivity float64 `json:"sensitivity"`
}
