package handler

import (
	"fmt"

	rmodels "triad/internal/record/models"
	dErrors "triad/pkg/domain-errors"
)

// MaxBatchSize bounds POST /integrity/batch.
const MaxBatchSize = 1000

// ProcessRequest is the HTTP request body for POST /integrity/process.
type ProcessRequest struct {
	Record *rmodels.EnrichedRecord `json:"record"`
}

// Validate implements httputil.Validatable.
func (r *ProcessRequest) Validate() error {
	if r == nil || r.Record == nil {
		return dErrors.New(dErrors.CodeBadRequest, "record is required")
	}
	return nil
}

// BatchRequest is the HTTP request body for POST /integrity/batch.
type BatchRequest struct {
	Records []rmodels.EnrichedRecord `json:"records"`
}

// Validate implements httputil.Validatable.
func (r *BatchRequest) Validate() error {
	if r == nil || len(r.Records) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "records are required")
	}
	if len(r.Records) > MaxBatchSize {
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("at most %d records per batch", MaxBatchSize))
	}
	return nil
}
