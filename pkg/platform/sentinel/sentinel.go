package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so handlers can translate them into domain errors.
//
// ErrNotFound means nothing is stored under the requested key: no
// quarantined record with that ID, no snapshot for that sentinel name.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound = errors.New("not found")
)
