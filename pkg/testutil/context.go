package testutil

import (
	"net/http"

	"triad/pkg/requestcontext"
)

// WithOperator marks the request as coming from an authenticated operator.
// This simulates what the operator middleware does after validating a token.
func WithOperator(req *http.Request, subject string) *http.Request {
	return req.WithContext(requestcontext.WithOperator(req.Context(), subject))
}
