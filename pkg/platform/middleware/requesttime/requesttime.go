// Package requesttime pins one "now" per HTTP request, so a scan and the
// events it emits agree on when they happened.
package requesttime

import (
	"context"
	"net/http"
	"time"

	"triad/pkg/requestcontext"
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures the middleware.
type Option func(*stamper)

// WithClock replaces the wall clock, for tests and replay.
func WithClock(clock Clock) Option {
	return func(s *stamper) {
		if clock != nil {
			s.clock = clock
		}
	}
}

type stamper struct {
	clock Clock
}

// New returns middleware that stamps each request context with the clock's
// time in UTC. A time already present on the context is kept.
func New(opts ...Option) func(http.Handler) http.Handler {
	s := &stamper{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !requestcontext.HasTime(ctx) {
				ctx = requestcontext.WithTime(ctx, s.clock().UTC())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Middleware stamps requests with the wall clock.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

// Now returns the request-scoped time, or the wall clock outside a request.
func Now(ctx context.Context) time.Time {
	return requestcontext.Now(ctx)
}
