package requesttime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"triad/pkg/requestcontext"
)

func TestNew(t *testing.T) {
	pinned := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	var seen []time.Time
	capture := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = append(seen, Now(r.Context()))
		seen = append(seen, Now(r.Context()))
	})

	t.Run("stamps the clock in UTC once per request", func(t *testing.T) {
		seen = nil
		New(WithClock(func() time.Time { return pinned }))(capture).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []time.Time{pinned.UTC(), pinned.UTC()}, seen)
		assert.Equal(t, time.UTC, seen[0].Location())
	})

	t.Run("keeps a time already on the context", func(t *testing.T) {
		seen = nil
		earlier := pinned.Add(-time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/", nil).
			WithContext(requestcontext.WithTime(context.Background(), earlier))
		New(WithClock(func() time.Time { return pinned }))(capture).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, earlier, seen[0])
	})

	t.Run("nil clock keeps the wall clock", func(t *testing.T) {
		seen = nil
		before := time.Now().UTC()
		New(WithClock(nil))(capture).
			ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, seen[0].Before(before.Add(-time.Second)))
	})
}
