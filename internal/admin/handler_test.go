package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triad/internal/admin/adapters"
	"triad/internal/record/hashing"
	"triad/internal/threat/models"
	"triad/internal/threat/service"
	"triad/internal/threat/store/snapshot"
	"triad/pkg/testutil"
)

func passthrough(next http.Handler) http.Handler { return next }

type brokenKeeper struct{ err error }

func (k brokenKeeper) SaveNow(context.Context) (models.Snapshot, error) {
	return models.Snapshot{}, k.err
}
func (k brokenKeeper) Restore(context.Context) (bool, error) { return false, k.err }
func (k brokenKeeper) LastSave() time.Time                   { return time.Time{} }

func newRouter(keeper Keeper, checks map[string]Checker) chi.Router {
	r := chi.NewRouter()
	New(keeper, "edge-1", checks, slog.New(slog.DiscardHandler)).Register(r, passthrough)
	return r
}

func newKeeper(t *testing.T) *snapshot.Keeper {
	t.Helper()
	s, err := service.New(service.DetectorFunc(hashing.Detect), service.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return snapshot.NewKeeper(snapshot.NewInMemory(), s, "edge-1", time.Minute, slog.New(slog.DiscardHandler))
}

func TestHandleHealth(t *testing.T) {
	ok := adapters.CheckerFunc(func(context.Context) error { return nil })
	down := adapters.CheckerFunc(func(context.Context) error { return errors.New("connection refused") })

	t.Run("all healthy", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(nil, map[string]Checker{"redis": ok, "postgres": ok}),
			testutil.NewRequest(t, http.MethodGet, "/admin/health"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[HealthResponse](t, rr)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, map[string]string{"redis": "ok", "postgres": "ok"}, resp.Checks)
		assert.Nil(t, resp.LastSave)
	})

	t.Run("one dependency down", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(nil, map[string]Checker{"redis": ok, "kafka": down}),
			testutil.NewRequest(t, http.MethodGet, "/admin/health"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		resp := testutil.UnmarshalResponse[HealthResponse](t, rr)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "connection refused", resp.Checks["kafka"])
	})

	t.Run("reports last snapshot", func(t *testing.T) {
		keeper := newKeeper(t)
		_, err := keeper.SaveNow(context.Background())
		require.NoError(t, err)
		rr := testutil.DoRequest(newRouter(keeper, nil), testutil.NewRequest(t, http.MethodGet, "/admin/health"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[HealthResponse](t, rr)
		require.NotNil(t, resp.LastSave)
		assert.True(t, keeper.LastSave().Equal(*resp.LastSave))
	})
}

func TestSnapshotEndpoints(t *testing.T) {
	t.Run("restore before any save", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(newKeeper(t), nil), testutil.NewRequest(t, http.MethodPost, "/admin/snapshot/restore"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "restored", false)
	})

	t.Run("save then restore", func(t *testing.T) {
		router := newRouter(newKeeper(t), nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/snapshot"))
		testutil.AssertStatusOK(t, rr)
		saved := testutil.UnmarshalResponse[SnapshotResponse](t, rr)
		assert.Equal(t, "CALM", saved.Level)
		assert.Equal(t, "edge-1", saved.Sentinel)

		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/snapshot/restore"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "restored", true)
	})

	t.Run("store failure", func(t *testing.T) {
		router := newRouter(brokenKeeper{err: errors.New("redis down")}, nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/snapshot"))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
		rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/snapshot/restore"))
		testutil.AssertStatus(t, rr, http.StatusInternalServerError)
	})

	t.Run("snapshots disabled", func(t *testing.T) {
		router := newRouter(nil, nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/admin/snapshot"))
		testutil.AssertStatusAndError(t, rr, http.StatusServiceUnavailable, "unavailable")
	})
}

func TestRegister_GuardsEveryRoute(t *testing.T) {
	deny := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) })
	}
	r := chi.NewRouter()
	New(nil, "edge-1", nil, slog.New(slog.DiscardHandler)).Register(r, deny)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/admin/health"},
		{http.MethodPost, "/admin/snapshot"},
		{http.MethodPost, "/admin/snapshot/restore"},
	} {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, route.method, route.path))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, route.path)
	}
}
