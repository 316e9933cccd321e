package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "triad/internal/jwt_token"
	"triad/internal/platform/config"
	"triad/pkg/platform/audit"
	"triad/pkg/testutil"
)

func newTestApp(t *testing.T) (http.Handler, *app, config.Server) {
	t.Helper()
	cfg := config.Server{
		OperatorSigningKey: "test-key",
		OperatorIssuer:     "triad",
		OperatorAudience:   "triad-operators",
		AdminToken:         "admin-secret",
		SentinelName:       "edge-test",
		SnapshotInterval:   time.Minute,
	}
	log := slog.New(slog.DiscardHandler)
	reg := prometheus.NewRegistry()
	a, err := buildApp(context.Background(), cfg, config.DefaultTuning(), &infra{log: log}, reg, log)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a.router(cfg, reg), a, cfg
}

func operatorToken(t *testing.T, cfg config.Server) string {
	t.Helper()
	token, err := jwttoken.NewJWTService(cfg.OperatorSigningKey, cfg.OperatorIssuer, cfg.OperatorAudience).
		GenerateToken("ops@triad", jwttoken.RoleOperator, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRouter_ScanAndReset(t *testing.T) {
	router, a, cfg := newTestApp(t)

	freq := 10.0
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/sentinel/scan",
		map[string]any{"frequency": freq}))
	testutil.AssertStatusOK(t, rr)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/sentinel/reset"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	rr = testutil.DoRequest(router, testutil.WithBearer(
		testutil.NewRequest(t, http.MethodPost, "/sentinel/reset"), operatorToken(t, cfg)))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "alert_level", "CALM")

	a.auditPub.Close()
	events, err := a.auditStore.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	actions := make(map[string]int)
	for _, evt := range events {
		actions[evt.Action]++
	}
	assert.Equal(t, 1, actions[string(audit.EventThreatDetected)])
	assert.Equal(t, 1, actions[string(audit.EventOperatorAuthFailed)])
}

func TestRouter_AdminAndMetrics(t *testing.T) {
	router, _, _ := newTestApp(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/health"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	req := testutil.NewRequest(t, http.MethodPost, "/admin/snapshot")
	req.Header.Set("X-Admin-Token", "admin-secret")
	rr = testutil.DoRequest(router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "sentinel", "edge-test")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	testutil.AssertStatusOK(t, rr)
	assert.Contains(t, rr.Body.String(), "triad_http_requests_total")
}
