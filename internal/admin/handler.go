// Package admin exposes maintenance endpoints: sentinel snapshot control and
// dependency health.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"triad/internal/threat/models"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/httputil"
	"triad/pkg/requestcontext"
)

const healthTimeout = 2 * time.Second

// Keeper persists and restores the sentinel.
type Keeper interface {
	SaveNow(ctx context.Context) (models.Snapshot, error)
	Restore(ctx context.Context) (bool, error)
	LastSave() time.Time
}

// Checker reports whether a dependency is reachable.
type Checker interface {
	Health(ctx context.Context) error
}

// Handler serves the admin API.
type Handler struct {
	keeper   Keeper
	sentinel string
	checks   map[string]Checker
	logger   *slog.Logger
}

// New constructs an admin handler. keeper may be nil when snapshots are
// disabled; checks maps dependency names to their probes.
func New(keeper Keeper, sentinelName string, checks map[string]Checker, logger *slog.Logger) *Handler {
	return &Handler{
		keeper:   keeper,
		sentinel: sentinelName,
		checks:   checks,
		logger:   logger,
	}
}

// Register mounts admin endpoints. guard protects every route.
func (h *Handler) Register(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(guard)
		r.Get("/health", h.HandleHealth)
		r.Post("/snapshot", h.HandleSave)
		r.Post("/snapshot/restore", h.HandleRestore)
	})
}

// HandleHealth handles GET /admin/health requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name].Health(ctx); err != nil {
			h.logger.WarnContext(ctx, "dependency unhealthy",
				"dependency", name,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}
	if h.keeper != nil {
		if last := h.keeper.LastSave(); !last.IsZero() {
			resp.LastSave = &last
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}

// HandleSave handles POST /admin/snapshot requests.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.keeper == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "snapshots not configured"))
		return
	}
	snap, err := h.keeper.SaveNow(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual snapshot failed",
			"sentinel", h.sentinel,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save snapshot"))
		return
	}
	h.logger.InfoContext(ctx, "manual snapshot saved",
		"sentinel", h.sentinel,
		"level", string(snap.State.Level),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, SnapshotResponse{
		Sentinel: h.sentinel,
		TakenAt:  snap.TakenAt,
		Level:    string(snap.State.Level),
		Score:    snap.State.Score,
		Signals:  len(snap.Memory.RecentSignals),
	})
}

// HandleRestore handles POST /admin/snapshot/restore requests.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.keeper == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "snapshots not configured"))
		return
	}
	restored, err := h.keeper.Restore(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "manual restore failed",
			"sentinel", h.sentinel,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		code := dErrors.CodeInternal
		if dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			code = dErrors.CodeInvalidInput
		}
		httputil.WriteError(w, dErrors.Wrap(err, code, "failed to restore snapshot"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, RestoreResponse{Sentinel: h.sentinel, Restored: restored})
}
