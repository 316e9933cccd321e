package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"triad/internal/threat/models"
	"triad/internal/threat/observability"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/audit"
	"triad/pkg/platform/httputil"
	"triad/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Sentinel,AuditStore

// Sentinel defines the threat sentinel operations exposed over HTTP.
type Sentinel interface {
	Scan(ctx context.Context, in models.ScanInput) (*models.ScanResult, error)
	State() models.State
	Memory() models.Memory
	Stats() models.Stats
	ResetAlert(ctx context.Context)
	AdjustSensitivity(delta float64) (float64, error)
}

// AuditStore lists the security audit trail.
type AuditStore interface {
	ListRecent(ctx context.Context, limit int) ([]audit.SecurityEvent, error)
}

// Handler wires sentinel endpoints to the sentinel.
type Handler struct {
	sentinel   Sentinel
	auditStore AuditStore
	auditPub   observability.AuditPublisher
	logger     *slog.Logger
}

// New constructs a sentinel handler. auditStore and auditPub may be nil.
func New(sentinel Sentinel, auditStore AuditStore, auditPub observability.AuditPublisher, logger *slog.Logger) *Handler {
	return &Handler{
		sentinel:   sentinel,
		auditStore: auditStore,
		auditPub:   auditPub,
		logger:     logger,
	}
}

// Register mounts sentinel endpoints on the router. Routes that change
// sentinel state or read the audit trail sit behind operator.
func (h *Handler) Register(r chi.Router, operator func(http.Handler) http.Handler) {
	r.Post("/sentinel/scan", h.HandleScan)
	r.Get("/sentinel/state", h.HandleState)
	r.Get("/sentinel/memory", h.HandleMemory)
	r.Get("/sentinel/stats", h.HandleStats)
	r.Group(func(r chi.Router) {
		r.Use(operator)
		r.Post("/sentinel/reset", h.HandleReset)
		r.Post("/sentinel/sensitivity", h.HandleSensitivity)
		r.Get("/sentinel/audit", h.HandleAudit)
	})
}

// HandleScan handles POST /sentinel/scan requests.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.sentinel.Scan(ctx, req.Input())
	if err != nil {
		h.logger.ErrorContext(ctx, "sentinel scan failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	attrs := []any{
		"request_id", requestID,
		"alert_level", result.Level,
		"alert_score", result.Score,
		"deep_evaluated", result.DeepEvaluated,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if result.Signal != nil {
		attrs = append(attrs, "threat_type", result.Signal.Type.String())
	}
	h.logger.InfoContext(ctx, "input scanned", attrs...)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleState handles GET /sentinel/state requests.
func (h *Handler) HandleState(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.sentinel.State())
}

// HandleMemory handles GET /sentinel/memory requests.
func (h *Handler) HandleMemory(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.sentinel.Memory())
}

// HandleStats handles GET /sentinel/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.sentinel.Stats())
}

// HandleReset handles POST /sentinel/reset requests and returns the new state.
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.sentinel.ResetAlert(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.sentinel.State())
}

// HandleSensitivity handles POST /sentinel/sensitivity requests.
func (h *Handler) HandleSensitivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SensitivityRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	sensitivity, err := h.sentinel.AdjustSensitivity(*req.Delta)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	observability.LogAudit(ctx, h.logger, h.auditPub, audit.EventSensitivityAdjusted,
		"reason", fmt.Sprintf("delta %+g, now %g", *req.Delta, sensitivity),
	)
	httputil.WriteJSON(w, http.StatusOK, SensitivityResponse{Sensitivity: sensitivity})
}

// HandleAudit handles GET /sentinel/audit requests.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	if h.auditStore == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "audit store not configured"))
		return
	}
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxAuditLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", maxAuditLimit)))
			return
		}
		limit = n
	}
	events, err := h.auditStore.ListRecent(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
