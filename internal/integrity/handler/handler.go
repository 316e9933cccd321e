package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"triad/internal/integrity/models"
	rmodels "triad/internal/record/models"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/audit"
	"triad/pkg/platform/audit/publishers/security"
	"triad/pkg/platform/httputil"
	"triad/pkg/platform/sentinel"
	"triad/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,QuarantineStore

// Service defines the corrector operations exposed over HTTP.
type Service interface {
	Process(ctx context.Context, enriched rmodels.EnrichedRecord) (*models.ProcessResult, error)
	ProcessBatch(ctx context.Context, records []rmodels.EnrichedRecord) (*models.BatchResult, error)
	Stats() models.Stats
	ResetStats()
	CorrectionLog() []models.LogEntry
}

// QuarantineStore receives records the corrector could not repair.
type QuarantineStore interface {
	Put(ctx context.Context, entry *models.QuarantineEntry) error
	Get(ctx context.Context, recordID string) (*models.QuarantineEntry, error)
	List(ctx context.Context, limit int) ([]*models.QuarantineEntry, error)
}

// Handler wires integrity endpoints to the corrector.
type Handler struct {
	service    Service
	quarantine QuarantineStore
	auditPub   *security.Publisher
	logger     *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithAuditPublisher records quarantines and stats resets in the security
// audit trail.
func WithAuditPublisher(pub *security.Publisher) Option {
	return func(h *Handler) {
		h.auditPub = pub
	}
}

// New constructs an integrity handler with its dependencies.
func New(service Service, quarantine QuarantineStore, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service:    service,
		quarantine: quarantine,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts integrity endpoints on the router. Routes that change
// state or expose quarantined records sit behind operator.
func (h *Handler) Register(r chi.Router, operator func(http.Handler) http.Handler) {
	r.Post("/integrity/process", h.HandleProcess)
	r.Post("/integrity/batch", h.HandleBatch)
	r.Get("/integrity/stats", h.HandleStats)
	r.Get("/integrity/log", h.HandleLog)
	r.Group(func(r chi.Router) {
		r.Use(operator)
		r.Post("/integrity/stats/reset", h.HandleResetStats)
		r.Get("/integrity/quarantine", h.HandleListQuarantine)
		r.Get("/integrity/quarantine/{recordID}", h.HandleGetQuarantine)
	})
}

// HandleProcess handles POST /integrity/process requests.
func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ProcessRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Process(ctx, *req.Record)
	if err != nil {
		h.logger.ErrorContext(ctx, "integrity processing failed",
			"request_id", requestID,
			"record_id", req.Record.ID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if result.Irreparable() {
		h.escalate(ctx, *req.Record, result)
	}

	h.logger.InfoContext(ctx, "record processed",
		"request_id", requestID,
		"record_id", result.RecordID,
		"outcome", result.Outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleBatch handles POST /integrity/batch requests.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[BatchRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.ProcessBatch(ctx, req.Records)
	if err != nil {
		h.logger.ErrorContext(ctx, "integrity batch failed",
			"request_id", requestID,
			"batch_size", len(req.Records),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	for i := range result.Results {
		if result.Results[i].Irreparable() {
			h.escalate(ctx, req.Records[i], &result.Results[i])
		}
	}

	h.logger.InfoContext(ctx, "batch processed",
		"request_id", requestID,
		"total", result.Stats.Total,
		"corrected", result.Stats.Corrected,
		"failed", result.Stats.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// escalate quarantines an irreparable record. Failing to quarantine is
// logged, not surfaced: the caller already has the irreparable verdict.
func (h *Handler) escalate(ctx context.Context, record rmodels.EnrichedRecord, result *models.ProcessResult) {
	if h.quarantine == nil {
		return
	}
	entry := &models.QuarantineEntry{
		Record:        record,
		Diagnostic:    result.Diagnostic,
		Reason:        "irreparable: " + string(result.Diagnostic.Severity),
		QuarantinedAt: requestcontext.Now(ctx),
	}
	if err := h.quarantine.Put(ctx, entry); err != nil {
		h.logger.ErrorContext(ctx, "failed to quarantine record",
			"request_id", requestcontext.RequestID(ctx),
			"record_id", record.ID,
			"error", err,
		)
		return
	}
	h.audit(ctx, audit.EventRecordQuarantined, record.ID, entry.Reason)
}

func (h *Handler) audit(ctx context.Context, event audit.AuditEvent, subject, reason string) {
	if h.auditPub == nil {
		return
	}
	h.auditPub.Emit(ctx, audit.SecurityEvent{
		Subject:   subject,
		Action:    string(event),
		Reason:    reason,
		IP:        requestcontext.ClientIP(ctx),
		RequestID: requestcontext.RequestID(ctx),
		ActorID:   requestcontext.Operator(ctx),
		Severity:  event.Severity(),
	})
}

// HandleStats handles GET /integrity/stats requests.
func (h *Handler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Stats())
}

// HandleLog handles GET /integrity/log requests.
func (h *Handler) HandleLog(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": h.service.CorrectionLog()})
}

// HandleResetStats handles POST /integrity/stats/reset requests.
func (h *Handler) HandleResetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.ResetStats()
	h.logger.InfoContext(ctx, "integrity stats reset",
		"request_id", requestcontext.RequestID(ctx),
		"operator", requestcontext.Operator(ctx),
	)
	h.audit(ctx, audit.EventIntegrityStatsReset, "corrector", "operator reset")
	w.WriteHeader(http.StatusNoContent)
}

// HandleListQuarantine handles GET /integrity/quarantine requests.
func (h *Handler) HandleListQuarantine(w http.ResponseWriter, r *http.Request) {
	if h.quarantine == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "quarantine store not configured"))
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}
	entries, err := h.quarantine.List(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list quarantine"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// HandleGetQuarantine handles GET /integrity/quarantine/{recordID} requests.
func (h *Handler) HandleGetQuarantine(w http.ResponseWriter, r *http.Request) {
	if h.quarantine == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "quarantine store not configured"))
		return
	}
	entry, err := h.quarantine.Get(r.Context(), chi.URLParam(r, "recordID"))
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeNotFound, "record not quarantined"))
		return
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load quarantined record"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}
