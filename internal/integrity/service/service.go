// Package service runs the integrity pipeline: detect, diagnose, correct,
// validate.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"triad/internal/integrity/config"
	"triad/internal/integrity/metrics"
	"triad/internal/integrity/models"
	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
	dErrors "triad/pkg/domain-errors"
	"triad/pkg/platform/middleware/requesttime"
	"triad/pkg/platform/ringbuffer"
)

// Service is the corrector. Pipeline stages are pure; only the cumulative
// stats and the correction log are shared, under mu.
type Service struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	config  config.Config

	mu    sync.Mutex
	stats models.Stats
	log   *ringbuffer.Buffer[models.LogEntry]
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithConfig(cfg config.Config) Option {
	return func(s *Service) {
		s.config = cfg
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(opts ...Option) (*Service, error) {
	svc := &Service{
		logger: slog.Default(),
		tracer: otel.Tracer("triad.integrity"),
		config: config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := svc.config.Validate(); err != nil {
		return nil, fmt.Errorf("integrity config: %w", err)
	}
	svc.log = ringbuffer.New[models.LogEntry](svc.config.LogCapacity)
	return svc, nil
}

// Detect reports whether the record's payloads still match its integrity hash.
func (s *Service) Detect(r rmodels.EncodingRecord) (bool, error) {
	return hashing.Detect(r)
}

// Process runs one enriched record through the pipeline. Detection outcomes
// are reported in the result; an error means the record was malformed or
// could not be hashed.
func (s *Service) Process(ctx context.Context, enriched rmodels.EnrichedRecord) (*models.ProcessResult, error) {
	ctx, span := s.tracer.Start(ctx, "integrity.Process",
		trace.WithAttributes(attribute.String("record_id", enriched.ID)))
	defer span.End()

	start := time.Now()
	result, err := s.process(ctx, enriched)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	s.metrics.ObserveProcessDuration(time.Since(start))
	span.SetAttributes(
		attribute.String("outcome", string(result.Outcome)),
		attribute.String("severity", string(result.Diagnostic.Severity)),
	)
	span.SetStatus(codes.Ok, "")
	s.record(ctx, result)
	return result, nil
}

func (s *Service) process(ctx context.Context, enriched rmodels.EnrichedRecord) (*models.ProcessResult, error) {
	if err := rmodels.Validate(&enriched.EncodingRecord); err != nil {
		return nil, err
	}
	if enriched.Hashes.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "record carries no dimension hashes; enrich it first")
	}

	result := &models.ProcessResult{RecordID: enriched.ID}

	corrupted, err := s.Detect(enriched.EncodingRecord)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash record")
	}
	if !corrupted {
		result.Diagnostic = models.DiagnosticReport{
			Severity:   models.SeverityNone,
			Corrupted:  []rmodels.Dimension{},
			Healthy:    append([]rmodels.Dimension(nil), rmodels.Dimensions[:]...),
			Confidence: 1.0,
		}
		result.Outcome = models.OutcomeHealthy
		return result, nil
	}

	report, err := s.Diagnose(enriched)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to diagnose record")
	}
	s.metrics.IncrementDiagnoses(string(report.Severity))

	if report.Severity == models.SeverityNone {
		// Payloads match their dimension hashes but not the integrity hash:
		// the seal itself is stale or forged and no payload can be blamed.
		report.IsCorrupted = true
		result.Diagnostic = report
		result.Outcome = models.OutcomeUnresolved
		result.Log = []string{"integrity hash mismatch with every dimension intact; no payload to rebuild"}
		s.logger.WarnContext(ctx, "integrity hash mismatch without dimension divergence",
			"record_id", enriched.ID,
		)
		return result, nil
	}
	result.Diagnostic = report

	correction, err := s.Correct(enriched, report)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to correct record")
	}
	result.Log = correction.Log
	if !correction.Applied {
		result.Outcome = models.OutcomeFailed
		s.logger.WarnContext(ctx, "record irreparable",
			"record_id", enriched.ID,
			"severity", report.Severity,
			"corrupted", report.Corrupted,
		)
		return result, nil
	}

	valid, err := s.Validate(correction)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to validate correction")
	}
	if !valid {
		result.Outcome = models.OutcomeFailed
		result.Log = append(result.Log, "post-correction validation rejected the repair")
		s.logger.ErrorContext(ctx, "correction rejected by validation",
			"record_id", enriched.ID,
			"dimension", correction.Repaired,
		)
		return result, nil
	}

	result.Applied = true
	result.Corrected = correction.Corrected
	result.Outcome = models.OutcomeCorrected
	s.logger.InfoContext(ctx, "record corrected",
		"record_id", enriched.ID,
		"dimension", correction.Repaired,
	)
	return result, nil
}

// ProcessBatch processes records in parallel. Results keep input order and
// the returned stats cover this batch only.
func (s *Service) ProcessBatch(ctx context.Context, records []rmodels.EnrichedRecord) (*models.BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "integrity.ProcessBatch",
		trace.WithAttributes(attribute.Int("batch_size", len(records))))
	defer span.End()

	results := make([]models.ProcessResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchConcurrency)
	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Process(gctx, rec)
			if err != nil {
				return fmt.Errorf("record %d (%s): %w", i, rec.ID, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var stats models.Stats
	for _, r := range results {
		stats.Add(r.Outcome)
	}
	span.SetStatus(codes.Ok, "")
	return &models.BatchResult{Results: results, Stats: stats}, nil
}

func (s *Service) record(ctx context.Context, result *models.ProcessResult) {
	s.metrics.IncrementProcessed(string(result.Outcome))

	s.mu.Lock()
	s.stats.Add(result.Outcome)
	s.mu.Unlock()

	if result.Outcome == models.OutcomeHealthy {
		return
	}
	s.log.Push(models.LogEntry{
		RecordID: result.RecordID,
		At:       requesttime.Now(ctx),
		Outcome:  result.Outcome,
		Severity: result.Diagnostic.Severity,
		Lines:    append([]string(nil), result.Log...),
	})
}

// Stats returns the cumulative counters since creation or the last reset.
func (s *Service) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// ResetStats zeroes the cumulative counters and empties the correction log.
func (s *Service) ResetStats() {
	s.mu.Lock()
	s.stats = models.Stats{}
	s.mu.Unlock()
	s.log.Reset()
}

// CorrectionLog returns a snapshot of the bounded correction log, oldest first.
func (s *Service) CorrectionLog() []models.LogEntry {
	entries := s.log.Slice()
	for i := range entries {
		entries[i].Lines = append([]string(nil), entries[i].Lines...)
	}
	return entries
}
