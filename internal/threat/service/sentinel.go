// Package service implements the threat sentinel: a fast screening path on
// every scan, a deep path once suspicion is raised, an accumulating alert
// score and adaptive memory.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"triad/internal/record/hashing"
	rmodels "triad/internal/record/models"
	"triad/internal/threat/config"
	"triad/internal/threat/metrics"
	"triad/internal/threat/models"
	"triad/pkg/platform/ringbuffer"
)

// Detector reports whether a record's integrity hash disagrees with its
// payloads. The integrity corrector satisfies it.
type Detector interface {
	Detect(r rmodels.EncodingRecord) (bool, error)
}

// DetectorFunc adapts a plain function to Detector.
type DetectorFunc func(r rmodels.EncodingRecord) (bool, error)

func (f DetectorFunc) Detect(r rmodels.EncodingRecord) (bool, error) { return f(r) }

// Sentinel is safe for concurrent use. Every scan is serialized under mu;
// subscribers are notified after mu is released.
type Sentinel struct {
	detector Detector
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	config   config.Config

	manipulation []config.Pattern
	sovereignty  []config.Pattern

	mu           sync.Mutex
	state        models.State
	recent       *ringbuffer.Buffer[models.Signal]
	counters     map[models.ThreatType]int
	sensitivity  float64
	lastLockdown *time.Time
	stats        models.Stats
	baseline     *float64
	fingerprints *ringbuffer.Buffer[hashing.Digest]

	subMu   sync.Mutex
	subs    []subscription
	nextSub uint64
}

type subscription struct {
	id      uint64
	handler models.Handler
}

type Option func(*Sentinel)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sentinel) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sentinel) {
		s.metrics = m
	}
}

func WithConfig(cfg config.Config) Option {
	return func(s *Sentinel) {
		s.config = cfg
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Sentinel) {
		s.tracer = tracer
	}
}

// New builds a CALM sentinel with empty memory.
func New(detector Detector, opts ...Option) (*Sentinel, error) {
	if detector == nil {
		return nil, errors.New("detector is required")
	}
	s := &Sentinel{
		detector: detector,
		logger:   slog.Default(),
		tracer:   otel.Tracer("triad.sentinel"),
		config:   config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, errors.New("logger is required")
	}
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sentinel config: %w", err)
	}

	var err error
	if s.manipulation, err = config.Compile(s.config.Lexicons.Manipulation); err != nil {
		return nil, err
	}
	if s.sovereignty, err = config.Compile(s.config.Lexicons.Sovereignty); err != nil {
		return nil, err
	}

	s.recent = ringbuffer.New[models.Signal](s.config.MemoryCapacity)
	s.fingerprints = ringbuffer.New[hashing.Digest](s.config.RepetitionWindow)
	s.state = models.State{Level: models.LevelCalm}
	s.counters = newCounters()
	s.sensitivity = s.config.InitialSensitivity
	return s, nil
}

func newCounters() map[models.ThreatType]int {
	counters := make(map[models.ThreatType]int, len(models.ThreatTypes()))
	for _, t := range models.ThreatTypes() {
		counters[t] = 0
	}
	return counters
}

// Subscribe registers h for every subsequent event. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Sentinel) Subscribe(h models.Handler) (unsubscribe func()) {
	if h == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscription{id: id, handler: h})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Sentinel) dispatch(ctx context.Context, events []models.Event) {
	if len(events) == 0 {
		return
	}
	s.subMu.Lock()
	subs := append([]subscription(nil), s.subs...)
	s.subMu.Unlock()

	for _, evt := range events {
		for _, sub := range subs {
			s.deliver(ctx, sub.handler, evt)
		}
	}
}

func (s *Sentinel) deliver(ctx context.Context, h models.Handler, evt models.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "sentinel event handler panicked",
				"event", evt.Type,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	h(evt)
}
