// Package security provides a non-blocking audit publisher for security
// events. Emit never blocks the caller: events are buffered in a bounded
// ring, oldest dropped first, and persisted by a background loop with retry.
package security

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "triad/pkg/platform/audit"
	"triad/pkg/platform/ringbuffer"
	"triad/pkg/requestcontext"
)

// Publisher buffers security events and persists them asynchronously.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer        *ringbuffer.Buffer[audit.SecurityEvent]
	bufferSize    int
	batchSize     int
	flushInterval time.Duration
	maxRetries    int
	retryDelay    time.Duration

	notify    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBufferSize bounds the number of pending events.
func WithBufferSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithBatchSize bounds how many events one flush pass takes.
func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithFlushInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.flushInterval = d
		}
	}
}

// WithRetry sets how often a failed write is retried and the pause between
// attempts.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(p *Publisher) {
		if maxRetries >= 0 {
			p.maxRetries = maxRetries
		}
		p.retryDelay = delay
	}
}

// NewPublisher starts the background persistence loop. Call Close to drain
// and stop it.
func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:         store,
		logger:        slog.Default(),
		bufferSize:    10000,
		batchSize:     100,
		flushInterval: time.Second,
		maxRetries:    3,
		retryDelay:    50 * time.Millisecond,
		notify:        make(chan struct{}, 1),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.buffer = ringbuffer.New[audit.SecurityEvent](p.bufferSize)

	p.wg.Add(1)
	go p.run()
	return p
}

// Emit enqueues event. Missing timestamp and request ID are filled from ctx.
func (p *Publisher) Emit(ctx context.Context, event audit.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.Severity == "" {
		event.Severity = audit.AuditEvent(event.Action).Severity()
	}
	if p.buffer.Push(event) {
		p.logger.WarnContext(ctx, "security audit buffer full, dropped oldest event",
			"dropped_total", p.buffer.Dropped(),
		)
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Pending returns the number of buffered events.
func (p *Publisher) Pending() int {
	return p.buffer.Len()
}

// Dropped returns how many events were evicted before persistence.
func (p *Publisher) Dropped() int64 {
	return p.buffer.Dropped()
}

// Close stops the loop after persisting every buffered event.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			p.flush()
			return
		case <-p.notify:
			p.flush()
		case <-ticker.C:
			p.flush()
		}
	}
}

func (p *Publisher) flush() {
	for {
		batch := p.buffer.PopBatch(p.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, event := range batch {
			p.persist(event)
		}
	}
}

func (p *Publisher) persist(event audit.SecurityEvent) {
	ctx := context.Background()
	var err error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err = p.store.AppendSecurity(ctx, event); err == nil {
			return
		}
		if attempt < p.maxRetries && p.retryDelay > 0 {
			time.Sleep(p.retryDelay)
		}
	}
	p.logger.Error("failed to persist security audit event",
		"action", event.Action,
		"subject", event.Subject,
		"request_id", event.RequestID,
		"error", err,
	)
}
