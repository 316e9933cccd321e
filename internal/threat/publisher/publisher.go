// Package publisher forwards sentinel events to Kafka.
//
// Delivery is at-most-once: the sentinel never waits on the broker. Events are
// queued in a bounded ring (oldest evicted first) and produced by a background
// loop. Repeated produce failures open a circuit breaker; while it is open each
// flush pass sends one probe and sheds the rest.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"triad/internal/threat/models"
	"triad/pkg/platform/circuit"
	"triad/pkg/platform/ringbuffer"
)

// DefaultTopic receives sentinel events unless WithTopic overrides it.
const DefaultTopic = "triad.sentinel.events"

// Producer is the Kafka port. It is satisfied by
// internal/platform/kafka/producer.Producer.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
	EnsureTopic(ctx context.Context, topic string, partitions int32, replicationFactor int16) error
}

// Envelope is the JSON document written to the topic.
type Envelope struct {
	EventID  string            `json:"event_id"`
	Sentinel string            `json:"sentinel"`
	Type     models.EventType  `json:"type"`
	Signal   *models.Signal    `json:"signal,omitempty"`
	Previous models.AlertLevel `json:"previous_level,omitempty"`
	Level    models.AlertLevel `json:"new_level,omitempty"`
	Score    float64           `json:"alert_score"`
	At       time.Time         `json:"at"`
}

// Publisher queues sentinel events and produces them asynchronously.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
	metrics  *Metrics
	breaker  *circuit.Breaker

	topic             string
	sentinel          string
	partitions        int32
	replicationFactor int16
	queueSize         int
	batchSize         int
	produceTimeout    time.Duration
	flushInterval     time.Duration

	queue     *ringbuffer.Buffer[models.Event]
	notify    chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// Option configures the Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithTopic sets the topic and how it is created when missing.
func WithTopic(topic string, partitions int32, replicationFactor int16) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
		if partitions > 0 {
			p.partitions = partitions
		}
		if replicationFactor > 0 {
			p.replicationFactor = replicationFactor
		}
	}
}

// WithSentinelName sets the record key, keeping one sentinel's events on
// one partition in order.
func WithSentinelName(name string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.sentinel = name
		}
	}
}

func WithQueueSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queueSize = n
		}
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

func WithProduceTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.produceTimeout = d
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

// New builds a publisher. Call Start to ensure the topic and begin delivery.
func New(producer Producer, opts ...Option) (*Publisher, error) {
	if producer == nil {
		return nil, errors.New("producer is required")
	}
	p := &Publisher{
		producer:          producer,
		logger:            slog.Default(),
		topic:             DefaultTopic,
		sentinel:          "primary",
		partitions:        1,
		replicationFactor: 1,
		queueSize:         1024,
		batchSize:         100,
		produceTimeout:    5 * time.Second,
		flushInterval:     time.Second,
		notify:            make(chan struct{}, 1),
		done:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = circuit.New("kafka")
	}
	p.queue = ringbuffer.New[models.Event](p.queueSize)
	return p, nil
}

// Start creates the topic when missing and launches the delivery loop.
func (p *Publisher) Start(ctx context.Context) error {
	if err := p.producer.EnsureTopic(ctx, p.topic, p.partitions, p.replicationFactor); err != nil {
		return fmt.Errorf("ensure sentinel event topic: %w", err)
	}
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.run()
	})
	return nil
}

// Handle is subscribed to the sentinel. It never blocks.
func (p *Publisher) Handle(evt models.Event) {
	if p.queue.Push(evt) {
		p.metrics.IncDropped()
		p.logger.Warn("sentinel event queue full, dropped oldest event",
			"event_type", string(evt.Type),
			"dropped_total", p.queue.Dropped(),
		)
	}
	select {
	case p.notify <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued events.
func (p *Publisher) Pending() int {
	return p.queue.Len()
}

// Close stops the delivery loop after one final flush. The producer is left
// open for its owner to close.
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
	shed := false
	for {
		batch := p.queue.PopBatch(p.batchSize)
		if len(batch) == 0 {
			return
		}
		for _, evt := range batch {
			if shed {
				p.metrics.IncCircuitBreakerDropped()
				continue
			}
			if err := p.send(evt); err != nil && p.breaker.IsOpen() {
				shed = true
			}
		}
	}
}

func (p *Publisher) send(evt models.Event) error {
	value, err := json.Marshal(Envelope{
		EventID:  uuid.NewString(),
		Sentinel: p.sentinel,
		Type:     evt.Type,
		Signal:   evt.Signal,
		Previous: evt.Previous,
		Level:    evt.Level,
		Score:    evt.Score,
		At:       evt.At,
	})
	if err != nil {
		p.logger.Error("failed to encode sentinel event", "event_type", string(evt.Type), "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.produceTimeout)
	defer cancel()
	if err := p.producer.Produce(ctx, p.topic, []byte(p.sentinel), value); err != nil {
		p.metrics.IncPublishFailures()
		p.logger.Warn("failed to publish sentinel event",
			"event_type", string(evt.Type),
			"topic", p.topic,
			"error", err,
		)
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.metrics.SetCircuitBreakerState(true)
			p.logger.Error("sentinel event circuit opened", "breaker", p.breaker.Name())
		}
		return err
	}

	p.metrics.IncPublished()
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.metrics.SetCircuitBreakerState(false)
		p.logger.Info("sentinel event circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}
