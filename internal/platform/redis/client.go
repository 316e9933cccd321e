package redis

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"triad/internal/platform/config"
)

// Client is the snapshot store's connection pool.
type Client struct {
	*redis.Client
}

// Option configures New.
type Option func(*options)

type options struct {
	reg prometheus.Registerer
}

// WithRegisterer exports connection pool statistics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = reg
	}
}

// New connects to cfg.URL and verifies the server answers. It returns nil,
// nil when no URL is configured so callers can fall back to memory.
func New(ctx context.Context, cfg config.RedisConfig, opts ...Option) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	redisOpts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	applyPool(redisOpts, cfg)

	c := &Client{Client: redis.NewClient(redisOpts)}
	if err := c.Health(ctx); err != nil {
		_ = c.Client.Close()
		return nil, err
	}
	if o.reg != nil {
		c.registerPoolMetrics(o.reg)
	}
	return c, nil
}

// applyPool overrides the URL's pool settings with positive config values.
func applyPool(o *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		o.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		o.MinIdleConns = cfg.MinIdleConns
	}
	if cfg.DialTimeout > 0 {
		o.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		o.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		o.WriteTimeout = cfg.WriteTimeout
	}
}

func (c *Client) registerPoolMetrics(reg prometheus.Registerer) {
	factory := promauto.With(reg)
	stat := func(pick func(*redis.PoolStats) uint32) func() float64 {
		return func() float64 { return float64(pick(c.PoolStats())) }
	}
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "triad_redis_pool_total_connections",
		Help: "Open connections in the snapshot store pool.",
	}, stat(func(s *redis.PoolStats) uint32 { return s.TotalConns }))
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "triad_redis_pool_idle_connections",
		Help: "Idle connections in the snapshot store pool.",
	}, stat(func(s *redis.PoolStats) uint32 { return s.IdleConns }))
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "triad_redis_pool_timeouts_total",
		Help: "Times a caller waited too long for a pooled connection.",
	}, stat(func(s *redis.PoolStats) uint32 { return s.Timeouts }))
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the pool.
func (c *Client) Close() error {
	return c.Client.Close()
}
