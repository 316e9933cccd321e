package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"triad/internal/threat/models"
	"triad/pkg/platform/sentinel"
)

const keyPrefix = "triad:sentinel:snapshot:"

// RedisStore keeps one snapshot per sentinel name under keyPrefix.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	size   prometheus.Histogram
}

type RedisOption func(*RedisStore)

// WithTTL expires snapshots that are not refreshed. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithRegisterer records encoded snapshot sizes on reg.
func WithRegisterer(reg prometheus.Registerer) RedisOption {
	return func(s *RedisStore) {
		s.size = promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "triad_sentinel_snapshot_bytes",
			Help:    "Size of compressed sentinel snapshots written to redis",
			Buckets: prometheus.ExponentialBuckets(256, 4, 8),
		})
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) Save(ctx context.Context, name string, snap models.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, keyPrefix+name, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", name, err)
	}
	if s.size != nil {
		s.size.Observe(float64(len(data)))
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, keyPrefix+name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("snapshot %s: %w", name, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", name, err)
	}
	return Decode(data)
}
