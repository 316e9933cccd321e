package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"triad/internal/platform/config"
	"triad/internal/platform/kafka/producer"
	"triad/internal/platform/postgres"
	"triad/internal/platform/redis"
)

// infra holds optional external connections. A nil field means the
// dependency is not configured and the in-memory fallback is used.
type infra struct {
	db       *sql.DB
	redis    *redis.Client
	producer *producer.Producer
	log      *slog.Logger
}

func openInfra(ctx context.Context, cfg config.Server, reg prometheus.Registerer, log *slog.Logger) (*infra, error) {
	in := &infra{log: log}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	in.db = db

	rc, err := redis.New(ctx, cfg.Redis, redis.WithRegisterer(reg))
	if err != nil {
		in.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	in.redis = rc

	if len(cfg.Kafka.Brokers) > 0 {
		p, err := producer.New(ctx, producer.Config{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		in.producer = p
	}

	log.Info("infrastructure ready",
		"postgres", in.db != nil,
		"redis", in.redis != nil,
		"kafka", in.producer != nil,
	)
	return in, nil
}

// Close releases every open connection. Safe on a partially opened infra.
func (in *infra) Close() {
	if in.producer != nil {
		if err := in.producer.Close(context.Background()); err != nil {
			in.log.Warn("close kafka producer", "error", err)
		}
		in.producer = nil
	}
	if in.redis != nil {
		if err := in.redis.Close(); err != nil {
			in.log.Warn("close redis", "error", err)
		}
		in.redis = nil
	}
	if in.db != nil {
		if err := in.db.Close(); err != nil {
			in.log.Warn("close postgres", "error", err)
		}
		in.db = nil
	}
}
