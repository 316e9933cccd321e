package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"triad/internal/admin"
	"triad/internal/admin/adapters"
	integrityhandler "triad/internal/integrity/handler"
	integritymetrics "triad/internal/integrity/metrics"
	integrityservice "triad/internal/integrity/service"
	"triad/internal/integrity/store/quarantine"
	jwttoken "triad/internal/jwt_token"
	"triad/internal/platform/config"
	"triad/internal/platform/metrics"
	"triad/internal/platform/middleware"
	threathandler "triad/internal/threat/handler"
	threatmetrics "triad/internal/threat/metrics"
	"triad/internal/threat/observability"
	"triad/internal/threat/publisher"
	threatservice "triad/internal/threat/service"
	"triad/internal/threat/store/snapshot"
	"triad/pkg/platform/audit"
	"triad/pkg/platform/audit/publishers/security"
	auditmemory "triad/pkg/platform/audit/store/memory"
	auditpostgres "triad/pkg/platform/audit/store/postgres"
	adminmw "triad/pkg/platform/middleware/admin"
	"triad/pkg/platform/middleware/metadata"
	"triad/pkg/platform/middleware/request"
	"triad/pkg/platform/middleware/requesttime"
	"triad/pkg/platform/tx"
)

// app is the assembled engine: corrector, sentinel and their adapters.
type app struct {
	log        *slog.Logger
	corrector  *integrityservice.Service
	sentinel   *threatservice.Sentinel
	quarantine integrityhandler.QuarantineStore
	auditStore audit.Store
	auditPub   *security.Publisher
	events     *publisher.Publisher
	keeper     *snapshot.Keeper
	checks     map[string]admin.Checker
}

func buildApp(ctx context.Context, cfg config.Server, tuning config.Tuning, in *infra, reg prometheus.Registerer, log *slog.Logger) (*app, error) {
	a := &app{log: log, checks: make(map[string]admin.Checker)}

	corrector, err := integrityservice.New(
		integrityservice.WithLogger(log),
		integrityservice.WithConfig(tuning.Integrity),
		integrityservice.WithMetrics(integritymetrics.New(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("build corrector: %w", err)
	}
	a.corrector = corrector

	sentinel, err := threatservice.New(corrector,
		threatservice.WithLogger(log),
		threatservice.WithConfig(tuning.Threat),
		threatservice.WithMetrics(threatmetrics.New(reg)),
	)
	if err != nil {
		return nil, fmt.Errorf("build sentinel: %w", err)
	}
	a.sentinel = sentinel

	if in.db != nil {
		qs := quarantine.NewPostgres(in.db)
		as := auditpostgres.New(in.db)
		err := tx.Run(ctx, in.db, func(ctx context.Context) error {
			if err := qs.Migrate(ctx); err != nil {
				return err
			}
			return as.Migrate(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("migrate schemas: %w", err)
		}
		a.quarantine, a.auditStore = qs, as
		a.checks["postgres"] = adapters.NewSQLChecker(in.db)
	} else {
		a.quarantine, a.auditStore = quarantine.NewInMemory(), auditmemory.NewInMemoryStore()
	}
	a.auditPub = security.NewPublisher(a.auditStore, security.WithLogger(log))
	sentinel.Subscribe(observability.AuditHandler(log, a.auditPub, cfg.SentinelName))

	var snapshots snapshot.Store = snapshot.NewInMemory()
	if in.redis != nil {
		snapshots = snapshot.NewRedis(in.redis.Client,
			snapshot.WithTTL(cfg.Redis.SnapshotTTL),
			snapshot.WithRegisterer(reg),
		)
		a.checks["redis"] = in.redis
	}
	a.keeper = snapshot.NewKeeper(snapshots, sentinel, cfg.SentinelName, cfg.SnapshotInterval, log)

	if in.producer != nil {
		events, err := publisher.New(in.producer,
			publisher.WithLogger(log),
			publisher.WithMetrics(publisher.NewMetrics(reg)),
			publisher.WithTopic(cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor),
			publisher.WithSentinelName(cfg.SentinelName),
		)
		if err != nil {
			return nil, fmt.Errorf("build event publisher: %w", err)
		}
		if err := events.Start(ctx); err != nil {
			return nil, fmt.Errorf("start event publisher: %w", err)
		}
		sentinel.Subscribe(events.Handle)
		a.events = events
		a.checks["kafka"] = in.producer
	}
	return a, nil
}

// router mounts every HTTP surface. reg may be nil to skip /metrics.
func (a *app) router(cfg config.Server, reg *prometheus.Registry) http.Handler {
	jwtService := jwttoken.NewJWTService(cfg.OperatorSigningKey, cfg.OperatorIssuer, cfg.OperatorAudience)
	operator := middleware.Operator(jwtService.Validator(), a.log, a.auditPub)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(a.log))
	if reg != nil {
		r.Use(metrics.NewHTTPMetrics(reg).Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	}

	threathandler.New(a.sentinel, a.auditStore, a.auditPub, a.log).Register(r, operator)
	integrityhandler.New(a.corrector, a.quarantine, a.log,
		integrityhandler.WithAuditPublisher(a.auditPub)).Register(r, operator)
	admin.New(a.keeper, cfg.SentinelName, a.checks, a.log).Register(r, adminmw.RequireAdminToken(cfg.AdminToken, a.log))
	return r
}

// Close drains the event publisher, then the audit publisher.
func (a *app) Close() {
	if a.events != nil {
		a.events.Close()
	}
	a.auditPub.Close()
}
