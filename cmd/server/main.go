package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"triad/internal/platform/config"
	"triad/internal/platform/httpserver"
	"triad/internal/platform/logger"
	"triad/internal/platform/metrics"
)

// main wires dependencies, exposes the HTTP router, and owns the process
// lifecycle. Engine logic lives in the internal service packages.
func main() {
	if err := run(); err != nil {
		slog.Error("triad exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		return fmt.Errorf("load tuning: %w", err)
	}
	if cfg.UsesDevSigningKey() {
		log.Warn("operator tokens use the development signing key; set TRIAD_OPERATOR_SIGNING_KEY")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	infra, err := openInfra(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	defer infra.Close()

	a, err := buildApp(ctx, cfg, tuning, infra, reg, log)
	if err != nil {
		return err
	}

	restored, err := a.keeper.Restore(ctx)
	if err != nil {
		log.Warn("starting from a fresh sentinel", "error", err)
	}
	keeperDone := make(chan struct{})
	keeperCtx, stopKeeper := context.WithCancel(context.WithoutCancel(ctx))
	go func() {
		defer close(keeperDone)
		a.keeper.Run(keeperCtx)
	}()

	srv := httpserver.New(cfg.Addr, a.router(cfg, reg))
	log.Info("starting triad", "addr", cfg.Addr, "sentinel", cfg.SentinelName, "restored", restored)
	serveErr := httpserver.Run(ctx, srv, cfg.ShutdownTimeout)
	if serveErr != nil {
		log.Error("server stopped", "error", serveErr)
	}

	stopKeeper()
	select {
	case <-keeperDone:
	case <-time.After(cfg.ShutdownTimeout):
		log.Warn("final snapshot did not finish in time")
	}
	a.Close()
	log.Info("triad stopped")
	return serveErr
}
