// Command orbmatchd serves ORB descriptor matching over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hupe1980/orbmatch"
	"github.com/hupe1980/orbmatch/config"
	"github.com/hupe1980/orbmatch/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "orbmatchd:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to the YAML configuration file")
	addr := flag.String("addr", "", "Listen address, overrides the configuration (e.g. :8080)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.Logger()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := server.NewMetrics(reg)

	backend, err := cfg.Storage.Backend(ctx)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	eng, err := orbmatch.Open(ctx, backend, cfg.EngineOptions(logger, metrics)...)
	if err != nil {
		return err
	}
	defer eng.Close()

	srv := server.New(eng, server.Config{
		Addr:    cfg.Addr,
		Logger:  logger.Logger,
		Metrics: metrics,
	})

	if cfg.Warmup.OnStart {
		go warmup(ctx, eng, srv, cfg.Warmup.Timeout, logger)
	} else {
		srv.MarkReady()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	return <-errCh
}

// warmup loads every category, then marks the server ready. A failed or
// timed out warmup still marks it ready: unloaded categories load on demand.
func warmup(ctx context.Context, eng *orbmatch.Engine, srv *server.Server, timeout time.Duration, logger *orbmatch.Logger) {
	defer srv.MarkReady()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := eng.Warmup(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("serving before all categories are loaded", "error", err)
	}
}
