package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/sema/internal/adapters/http/api"
	"github.com/okian/sema/internal/adapters/http/site"
	"github.com/okian/sema/internal/adapters/http/swagger"
	"github.com/okian/sema/internal/adapters/repository"
	service "github.com/okian/sema/internal/app"
	"github.com/okian/sema/internal/config"
	"github.com/okian/sema/pkg/logger"
	"github.com/okian/sema/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "server exited", logger.Error(err))
		_ = logger.Sync()
		stop()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWithWriter(os.Stdout, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := startService(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info(gctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage", cfg.StorageDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info(ctx, "server stopped")
	return nil
}

// startService opens the configured storage and starts the service on it.
// Once started the service owns the KV and releases it in Stop; the KV is
// closed here only when start fails.
func startService(ctx context.Context, cfg *config.Config, log logger.Logger) (*service.Service, error) {
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageDriver, err)
	}

	svc := service.New(
		service.WithKV(kv),
		service.WithDemoClientID(cfg.DemoClientID),
		service.WithGRIDisclosures(cfg.GRIDisclosures),
		service.WithLogger(log),
	)
	if err := svc.Start(ctx); err != nil {
		closeKV()
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// newMux wires the landing page, documentation and API routes.
func newMux(ctx context.Context, svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	site.Register(ctx, mux)
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

// openKV opens the storage backend named by cfg.StorageDriver. The returned
// func releases it and is meant for callers that never hand the KV to a
// started service.
func openKV(ctx context.Context, cfg *config.Config) (repository.KV, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.DriverFile:
		kv, err := repository.NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, noop, err
		}
		return kv, noop, nil
	case config.DriverSQLite:
		kv, err := repository.NewSQLiteKV(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return kv, func() { _ = kv.Close() }, nil
	case config.DriverPostgres:
		pool, err := repository.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		kv, err := repository.NewPostgresKV(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		return kv, kv.Close, nil
	default:
		return repository.NewMemoryKV(), noop, nil
	}
}

// startServiceMetricsUpdater periodically refreshes the gauges derived from
// service state until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if clients, ok := stats["clients"].(int); ok {
		metrics.UpdateClientCount(clients)
	}
	if templates, ok := stats["templates"].(int); ok {
		metrics.UpdateTemplateCount(templates)
	}
}
