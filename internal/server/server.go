// Package server builds the application's dependency graph and runs the HTTP
// server until its context is cancelled or a termination signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JakeFAU/algoviz/internal/api"
	"github.com/JakeFAU/algoviz/internal/bubblesort"
	"github.com/JakeFAU/algoviz/internal/clock/system"
	"github.com/JakeFAU/algoviz/internal/config"
	"github.com/JakeFAU/algoviz/internal/id/uuid"
	"github.com/JakeFAU/algoviz/internal/logging"
	"github.com/JakeFAU/algoviz/internal/metrics"
	"github.com/JakeFAU/algoviz/internal/prime"
	"github.com/JakeFAU/algoviz/internal/telemetry"
)

const tracerName = "github.com/JakeFAU/algoviz"

// App contains the application's dependencies.
type App struct {
	cfg            config.Config
	logger         *zap.Logger
	apiServer      *api.Server
	tracerProvider *sdktrace.TracerProvider
}

// Build creates the application's dependencies.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logger init failed: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return build(ctx, cfg, logger)
}

func build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	logger.Info("building application dependencies",
		zap.Int("server_port", cfg.Server.Port),
		zap.String("service", cfg.Telemetry.ServiceName),
	)

	metrics.Init()
	tp, err := telemetry.InitTracerProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("tracer init failed: %w", err)
	}
	tracer := tp.Tracer(tracerName)

	clock := system.New()
	checker := prime.NewChecker(
		prime.WithClock(clock),
		prime.WithTracer(tracer),
		prime.WithLogger(logger.Named("prime")),
	)
	sorter := bubblesort.NewSorter(
		bubblesort.WithClock(clock),
		bubblesort.WithTracer(tracer),
		bubblesort.WithLogger(logger.Named("bubblesort")),
	)

	return &App{
		cfg:            cfg,
		logger:         logger,
		apiServer:      api.NewServer(checker, sorter, uuid.New(), cfg, logger.Named("api")),
		tracerProvider: tp,
	}, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.apiServer.Handler()
}

// Run listens on the configured port and blocks until the context is canceled
// or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.Addr(), err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then drains in-flight
// requests within the configured shutdown timeout and releases resources.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("server shutdown error", zap.Error(err))
		}
		return nil
	})

	runErr := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	a.Close(closeCtx)
	return runErr
}

// Close flushes telemetry and logs. It is safe to call more than once.
func (a *App) Close(ctx context.Context) {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer shutdown failed", zap.Error(err))
		}
		a.tracerProvider = nil
	}
	if err := a.logger.Sync(); err != nil {
		a.logger.Debug("logger sync failed", zap.Error(err))
	}
	a.logger.Info("shutdown complete")
}
