package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidshelf/backend/internal/config"
	"github.com/vidshelf/backend/internal/db"
	"github.com/vidshelf/backend/internal/handlers"
	"github.com/vidshelf/backend/internal/httpserver"
	"github.com/vidshelf/backend/internal/logging"
	"github.com/vidshelf/backend/internal/metrics"
	"github.com/vidshelf/backend/internal/middleware"
)

// Run bootstraps the VidShelf backend application.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("expected command: serve, migrate, or seed")
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewLogger(os.Stdout, level)
	ctx = logging.WithLogger(ctx, logger)

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	deps, err := buildDependencies(ctx, pool, cfg)
	if err != nil {
		return err
	}

	srv := httpserver.New(cfg.AppPort, newHandler(logger, cfg, deps), logger)

	logger.Info("starting http server",
		"port", cfg.AppPort,
		"image_uploads", deps.Images != nil,
	)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-signalCtx.Done():
		logger.Info("shutting down", "cause", context.Cause(signalCtx))
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// newHandler builds the routed handler with its middleware stack. The metrics
// middleware sits directly on the mux so it sees the matched route pattern.
func newHandler(logger *slog.Logger, cfg config.Config, deps handlers.Dependencies) http.Handler {
	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	var handler http.Handler = metrics.Middleware(mux)
	handler = middleware.CORS(cfg.Origins())(handler)
	return middleware.RequestLogger(logger)(handler)
}
