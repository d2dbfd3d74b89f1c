package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/trajmap/internal/api"
	"github.com/UnknownOlympus/trajmap/internal/config"
	"github.com/UnknownOlympus/trajmap/internal/engine"
	"github.com/UnknownOlympus/trajmap/internal/geocoding"
	"github.com/UnknownOlympus/trajmap/internal/metrics"
	"github.com/UnknownOlympus/trajmap/internal/observability"
	"github.com/UnknownOlympus/trajmap/internal/params"
	"github.com/UnknownOlympus/trajmap/internal/repository"
	"github.com/UnknownOlympus/trajmap/internal/session"
	"github.com/UnknownOlympus/trajmap/internal/simulation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const shutdownTimeout = 10 * time.Second

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env, logOutput(cfg.LogFile))

	tracing, err := observability.Setup(ctx, cfg.Tracing, os.Stdout, logger)
	if err != nil {
		log.Fatalf("Failed to initialise tracing: %v", err)
	}
	defer tracing.Close(context.WithoutCancel(ctx))

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	eng, err := engine.NewEngine(engine.Config{
		Type:      engine.Type(cfg.Engine.Type),
		Path:      cfg.Engine.Path,
		URL:       cfg.Engine.URL,
		RateLimit: cfg.Engine.RateLimit,
		Timeout:   cfg.Engine.Timeout,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create simulation engine: %v", err)
	}

	runParams := params.NewDefaultSet()
	if cfg.ParamsFile != "" {
		overrides, loadErr := config.LoadParameterOverrides(cfg.ParamsFile)
		if loadErr != nil {
			log.Fatalf("Failed to load run parameters: %v", loadErr)
		}
		if err = runParams.ApplyOverrides(overrides); err != nil {
			log.Fatalf("Failed to apply run parameters: %v", err)
		}
		logger.InfoContext(ctx, "Run parameters loaded", "file", cfg.ParamsFile, "overrides", len(overrides))
	}

	// The journal is optional; without DB_HOST runs are only kept in the session.
	var (
		journal simulation.Journal
		history api.RunHistory
		repo    *repository.Repository
	)
	if cfg.Database.Host != "" {
		dtb, dbErr := repository.NewDatabase(ctx,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name,
		)
		if dbErr != nil {
			log.Fatalf("Failed to connect to DB: %v", dbErr)
		}
		defer dtb.Close()

		repo = repository.NewRepository(dtb, logger)
		if err = repo.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
		journal, history = repo, repo
		logger.InfoContext(ctx, "Run journal enabled", "host", cfg.Database.Host, "db", cfg.Database.Name)
	}

	geocoder, err := setupGeocoder(cfg.Geocoder, appMetrics, logger)
	if err != nil {
		log.Fatalf("Failed to create geocoding provider: %v", err)
	}
	logger.InfoContext(ctx, "Geocoding provider initialized", "type", cfg.Geocoder.Type)

	invoker := simulation.NewInvoker(logger, eng, runParams, appMetrics, simulation.Config{
		EngineName: cfg.Engine.Type,
		Function:   cfg.Engine.Function,
		Layout:     simulation.ResultLayout{AimOffset: cfg.Engine.AimOffset, StrikeOffset: cfg.Engine.StrikeOffset},
		Timeout:    cfg.Engine.Timeout,
		Journal:    journal,
	})

	server := api.NewServer(logger, session.New(), runParams, invoker, geocoder, history)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return serve(groupCtx, logger, "session API", &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
			Handler:           server.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		})
	})
	group.Go(func() error {
		return serve(groupCtx, logger, "monitoring server", monitoringServer(groupCtx, logger, reg, repo, cfg.HealthPort))
	})

	// Log that the application has started.
	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.", "engine", cfg.Engine.Type, "port", cfg.HTTPPort)

	if err = group.Wait(); err != nil {
		logger.ErrorContext(ctx, "Application stopped with error", "error", err)
		return
	}

	// Log graceful shutdown completion.
	logger.InfoContext(ctx, "Application stopped gracefully.")
}

// setupGeocoder builds the place-name lookup chain: provider, metrics, then cache.
// It returns a nil provider when lookups are disabled.
func setupGeocoder(cfg config.GeocoderConfig, m *metrics.Metrics, logger *slog.Logger) (geocoding.Provider, error) {
	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.Type),
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.URL,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	})
	if err != nil || provider == nil {
		return nil, err
	}

	provider = geocoding.NewInstrumentedProvider(provider, cfg.Type, m)
	if cfg.CacheTTL > 0 {
		provider = geocoding.NewCachedProvider(provider, 0, cfg.CacheTTL, logger)
	}
	return provider, nil
}

// serve runs srv until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, log *slog.Logger, name string, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting "+name, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("%s failed: %w", name, err)
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Shutdown signal received. Stopping "+name+"...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// monitoringServer builds an HTTP server that provides health check and metrics endpoints.
// The health check pings the run journal when one is configured.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - repo: The run journal, nil when disabled.
// - port: The port number on which the server will listen.
func monitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	repo *repository.Repository,
	port int,
) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if repo != nil {
			if err := repo.Ping(req.Context()); err != nil {
				status, body = http.StatusServiceUnavailable, "DB ping failed"
			}
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	readTimeout := 5
	writeTimeout := 10
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
}

// logOutput returns stdout, or a rotating file when path is set.
func logOutput(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    32, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(out, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
