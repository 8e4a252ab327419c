// Package main provides the entry point for the submission metrics exporter.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sipico/submission-metrics/internal/admin"
	"github.com/sipico/submission-metrics/internal/auth"
	"github.com/sipico/submission-metrics/internal/config"
	"github.com/sipico/submission-metrics/internal/exporter"
	"github.com/sipico/submission-metrics/internal/metrics"
	"github.com/sipico/submission-metrics/internal/middleware"
	"github.com/sipico/submission-metrics/internal/storage"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	serverShutdownTimeout = 30 * time.Second
	bootstrapTokenName    = "bootstrap"
)

// components holds everything run() wires together.
type components struct {
	logger        *slog.Logger
	logLevel      *slog.LevelVar
	store         *storage.SQLiteStorage
	registry      *prometheus.Registry
	adminRouter   chi.Router
	mainRouter    chi.Router
	metricsRouter chi.Router
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "health-check" {
		url := "http://localhost:8080/health"
		if len(os.Args) > 2 {
			url = os.Args[2]
		}
		os.Exit(doHealthCheck(url))
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := initializeComponents(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.store.Close(); err != nil {
			c.logger.Error("failed to close storage", "error", err)
		}
	}()

	if err := bootstrapAdminToken(context.Background(), c, cfg.AdminToken); err != nil {
		return err
	}

	c.logger.Info("Submission metrics exporter starting",
		"version", version,
		"listen_addr", cfg.ListenAddr,
		"metrics_listen_addr", cfg.MetricsListenAddr,
		"database", cfg.DatabasePath,
	)

	metricsServer := &http.Server{
		Addr:              cfg.MetricsListenAddr,
		Handler:           c.metricsRouter,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return startServerAndWaitForShutdown(c.logger, createServer(cfg, c.mainRouter), metricsServer)
}

// initializeComponents opens storage and builds the routers for cfg.
func initializeComponents(cfg *config.Config) (*components, error) {
	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logLevel := new(slog.LevelVar)
	logLevel.Set(level)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Init(registry, version); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	adminHandler := admin.NewHandler(store, logLevel, logger)
	adminHandler.SetPublicURL(cfg.PublicURL)
	adminRouter := adminHandler.NewRouter()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.HTTPLogging(logger, middleware.BodyAllowlist))
	r.Use(chimw.StripSlashes)

	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(store))
	exporter.NewHandler(store, logger).Routes(r)
	r.With(middleware.MaxBodySize(cfg.MaxBodyBytes)).Mount("/admin", adminRouter)

	metricsRouter := chi.NewRouter()
	metricsRouter.Handle("/metrics", metrics.Handler(registry))

	return &components{
		logger:        logger,
		logLevel:      logLevel,
		store:         store,
		registry:      registry,
		adminRouter:   adminRouter,
		mainRouter:    r,
		metricsRouter: metricsRouter,
	}, nil
}

// bootstrapAdminToken seeds token as the first admin credential on an empty database.
func bootstrapAdminToken(ctx context.Context, c *components, token string) error {
	bootstrap := auth.NewBootstrapService(c.store)
	created, err := bootstrap.EnsureAdminToken(ctx, bootstrapTokenName, token)
	if err != nil {
		return err
	}
	if created {
		c.logger.Info("bootstrap admin token created from ADMIN_TOKEN")
		return nil
	}

	state, err := bootstrap.GetState(ctx)
	if err != nil {
		return fmt.Errorf("failed to read bootstrap state: %w", err)
	}
	if state == auth.StateUnconfigured {
		c.logger.Warn("no admin token configured; set ADMIN_TOKEN or run 'metricsctl admin-token create'")
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %q", s)
	}
}

func createServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// startServerAndWaitForShutdown serves on every server until SIGINT/SIGTERM or
// until one of them fails, then shuts all of them down.
func startServerAndWaitForShutdown(logger *slog.Logger, servers ...*http.Server) error {
	serverErr := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			logger.Info("Server listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("server error on %s: %w", srv.Addr, err)
			}
		}(srv)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("Received signal, shutting down", "signal", sig.String())
	case runErr = <-serverErr:
		logger.Error("Server failed", "error", runErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown failed", "addr", srv.Addr, "error", err)
			if runErr == nil {
				runErr = fmt.Errorf("shutdown of %s failed: %w", srv.Addr, err)
			}
		}
	}

	if runErr == nil {
		logger.Info("Server shut down gracefully")
	}
	return runErr
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func readyHandler(store *storage.SQLiteStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			//nolint:errcheck // Response write errors are unrecoverable
			json.NewEncoder(w).Encode(map[string]string{"status": "not_ready"})
			return
		}

		w.WriteHeader(http.StatusOK)
		//nolint:errcheck // Response write errors are unrecoverable
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

// doHealthCheck probes url and returns a process exit code, for container health checks.
func doHealthCheck(url string) int {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "health check failed: status %d\n", resp.StatusCode)
		return 1
	}
	return 0
}
