// Package main is the entrypoint for the keywatch monitor API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/keywatch/keywatch/internal/cache"
	"github.com/keywatch/keywatch/internal/config"
	"github.com/keywatch/keywatch/internal/dbpool"
	"github.com/keywatch/keywatch/internal/handler"
	"github.com/keywatch/keywatch/internal/idgen"
	"github.com/keywatch/keywatch/internal/metrics"
	"github.com/keywatch/keywatch/internal/middleware"
	"github.com/keywatch/keywatch/internal/repository"
	"github.com/keywatch/keywatch/internal/server"
	"github.com/keywatch/keywatch/internal/service"
)

// database is the pool surface main needs beyond dbpool.Pool.
type database interface {
	dbpool.Pool
	Ping(ctx context.Context) error
	Close()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	ids, err := idgen.New(cfg.IDStrategy)
	if err != nil {
		logger.Error("invalid id strategy", "error", err)
		os.Exit(1)
	}

	// Initialize database
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database", "driver", cfg.DBDriver)

	// Initialize cache. The nil interfaces keep caching and its readiness
	// check off when REDIS_URL is unset.
	var (
		monitorCache service.MonitorCache
		cacheHealth  handler.HealthChecker
		cacheClient  *cache.Cache
	)
	if cfg.CacheEnabled() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL, cfg.MonitorCacheTTL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			db.Close()
			os.Exit(1)
		}
		monitorCache = cacheClient
		cacheHealth = cacheClient
		logger.Info("connected to Redis", "ttl", cfg.MonitorCacheTTL)
	} else {
		logger.Info("monitor cache disabled")
	}

	// Initialize services
	recorder := metrics.NewInMemory()
	session := repository.NewSession(db, ids, logger)
	monitorService := service.NewMonitorService(session, monitorCache, recorder, logger)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(db, cacheHealth, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)
	monitorHandler := handler.NewMonitorHandler(monitorService, logger)

	r := setupRouter(h, healthHandler, metricsHandler, monitorHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("database", func(ctx context.Context) error {
		db.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("cache", func(ctx context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"id_strategy", cfg.IDStrategy,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openDatabase builds the pool adapter selected by DB_DRIVER.
func openDatabase(ctx context.Context, cfg *config.Config) (database, error) {
	switch cfg.DBDriver {
	case config.DriverPgx:
		pool, err := dbpool.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		return pool, nil
	case config.DriverPQ:
		// DB_MIN_CONNS becomes the idle cap; database/sql keeps no minimum.
		pool, err := dbpool.OpenSQLPool(ctx, dbpool.DriverPostgres, cfg.DatabaseURL, int(cfg.DBMaxConns), int(cfg.DBMinConns))
		if err != nil {
			return nil, err
		}
		return pool, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	metricsHandler *handler.MetricsHandler,
	monitorHandler *handler.MonitorHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger, cfg.IsDevelopment()))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)
	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
		r.Route("/monitors", monitorHandler.Routes)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
