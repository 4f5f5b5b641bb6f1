// Package cli holds the start-up steps shared by cmd/director and
// cmd/director-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"director/internal/amqp"
	"director/internal/backend"
	"director/internal/cache"
	"director/internal/config"
	"director/internal/dashboard"
	"director/internal/log"
	"director/internal/okr"
	"director/internal/records"
)

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger installs a text logger at the configured level as the slog
// default. Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	logger := log.New(cfg)
	log.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info log level", log.FieldError, err)
	}
	return logger
}

// LoadAndValidateConfig loads configuration and exits on the first
// validation failure reported by validate.
func LoadAndValidateConfig(logger *log.Logger, validate func(*config.Config) error) *config.Config {
	cfg := config.Load()
	if err := validate(cfg); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend opens the configured record store or exits.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) *backend.Result {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	res, err := backend.Open(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to open backend", log.FieldError, err, "backend", bcfg.Type)
		os.Exit(1)
	}
	return res
}

// ConnectAMQP returns nil when AMQP is not configured. When required is
// false a connection failure is logged and the process continues without
// change events.
func ConnectAMQP(ctx context.Context, logger *log.Logger, cfg *config.Config, required bool) *amqp.Client {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP not configured, change events disabled")
		return nil
	}
	attempts := 1
	if required {
		attempts = 5
	}
	client, err := amqp.NewClientWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, attempts)
	if err != nil {
		if required {
			logger.Error("Failed to connect to AMQP", log.FieldError, err)
			os.Exit(1)
		}
		logger.Warn("Failed to connect to AMQP, continuing without change events", log.FieldError, err)
		return nil
	}
	logger.Info("Connected to AMQP", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return client
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownContext bounds the time allowed for cleanup after a signal.
func ShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// NewDashboard builds the dashboard service over store. A positive
// CACHE_TTL enables snapshot memoisation, expired through caches.
func NewDashboard(logger *log.Logger, cfg *config.Config, store records.Store, caches *cache.Manager) *dashboard.Service {
	opts := DashboardOptions(logger, cfg)
	if cfg.CacheTTL <= 0 {
		logger.Info("Dashboard cache disabled")
		return dashboard.NewService(store, store, opts...)
	}
	lru := cache.NewLRUCache[dashboard.Snapshot](cfg.CacheSize, cfg.CacheTTL)
	caches.Register(lru)
	caches.StartCleanup(cfg.CacheTTL)
	logger.Info("Dashboard cache enabled", "ttl", cfg.CacheTTL, "size", cfg.CacheSize)
	return dashboard.NewService(store, store, append(opts, dashboard.WithCache(lru))...)
}

// DashboardOptions turns configuration into dashboard options shared by the
// API server and the worker.
func DashboardOptions(logger *log.Logger, cfg *config.Config) []dashboard.Option {
	if len(cfg.RevenueKeywords) == 0 {
		return nil
	}
	logger.Info("Custom revenue keywords", "keywords", cfg.RevenueKeywords)
	return []dashboard.Option{
		dashboard.WithClassifier(okr.FlagOr(okr.KeywordClassifier(cfg.RevenueKeywords))),
	}
}
