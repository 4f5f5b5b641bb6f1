package main

import (
	"errors"
	"net/http"
	"os"
	"time"

	"director/internal/cache"
	"director/internal/cli"
	"director/internal/config"
	apphttp "director/internal/http"
	"director/internal/log"
	"director/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).Validate)

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting director", log.FieldOperation, log.OpStartup, "backend", cfg.DataBackend, "port", cfg.Port)

	store := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := store.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	// Change events are optional for the API; the worker requires them.
	amqpClient := cli.ConnectAMQP(ctx, logger, cfg, false)
	var publisher services.Publisher
	if amqpClient != nil {
		publisher = amqpClient
		defer amqpClient.Close()
	}

	caches := cache.NewManager()
	defer caches.Stop()
	dash := cli.NewDashboard(logger, cfg, store.Store, caches)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Dashboard:    dash,
		Transactions: services.NewTransactionService(store.Store, publisher, dash),
		Objectives:   services.NewObjectiveService(store.Store, publisher, dash),
		Ready:        store.Ping,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	case err := <-errCh:
		logger.Error("HTTP server error", log.FieldError, err)
	}

	shutdownCtx, cancel := cli.ShutdownContext(10 * time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.FieldError, err)
	}
	logger.Info("Server stopped")
}
