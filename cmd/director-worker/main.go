package main

import (
	"context"
	"errors"
	"os"
	"time"

	"director/internal/cli"
	"director/internal/config"
	"director/internal/dashboard"
	"director/internal/log"
	"director/internal/records/google"
	"director/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateWorker)

	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting director-worker", log.FieldOperation, log.OpStartup, "backend", cfg.DataBackend)

	store := cli.OpenBackend(ctx, logger, cfg)
	defer func() {
		if err := store.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	creds, err := google.LoadCredentials(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		logger.Error("Failed to load Google credentials", log.FieldError, err)
		os.Exit(1)
	}
	sheets, err := google.New(ctx, google.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: creds,
		SummaryTab:      cfg.GoogleSummarySheetName,
		ObjectivesTab:   cfg.GoogleObjectivesSheetName,
	})
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient := cli.ConnectAMQP(ctx, logger, cfg, true)
	defer amqpClient.Close()

	// The worker reads the store directly, so snapshots are never memoised.
	exporter := worker.NewExportWorker(
		dashboard.NewService(store.Store, store.Store, cli.DashboardOptions(logger, cfg)...), sheets)

	if err := exporter.ExportYear(ctx, time.Now().Year()); err != nil {
		logger.Error("Startup export failed", log.FieldError, err)
	}

	scheduler := worker.NewScheduler()
	if err := scheduler.Schedule(ctx, cfg.ExportSchedule, exporter); err != nil {
		logger.Error("Failed to schedule export", log.FieldError, err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	consumeErr := make(chan error, 1)
	go func() {
		consumeErr <- amqpClient.ConsumeRecordChanges(ctx, exporter.HandleRecordChanged)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)
	case err := <-consumeErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}
	logger.Info("Worker stopped")
}
