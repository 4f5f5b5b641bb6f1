// Package backend builds the record store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"director/internal/config"
	"director/internal/log"
	"director/internal/records"
	"director/internal/records/memory"
	"director/internal/storage"
)

type Type string

const (
	Memory Type = config.BackendMemory
	SQLite Type = config.BackendSQLite
)

func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

func (t Type) String() string { return string(t) }

type Config struct {
	Type Type
	// DataDir holds optional seed files for the memory backend.
	DataDir      string
	SQLiteDBPath string
}

// FromAppConfig extracts the backend settings from the application config.
func FromAppConfig(c *config.Config) (Config, error) {
	if c == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg := Config{
		Type:         Type(c.DataBackend),
		DataDir:      c.DataDir,
		SQLiteDBPath: c.SQLiteDBPath,
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Type {
	case Memory:
		return nil
	case SQLite:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		return nil
	default:
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
}

// Result is an opened store and how to release it.
type Result struct {
	Store records.Store
	// Ping reports store health for readiness probes.
	Ping    func(context.Context) error
	Cleanup func() error
}

// Open creates the store for cfg.
func Open(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.Default().WithComponent(log.ComponentBackend)

	switch cfg.Type {
	case SQLite:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Store: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil

	default:
		dir := cfg.DataDir
		if dir == "" {
			dir = "data"
		}
		store := memory.NewFromFiles(dir)
		logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dir)
		return &Result{
			Store:   store,
			Ping:    func(context.Context) error { return nil },
			Cleanup: func() error { return nil },
		}, nil
	}
}
