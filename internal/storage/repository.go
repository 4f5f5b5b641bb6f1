package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"director/internal/core"
	"director/internal/records"

	_ "modernc.org/sqlite"
)

var _ records.Store = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	version, dirty, err := SchemaVersion(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		db.Close()
		return nil, fmt.Errorf("schema version %d is dirty, fix the database before starting", version)
	}
	slog.Info("SQLite repository ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	err := r.queries.CreateTransaction(ctx, TransactionRow{
		ID:          tx.ID,
		Date:        tx.Date.String(),
		Amount:      tx.Amount.String(),
		Type:        string(tx.Type),
		Category:    tx.Category,
		Description: tx.Description,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.String(),
		"date", tx.Date.String())
	return tx, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := row.toCore()
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func (r *SQLiteRepository) ListObjectives(ctx context.Context) ([]core.Objective, error) {
	rows, err := r.queries.ListObjectives(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objectives: %w", err)
	}
	out := make([]core.Objective, 0, len(rows))
	for _, row := range rows {
		o, err := row.toCore()
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable objective row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *SQLiteRepository) GetObjective(ctx context.Context, id string) (core.Objective, error) {
	row, err := r.queries.GetObjective(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Objective{}, records.ErrNotFound
	}
	if err != nil {
		return core.Objective{}, fmt.Errorf("get objective %s: %w", id, err)
	}
	return row.toCore()
}

func (r *SQLiteRepository) SaveObjective(ctx context.Context, o core.Objective) (core.Objective, error) {
	if err := o.Validate(); err != nil {
		return core.Objective{}, err
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	krs := o.KeyResults
	if krs == nil {
		krs = []core.KeyResult{}
	}
	encoded, err := json.Marshal(krs)
	if err != nil {
		return core.Objective{}, fmt.Errorf("encode key results: %w", err)
	}
	err = r.queries.UpsertObjective(ctx, ObjectiveRow{
		ID:         o.ID,
		Title:      o.Title,
		Category:   o.Category,
		Icon:       o.Icon,
		Status:     string(o.Status),
		Progress:   int64(o.Progress),
		KeyResults: string(encoded),
	})
	if err != nil {
		return core.Objective{}, fmt.Errorf("save objective: %w", err)
	}

	slog.InfoContext(ctx, "Objective saved to SQLite",
		"id", o.ID,
		"key_results", len(o.KeyResults),
		"progress", o.Progress)
	return o.Clone(), nil
}

func (r *SQLiteRepository) DeleteObjective(ctx context.Context, id string) error {
	n, err := r.queries.DeleteObjective(ctx, id)
	if err != nil {
		return fmt.Errorf("delete objective %s: %w", id, err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	slog.InfoContext(ctx, "Objective deleted", "id", id)
	return nil
}

// Reset removes every record in a single transaction.
func (r *SQLiteRepository) Reset(ctx context.Context) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer sqlTx.Rollback()

	q := r.queries.WithTx(sqlTx)
	if err := q.DeleteAllTransactions(ctx); err != nil {
		return fmt.Errorf("delete transactions: %w", err)
	}
	if err := q.DeleteAllObjectives(ctx); err != nil {
		return fmt.Errorf("delete objectives: %w", err)
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}

	slog.InfoContext(ctx, "All records reset")
	return nil
}

func (row TransactionRow) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", row.Date, err)
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", row.Amount, err)
	}
	return core.Transaction{
		ID:          row.ID,
		Date:        date,
		Amount:      amount,
		Type:        core.TransactionType(row.Type),
		Category:    row.Category,
		Description: row.Description,
	}, nil
}

func (row ObjectiveRow) toCore() (core.Objective, error) {
	var krs []core.KeyResult
	if err := json.Unmarshal([]byte(row.KeyResults), &krs); err != nil {
		return core.Objective{}, fmt.Errorf("decode key results: %w", err)
	}
	return core.Objective{
		ID:         row.ID,
		Title:      row.Title,
		Category:   row.Category,
		Icon:       row.Icon,
		Status:     core.ObjectiveStatus(row.Status),
		Progress:   int(row.Progress),
		KeyResults: krs,
	}, nil
}
