package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type TransactionRow struct {
	ID          string
	Date        string
	Amount      string
	Type        string
	Category    string
	Description string
}

type ObjectiveRow struct {
	ID         string
	Title      string
	Category   string
	Icon       string
	Status     string
	Progress   int64
	KeyResults string
}

const createTransaction = `
INSERT INTO transactions (id, date, amount, type, category, description)
VALUES (?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateTransaction(ctx context.Context, r TransactionRow) error {
	_, err := q.db.ExecContext(ctx, createTransaction,
		r.ID, r.Date, r.Amount, r.Type, r.Category, r.Description)
	return err
}

const listTransactions = `
SELECT id, date, amount, type, category, description
FROM transactions
ORDER BY date DESC, rowid ASC`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(&i.ID, &i.Date, &i.Amount, &i.Type, &i.Category, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const upsertObjective = `
INSERT INTO objectives (id, title, category, icon, status, progress, key_results)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    category = excluded.category,
    icon = excluded.icon,
    status = excluded.status,
    progress = excluded.progress,
    key_results = excluded.key_results,
    updated_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertObjective(ctx context.Context, r ObjectiveRow) error {
	_, err := q.db.ExecContext(ctx, upsertObjective,
		r.ID, r.Title, r.Category, r.Icon, r.Status, r.Progress, r.KeyResults)
	return err
}

const getObjective = `
SELECT id, title, category, icon, status, progress, key_results
FROM objectives WHERE id = ?`

func (q *Queries) GetObjective(ctx context.Context, id string) (ObjectiveRow, error) {
	var i ObjectiveRow
	err := q.db.QueryRowContext(ctx, getObjective, id).Scan(
		&i.ID, &i.Title, &i.Category, &i.Icon, &i.Status, &i.Progress, &i.KeyResults)
	return i, err
}

const listObjectives = `
SELECT id, title, category, icon, status, progress, key_results
FROM objectives
ORDER BY rowid ASC`

func (q *Queries) ListObjectives(ctx context.Context) ([]ObjectiveRow, error) {
	rows, err := q.db.QueryContext(ctx, listObjectives)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ObjectiveRow
	for rows.Next() {
		var i ObjectiveRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Category, &i.Icon, &i.Status, &i.Progress, &i.KeyResults); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteObjective = `DELETE FROM objectives WHERE id = ?`

func (q *Queries) DeleteObjective(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteObjective, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM transactions`)
	return err
}

func (q *Queries) DeleteAllObjectives(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM objectives`)
	return err
}
