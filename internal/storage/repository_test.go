package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"director/internal/core"
	"director/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "data", "director.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository_Transactions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.CreateTransaction(ctx, core.Transaction{
		Date:        core.NewDate(2025, 3, 10),
		Amount:      decimal.RequireFromString("1234.56"),
		Type:        core.Income,
		Category:    "Salario",
		Description: "Marzo",
	})
	require.NoError(t, err)
	second, err := repo.CreateTransaction(ctx, core.Transaction{
		Date:     core.NewDate(2025, 4, 1),
		Amount:   decimal.RequireFromString("0.10"),
		Type:     core.Expense,
		Category: "Comida",
	})
	require.NoError(t, err)

	list, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)
	assert.True(t, list[1].Amount.Equal(decimal.RequireFromString("1234.56")), "amount not preserved exactly: %s", list[1].Amount)
	assert.Equal(t, "2025-03-10", list[1].Date.String())
	assert.Equal(t, "Marzo", list[1].Description)

	_, err = repo.CreateTransaction(ctx, core.Transaction{Type: "bogus"})
	assert.Error(t, err)

	require.NoError(t, repo.DeleteTransaction(ctx, first.ID))
	assert.ErrorIs(t, repo.DeleteTransaction(ctx, first.ID), records.ErrNotFound)
}

func TestSQLiteRepository_Objectives(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seeds := core.SeedObjectives()
	for _, o := range seeds[:3] {
		_, err := repo.SaveObjective(ctx, o)
		require.NoError(t, err, "save seed %s", o.ID)
	}

	got, err := repo.GetObjective(ctx, "1")
	require.NoError(t, err)
	require.Len(t, got.KeyResults, len(seeds[0].KeyResults))
	require.NotNil(t, got.KeyResults[0].StartValue)
	assert.Equal(t, 85.0, *got.KeyResults[0].StartValue)

	got.Title = "Renamed"
	got.KeyResults[0].CurrentValue = 80
	_, err = repo.SaveObjective(ctx, got)
	require.NoError(t, err)

	list, err := repo.ListObjectives(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "1", list[0].ID, "update must keep insertion order")
	assert.Equal(t, "3", list[2].ID)
	assert.Equal(t, "Renamed", list[0].Title)
	assert.Equal(t, 80.0, list[0].KeyResults[0].CurrentValue)

	created, err := repo.SaveObjective(ctx, core.Objective{Title: "Nuevo", Status: core.AtRisk})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = repo.GetObjective(ctx, "missing")
	assert.ErrorIs(t, err, records.ErrNotFound)
	require.NoError(t, repo.DeleteObjective(ctx, "2"))
	assert.ErrorIs(t, repo.DeleteObjective(ctx, "2"), records.ErrNotFound)
}

func TestSQLiteRepository_Reset(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateTransaction(ctx, core.Transaction{
		Date: core.NewDate(2025, 1, 1), Amount: decimal.NewFromInt(5), Type: core.Savings, Category: "Ahorro",
	})
	require.NoError(t, err)
	_, err = repo.SaveObjective(ctx, core.SeedObjectives()[0])
	require.NoError(t, err)

	require.NoError(t, repo.Reset(ctx))
	txs, err := repo.ListTransactions(ctx)
	require.NoError(t, err)
	objs, err := repo.ListObjectives(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.Empty(t, objs)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.db")
	require.NoError(t, RunMigrations(path), "first run")
	require.NoError(t, RunMigrations(path), "second run")

	version, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
