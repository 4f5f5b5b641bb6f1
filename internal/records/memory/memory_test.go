package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"director/internal/core"
	"director/internal/records"
)

func TestMemoryStoreTransactions(t *testing.T) {
	ctx := context.Background()
	s := New(nil, nil)

	old, err := s.CreateTransaction(ctx, core.Transaction{
		Date: core.NewDate(2025, 1, 1), Amount: decimal.NewFromInt(10), Type: core.Expense, Category: "Comida",
	})
	require.NoError(t, err)
	require.NotEmpty(t, old.ID)

	recent, err := s.CreateTransaction(ctx, core.Transaction{
		Date: core.NewDate(2025, 2, 1), Amount: decimal.NewFromInt(20), Type: core.Income, Category: "Salario",
	})
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, recent.ID, "ids must be unique")

	list, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recent.ID, list[0].ID, "newest first")

	_, err = s.CreateTransaction(ctx, core.Transaction{Type: core.Income})
	assert.Error(t, err)

	require.NoError(t, s.DeleteTransaction(ctx, old.ID))
	assert.ErrorIs(t, s.DeleteTransaction(ctx, old.ID), records.ErrNotFound)
}

func TestMemoryStoreObjectives(t *testing.T) {
	ctx := context.Background()
	s := New(nil, core.SeedObjectives()[:2])

	list, err := s.ListObjectives(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].ID)
	assert.Equal(t, "2", list[1].ID)

	// Edits to returned values must not leak into the store.
	list[0].KeyResults[0].CurrentValue = 80
	got, err := s.GetObjective(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 85.0, got.KeyResults[0].CurrentValue)

	got.KeyResults[0].CurrentValue = 80
	_, err = s.SaveObjective(ctx, got)
	require.NoError(t, err)
	got, _ = s.GetObjective(ctx, "1")
	assert.Equal(t, 80.0, got.KeyResults[0].CurrentValue)

	created, err := s.SaveObjective(ctx, core.Objective{Title: "New", Status: core.OnTrack})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	list, _ = s.ListObjectives(ctx)
	require.Len(t, list, 3)
	assert.Equal(t, created.ID, list[2].ID, "insertion order")

	assert.ErrorIs(t, s.DeleteObjective(ctx, "missing"), records.ErrNotFound)
	require.NoError(t, s.Reset(ctx))

	list, _ = s.ListObjectives(ctx)
	txs, _ := s.ListTransactions(ctx)
	assert.Empty(t, list)
	assert.Empty(t, txs)
}

func TestNewFromFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	txs, err := NewFromFiles(dir).ListTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs, "missing files give an empty store")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.json"),
		[]byte(`[{"date":"2025-01-02","amount":"12.5","type":"expense","category":"Comida"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "objectives.json"), []byte(`{not json`), 0o644))

	s := NewFromFiles(dir)
	txs, _ = s.ListTransactions(ctx)
	require.Len(t, txs, 1)
	assert.NotEmpty(t, txs[0].ID)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("12.5")))

	objs, _ := s.ListObjectives(ctx)
	assert.Empty(t, objs, "malformed objectives file should be ignored")
}
