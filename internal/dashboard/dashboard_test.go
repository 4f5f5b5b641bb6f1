package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"director/internal/cache"
	"director/internal/core"
	"director/internal/ledger"
	"director/internal/records/memory"
)

var fixedNow = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func tx(typ core.TransactionType, amount string, y, m, d int, category string) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(y, m, d),
		Amount:   decimal.RequireFromString(amount),
		Type:     typ,
		Category: category,
	}
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		tx(core.Income, "1000", 2025, 3, 1, "Salario"),
		tx(core.Expense, "300", 2025, 3, 2, "Comida"),
		tx(core.Savings, "200", 2025, 3, 3, "Ahorro General"),
		tx(core.Income, "500", 2024, 3, 1, "Freelance"),
		tx(core.Expense, "100", 2024, 1, 5, "Comida"),
	}
}

type countingLister struct {
	*memory.Store
	txCalls  atomic.Int32
	objCalls atomic.Int32
	txErr    error
}

func (c *countingLister) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	c.txCalls.Add(1)
	if c.txErr != nil {
		return nil, c.txErr
	}
	return c.Store.ListTransactions(ctx)
}

func (c *countingLister) ListObjectives(ctx context.Context) ([]core.Objective, error) {
	c.objCalls.Add(1)
	return c.Store.ListObjectives(ctx)
}

func TestSnapshot_YearMode(t *testing.T) {
	store := memory.New(sampleTransactions(), nil)
	svc := NewService(store, store, WithClock(func() time.Time { return fixedNow }))

	snap, err := svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)

	assert.Equal(t, 2025, snap.Year)
	assert.Equal(t, ModeYear, snap.Mode)
	assert.Equal(t, "2025-03", snap.Summary.Month)
	assert.Equal(t, 20, snap.Summary.MonthSavingsRate)

	income := snap.Series[ledger.MetricIncome]
	require.Len(t, income, 12)
	assert.Equal(t, "Mar", income[2].Month)
	assert.True(t, income[2].Value.Equal(decimal.NewFromInt(1000)), "2024 income excluded in year mode")
	assert.True(t, snap.Series[ledger.MetricExpenses][0].Value.IsZero())
	assert.True(t, snap.Series[ledger.MetricNetFlow][2].Value.Equal(decimal.NewFromInt(700)))
}

func TestSnapshot_CollapsedMode(t *testing.T) {
	store := memory.New(sampleTransactions(), nil)
	svc := NewService(store, store, WithClock(func() time.Time { return fixedNow }))

	snap, err := svc.Snapshot(context.Background(), Query{Mode: ModeCollapsed})
	require.NoError(t, err)

	income := snap.Series[ledger.MetricIncome]
	assert.True(t, income[2].Value.Equal(decimal.NewFromInt(1500)))
	assert.True(t, snap.Series[ledger.MetricExpenses][0].Value.Equal(decimal.NewFromInt(100)))
}

func TestSnapshot_CategoriesAndScope(t *testing.T) {
	store := memory.New(sampleTransactions(), nil)
	svc := NewService(store, store, WithClock(func() time.Time { return fixedNow }))

	snap, err := svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)
	expenses := snap.Categories[core.Expense]
	require.Len(t, expenses, 1)
	assert.Equal(t, "Comida", expenses[0].Category)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(400)))

	snap, err = svc.Snapshot(context.Background(), Query{Scope: ledger.MonthOf(fixedNow)})
	require.NoError(t, err)
	assert.True(t, snap.Categories[core.Expense][0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Len(t, snap.Categories[core.Income], 1)
}

func TestSnapshot_SeedsWhenNoObjectives(t *testing.T) {
	store := memory.New(nil, nil)
	svc := NewService(store, store)

	snap, err := svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)
	assert.True(t, snap.Seeded)
	assert.Len(t, snap.Objectives, len(core.SeedObjectives()))
	assert.InDelta(t, 7400, snap.SavingsGoal, 1e-9)
}

func TestSnapshot_RecomputesStaleProgress(t *testing.T) {
	stale := core.Objective{
		ID: "x", Title: "Peso", Status: core.AtRisk, Progress: 90,
		KeyResults: []core.KeyResult{
			{ID: "k1", Title: "Peso", StartValue: ptr(85), CurrentValue: 80, TargetValue: 75, Type: core.Numerical},
			{ID: "k2", Title: "Correr", CurrentValue: 0, TargetValue: 5, Type: core.Numerical},
		},
	}
	store := memory.New(nil, []core.Objective{stale})
	svc := NewService(store, store)

	snap, err := svc.Snapshot(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, snap.Objectives, 1)
	assert.False(t, snap.Seeded)

	v := snap.Objectives[0]
	assert.Equal(t, 25, v.Progress)
	assert.Equal(t, core.AtRisk, v.Status)
	assert.Equal(t, map[string]int{"k1": 50, "k2": 0}, v.KeyResultProgress)
	assert.Zero(t, snap.SavingsGoal)
}

func TestSnapshot_CacheAndInvalidate(t *testing.T) {
	lister := &countingLister{Store: memory.New(sampleTransactions(), nil)}
	svc := NewService(lister, lister,
		WithClock(func() time.Time { return fixedNow }),
		WithCache(cache.NewLRUCache[Snapshot](8, time.Hour)))

	ctx := context.Background()
	first, err := svc.Snapshot(ctx, Query{Year: 2025})
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx, Query{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, int32(1), lister.txCalls.Load())
	assert.Equal(t, first.Summary, second.Summary)

	_, err = lister.CreateTransaction(ctx, tx(core.Income, "50", 2025, 3, 20, "Otros"))
	require.NoError(t, err)
	svc.Invalidate()

	third, err := svc.Snapshot(ctx, Query{Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, int32(2), lister.txCalls.Load())
	assert.True(t, third.Summary.MonthIncome.Equal(decimal.NewFromInt(1050)))
}

func TestSnapshot_PropagatesLoadErrors(t *testing.T) {
	boom := errors.New("boom")
	lister := &countingLister{Store: memory.New(nil, nil), txErr: boom}
	svc := NewService(lister, lister)

	_, err := svc.Snapshot(context.Background(), Query{})
	assert.ErrorIs(t, err, boom)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeYear, m)

	m, err = ParseMode(" Collapsed ")
	require.NoError(t, err)
	assert.Equal(t, ModeCollapsed, m)

	_, err = ParseMode("weekly")
	assert.Error(t, err)
}

func ptr(v float64) *float64 { return &v }
