package okr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"director/internal/core"
)

func f(v float64) *float64 { return &v }

func TestKeyResultProgress(t *testing.T) {
	tests := []struct {
		name string
		kr   core.KeyResult
		want float64
	}{
		{"degenerate reached", core.KeyResult{StartValue: f(5), CurrentValue: 5, TargetValue: 5}, 100},
		{"degenerate above", core.KeyResult{StartValue: f(5), CurrentValue: 6, TargetValue: 5}, 100},
		{"degenerate below", core.KeyResult{StartValue: f(5), CurrentValue: 4, TargetValue: 5}, 0},
		{"decreasing target halfway", core.KeyResult{StartValue: f(85), CurrentValue: 80, TargetValue: 75}, 50},
		{"decreasing target regressed", core.KeyResult{StartValue: f(85), CurrentValue: 90, TargetValue: 75}, 0},
		{"clamped above", core.KeyResult{StartValue: f(0), CurrentValue: 150, TargetValue: 100}, 100},
		{"missing start defaults to zero", core.KeyResult{CurrentValue: 300, TargetValue: 1200}, 25},
		{"boolean done", core.KeyResult{CurrentValue: 1, TargetValue: 1, Type: core.Boolean}, 100},
		{"boolean not done", core.KeyResult{CurrentValue: 0, TargetValue: 1, Type: core.Boolean}, 0},
		{"zero target zero start", core.KeyResult{CurrentValue: 0, TargetValue: 0}, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KeyResultProgress(tt.kr), 1e-9)
		})
	}
}

func TestKeyResultPercent(t *testing.T) {
	assert.Equal(t, 33, KeyResultPercent(core.KeyResult{CurrentValue: 1, TargetValue: 3}))
	assert.Equal(t, 67, KeyResultPercent(core.KeyResult{CurrentValue: 2, TargetValue: 3}))
	assert.Equal(t, 100, KeyResultPercent(core.KeyResult{CurrentValue: 150, TargetValue: 100}))
}

func TestObjectiveProgress(t *testing.T) {
	t.Run("no key results", func(t *testing.T) {
		assert.Equal(t, 0, ObjectiveProgress(core.Objective{}))
	})

	t.Run("mean of 0 50 100", func(t *testing.T) {
		o := core.Objective{KeyResults: []core.KeyResult{
			{CurrentValue: 0, TargetValue: 10},
			{CurrentValue: 5, TargetValue: 10},
			{CurrentValue: 10, TargetValue: 10},
		}}
		assert.Equal(t, 50, ObjectiveProgress(o))
	})

	t.Run("mean uses unrounded values", func(t *testing.T) {
		// Rounding each value first would give (1+1+0)/3 -> 1.
		o := core.Objective{KeyResults: []core.KeyResult{
			{CurrentValue: 0.6, TargetValue: 100},
			{CurrentValue: 0.6, TargetValue: 100},
			{CurrentValue: 0, TargetValue: 100},
		}}
		assert.Equal(t, 0, ObjectiveProgress(o))
	})

	t.Run("completed flag is ignored", func(t *testing.T) {
		o := core.Objective{KeyResults: []core.KeyResult{
			{CurrentValue: 0, TargetValue: 10, Completed: true},
		}}
		assert.Equal(t, 0, ObjectiveProgress(o))
	})
}

func TestRefreshDoesNotMutate(t *testing.T) {
	o := core.Objective{
		ID:       "1",
		Status:   core.Behind,
		Progress: 99,
		KeyResults: []core.KeyResult{
			{ID: "a", CurrentValue: 5, TargetValue: 10},
			{ID: "b", CurrentValue: 10, TargetValue: 10},
		},
	}
	assert.True(t, IsStale(o))

	got := Refresh(o)
	assert.Equal(t, 75, got.Progress)
	assert.Equal(t, core.Behind, got.Status, "status is never derived")
	assert.False(t, IsStale(got))
	assert.Equal(t, 99, o.Progress)

	got.KeyResults[0].CurrentValue = 0
	assert.Equal(t, 5.0, o.KeyResults[0].CurrentValue)
	assert.Equal(t, []string{"a", "b"}, []string{got.KeyResults[0].ID, got.KeyResults[1].ID})
}

func TestRefreshAll(t *testing.T) {
	objs := core.SeedObjectives()
	out := RefreshAll(objs)
	require.Len(t, out, len(objs))
	for i := range out {
		assert.Equal(t, objs[i].ID, out[i].ID)
		assert.False(t, IsStale(out[i]))
	}
}

func TestSavingsGoal(t *testing.T) {
	objs := []core.Objective{
		{KeyResults: []core.KeyResult{
			{Title: "Facturación Agencia", Type: core.Currency, TargetValue: 22000},
			{Title: "Renta Mensual", Type: core.Currency, TargetValue: 200},
			{Title: "Correr 5k", Type: core.Numerical, TargetValue: 5},
		}},
		{KeyResults: []core.KeyResult{
			{Title: "Nuevo INGRESO pasivo", Type: core.Currency, TargetValue: 500},
			{Title: "Subir sueldo", Type: core.Currency, TargetValue: 300},
			{Title: "Comprar iPhone", Type: core.Currency, TargetValue: 1000},
		}},
	}
	assert.InDelta(t, 1200, SavingsGoal(objs, nil), 1e-9)
	assert.Zero(t, SavingsGoal(nil, nil))
}

func TestSavingsGoal_SeedData(t *testing.T) {
	// 1200 + 200 + 1000 + 500 + 3000 + 1500; both "Facturación" targets excluded.
	assert.InDelta(t, 7400, SavingsGoal(core.SeedObjectives(), nil), 1e-9)
}

func TestSavingsGoal_ExplicitFlagWins(t *testing.T) {
	yes, no := true, false
	objs := []core.Objective{{KeyResults: []core.KeyResult{
		{Title: "Facturación del taller", Type: core.Currency, TargetValue: 400, Revenue: &no},
		{Title: "Ventas tienda", Type: core.Currency, TargetValue: 900, Revenue: &yes},
	}}}
	assert.InDelta(t, 400, SavingsGoal(objs, nil), 1e-9)
	// Pure keyword matching ignores the flag.
	assert.InDelta(t, 900, SavingsGoal(objs, KeywordClassifier(core.RevenueKeywords)), 1e-9)
}

func TestKeywordClassifier(t *testing.T) {
	c := KeywordClassifier([]string{" Billing ", ""})
	assert.True(t, c(core.KeyResult{Title: "Monthly billing"}))
	assert.False(t, c(core.KeyResult{Title: "Rent"}))
}
