package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"director/internal/core"
)

func TestMonthlySeries_ZeroFill(t *testing.T) {
	for _, m := range Metrics {
		s := MonthlySeries(nil, m)
		require.Len(t, s, 12)
		for i, v := range s {
			assert.True(t, v.IsZero(), "metric %s bucket %d = %s", m, i, v)
		}
	}
}

func TestMonthlySeries_Metrics(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "1000", 2025, 1, 5),
		tx(core.Expense, "300", 2025, 1, 9),
		tx(core.Savings, "200", 2025, 1, 10),
		tx(core.Income, "500", 2025, 3, 1),
		tx(core.Expense, "800", 2025, 3, 2),
		tx(core.Expense, "50", 2025, 12, 31),
	}

	income := MonthlySeries(txs, MetricIncome)
	assertDecimal(t, "1000", income[0])
	assertDecimal(t, "500", income[2])
	assertDecimal(t, "0", income[1])

	expenses := MonthlySeries(txs, MetricExpenses)
	assertDecimal(t, "300", expenses[0])
	assertDecimal(t, "50", expenses[11])

	savings := MonthlySeries(txs, MetricSavings)
	assertDecimal(t, "200", savings[0])
	assertDecimal(t, "0", savings[2])

	net := MonthlySeries(txs, MetricNetFlow)
	assertDecimal(t, "700", net[0]) // savings do not move net flow
	assertDecimal(t, "-300", net[2])
	assertDecimal(t, "-50", net[11])
}

func TestMonthlySeries_CollapsesYears(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Income, "100", 2023, 5, 1),
		tx(core.Income, "200", 2025, 5, 1),
	}
	assertDecimal(t, "300", MonthlySeries(txs, MetricIncome)[4])
	assertDecimal(t, "200", YearSeries(txs, MetricIncome, 2025)[4])
	assertDecimal(t, "100", YearSeries(txs, MetricIncome, 2023)[4])
	assertDecimal(t, "0", YearSeries(txs, MetricIncome, 2024)[4])
}

func TestSeriesPoints(t *testing.T) {
	pts := MonthlySeries([]core.Transaction{tx(core.Income, "10", 2025, 2, 1)}, MetricIncome).Points()
	require.Len(t, pts, 12)
	assert.Equal(t, "Jan", pts[0].Month)
	assert.Equal(t, "Dec", pts[11].Month)
	assertDecimal(t, "10", pts[1].Value)
}

func TestParseMetric(t *testing.T) {
	tests := []struct {
		in   string
		want Metric
		ok   bool
	}{
		{"income", MetricIncome, true},
		{"Expenses", MetricExpenses, true},
		{"expense", MetricExpenses, true},
		{"savings", MetricSavings, true},
		{"netFlow", MetricNetFlow, true},
		{"netWorth", MetricNetFlow, true},
		{"profit", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.in)
		if !tt.ok {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
