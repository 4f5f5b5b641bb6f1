package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"director/internal/core"
)

// Metric selects what a monthly series accumulates.
type Metric string

const (
	MetricIncome   Metric = "income"
	MetricExpenses Metric = "expenses"
	MetricSavings  Metric = "savings"
	// MetricNetFlow is income minus expenses; savings do not move it.
	MetricNetFlow Metric = "netFlow"
)

// Metrics lists every supported metric in display order.
var Metrics = []Metric{MetricNetFlow, MetricIncome, MetricExpenses, MetricSavings}

// ParseMetric is case-insensitive and accepts "netWorth" as an alias of
// netFlow, which is what the dashboard chart labels it.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income":
		return MetricIncome, nil
	case "expenses", "expense":
		return MetricExpenses, nil
	case "savings":
		return MetricSavings, nil
	case "netflow", "networth":
		return MetricNetFlow, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Series is a fixed January..December layout.
type Series [12]decimal.Decimal

// Point is one labelled bucket.
type Point struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// Points labels each bucket with its month name.
func (s Series) Points() []Point {
	out := make([]Point, len(s))
	for i, v := range s {
		out[i] = Point{Month: core.MonthLabels[i], Value: v}
	}
	return out
}

// MonthlySeries accumulates metric per calendar month. Transactions from
// different years land in the same bucket; use YearSeries to keep one year.
func MonthlySeries(txs []core.Transaction, metric Metric) Series {
	return accumulate(txs, metric, func(core.Date) bool { return true })
}

// YearSeries is MonthlySeries restricted to a single calendar year.
func YearSeries(txs []core.Transaction, metric Metric, year int) Series {
	return accumulate(txs, metric, func(d core.Date) bool { return d.Year() == year })
}

func accumulate(txs []core.Transaction, metric Metric, keep func(core.Date) bool) Series {
	var out Series
	for i := range out {
		out[i] = decimal.Zero
	}
	for _, tx := range txs {
		if !keep(tx.Date) {
			continue
		}
		idx := int(tx.Date.Month()) - 1
		if idx < 0 || idx > 11 {
			continue
		}
		switch {
		case metric == MetricIncome && tx.Type == core.Income,
			metric == MetricExpenses && tx.Type == core.Expense,
			metric == MetricSavings && tx.Type == core.Savings,
			metric == MetricNetFlow && tx.Type == core.Income:
			out[idx] = out[idx].Add(tx.Amount)
		case metric == MetricNetFlow && tx.Type == core.Expense:
			out[idx] = out[idx].Sub(tx.Amount)
		}
	}
	return out
}
