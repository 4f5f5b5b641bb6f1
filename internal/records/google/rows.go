package google

import (
	"strconv"

	"github.com/shopspring/decimal"

	"director/internal/core"
	"director/internal/dashboard"
	"director/internal/ledger"
)

var metricLabels = map[ledger.Metric]string{
	ledger.MetricIncome:   "Income",
	ledger.MetricExpenses: "Expenses",
	ledger.MetricSavings:  "Savings",
	ledger.MetricNetFlow:  "Net flow",
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

// SummaryRows lays out one row per metric across the twelve months, followed
// by the headline figures.
func SummaryRows(snap dashboard.Snapshot) [][]any {
	header := []any{"Metric"}
	for _, m := range core.MonthLabels {
		header = append(header, m)
	}
	header = append(header, "Total")
	rows := [][]any{header}

	for _, metric := range ledger.Metrics {
		points := snap.Series[metric]
		row := []any{metricLabels[metric]}
		total := decimal.Zero
		for i := 0; i < len(core.MonthLabels); i++ {
			v := decimal.Zero
			if i < len(points) {
				v = points[i].Value
			}
			total = total.Add(v)
			row = append(row, money(v))
		}
		rows = append(rows, append(row, money(total)))
	}

	s := snap.Summary
	rows = append(rows,
		[]any{},
		[]any{"Net worth", money(s.NetWorth)},
		[]any{"Total income", money(s.TotalIncome)},
		[]any{"Total expenses", money(s.TotalExpenses)},
		[]any{"Total savings", money(s.TotalSavings)},
		[]any{"Savings rate %", s.SavingsRate},
		[]any{"Savings goal", strconv.FormatFloat(snap.SavingsGoal, 'f', 2, 64)},
	)
	return rows
}

// ObjectiveRows writes one row per key result. Objectives without key
// results still get a row.
func ObjectiveRows(objs []dashboard.ObjectiveView) [][]any {
	rows := [][]any{{"Objective", "Category", "Status", "Progress %", "Key result", "Current", "Target", "Unit", "Key result %"}}
	for _, o := range objs {
		head := []any{o.Title, o.Category, string(o.Status), o.Progress}
		if len(o.KeyResults) == 0 {
			rows = append(rows, head)
			continue
		}
		for _, kr := range o.KeyResults {
			row := append(append([]any(nil), head...),
				kr.Title,
				kr.CurrentValue,
				kr.TargetValue,
				kr.Unit,
				o.KeyResultProgress[kr.ID],
			)
			rows = append(rows, row)
		}
	}
	return rows
}
