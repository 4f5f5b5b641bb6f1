// Package ledger reduces transactions into totals, rates and monthly series.
//
// Every function is pure: inputs are never modified and results are freshly
// built values. Nothing here returns an error; degenerate inputs (empty
// slices, zero income) map to defined zero values.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"director/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Total sums the amount of every transaction of type typ inside scope.
// Amounts are not sign-checked; whatever the store holds flows through.
func Total(txs []core.Transaction, typ core.TransactionType, scope Scope) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type != typ || !scope.Includes(tx.Date) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// NetWorth is all-time income minus all-time expenses.
// Savings are an internal transfer and stay inside net worth.
func NetWorth(txs []core.Transaction) decimal.Decimal {
	return Total(txs, core.Income, AllTime()).Sub(Total(txs, core.Expense, AllTime()))
}

// SavingsRate returns round(100 * savings / income) over scope, or 0 when
// there is no income. The result is not clamped: saving more than earned
// yields values above 100.
func SavingsRate(txs []core.Transaction, scope Scope) int {
	return rate(Total(txs, core.Savings, scope), Total(txs, core.Income, scope))
}

func rate(savings, income decimal.Decimal) int {
	if income.IsZero() {
		return 0
	}
	return int(savings.Mul(hundred).Div(income).Round(0).IntPart())
}

// Summary holds the figures shown on the dashboard cards.
type Summary struct {
	Month            string          `json:"month"`
	MonthIncome      decimal.Decimal `json:"monthIncome"`
	MonthExpenses    decimal.Decimal `json:"monthExpenses"`
	MonthSavings     decimal.Decimal `json:"monthSavings"`
	MonthSavingsRate int             `json:"monthSavingsRate"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TotalSavings     decimal.Decimal `json:"totalSavings"`
	SavingsRate      int             `json:"savingsRate"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	// NetSavings is all-time income minus expenses as labelled on the finances page.
	NetSavings decimal.Decimal `json:"netSavings"`
}

// Summarize computes the card figures, using now to pick "this month".
func Summarize(txs []core.Transaction, now time.Time) Summary {
	month := MonthOf(now)
	all := AllTime()

	s := Summary{
		Month:         month.String(),
		MonthIncome:   Total(txs, core.Income, month),
		MonthExpenses: Total(txs, core.Expense, month),
		MonthSavings:  Total(txs, core.Savings, month),
		TotalIncome:   Total(txs, core.Income, all),
		TotalExpenses: Total(txs, core.Expense, all),
		TotalSavings:  Total(txs, core.Savings, all),
	}
	s.MonthSavingsRate = rate(s.MonthSavings, s.MonthIncome)
	s.SavingsRate = rate(s.TotalSavings, s.TotalIncome)
	s.NetWorth = s.TotalIncome.Sub(s.TotalExpenses)
	s.NetSavings = s.NetWorth
	return s
}

// CategoryTotal is the amount accumulated under one category label.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ByCategory groups transactions of type typ inside scope by category,
// largest first. Ties are ordered by name so output is stable.
func ByCategory(txs []core.Transaction, typ core.TransactionType, scope Scope) []CategoryTotal {
	sums := map[string]decimal.Decimal{}
	for _, tx := range txs {
		if tx.Type != typ || !scope.Includes(tx.Date) {
			continue
		}
		cur, ok := sums[tx.Category]
		if !ok {
			cur = decimal.Zero
		}
		sums[tx.Category] = cur.Add(tx.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, amt := range sums {
		out = append(out, CategoryTotal{Category: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
