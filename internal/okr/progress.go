// Package okr computes objective progress from key-result value ranges and the
// cross-objective savings goal.
//
// Functions are stateless and never modify their arguments. Status and the
// Completed flag are inputs set by the user; nothing here derives or corrects them.
package okr

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"director/internal/core"
)

// KeyResultProgress returns how far current has travelled from start to
// target, as a percentage clamped to [0, 100]. Decreasing targets (e.g. a
// weight from 85 to 75) work through the signed difference. A degenerate
// range (target == start) is all-or-nothing.
func KeyResultProgress(kr core.KeyResult) float64 {
	start := kr.Start()
	current := kr.CurrentValue
	target := kr.TargetValue

	if target == start {
		if current >= target {
			return 100
		}
		return 0
	}
	p := (current - start) / (target - start) * 100
	return clamp(p, 0, 100)
}

// KeyResultPercent is KeyResultProgress rounded to a whole percentage.
func KeyResultPercent(kr core.KeyResult) int {
	return int(math.Round(KeyResultProgress(kr)))
}

// ObjectiveProgress is the rounded mean of the unrounded key-result
// progress values, or 0 when the objective has no key results.
func ObjectiveProgress(o core.Objective) int {
	if len(o.KeyResults) == 0 {
		return 0
	}
	values := make([]float64, len(o.KeyResults))
	for i, kr := range o.KeyResults {
		values[i] = KeyResultProgress(kr)
	}
	return int(math.Round(stat.Mean(values, nil)))
}

// Refresh returns a copy of o whose Progress matches its key results.
// The stored progress is a cache and is never trusted.
func Refresh(o core.Objective) core.Objective {
	out := o.Clone()
	out.Progress = ObjectiveProgress(o)
	return out
}

// RefreshAll applies Refresh to every objective, preserving order.
func RefreshAll(objectives []core.Objective) []core.Objective {
	out := make([]core.Objective, len(objectives))
	for i, o := range objectives {
		out[i] = Refresh(o)
	}
	return out
}

// IsStale reports whether the cached Progress disagrees with the key results.
func IsStale(o core.Objective) bool {
	return o.Progress != ObjectiveProgress(o)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

// Classifier reports whether a key result represents revenue the objective
// generates, as opposed to money the user needs to put aside.
type Classifier func(core.KeyResult) bool

// KeywordClassifier matches titles, case-insensitively, against a literal
// list of substrings. No stemming or semantics: "Sueldo" and "Facturación"
// match, "Salary" does not unless listed.
func KeywordClassifier(keywords []string) Classifier {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return func(kr core.KeyResult) bool {
		title := strings.ToLower(kr.Title)
		for _, k := range lowered {
			if strings.Contains(title, k) {
				return true
			}
		}
		return false
	}
}

// DefaultClassifier trusts an explicit Revenue flag and otherwise falls back
// to core.RevenueKeywords.
var DefaultClassifier = FlagOr(KeywordClassifier(core.RevenueKeywords))

// FlagOr wraps a fallback classifier so that key results carrying an
// explicit Revenue flag are decided by the flag alone.
func FlagOr(fallback Classifier) Classifier {
	return func(kr core.KeyResult) bool {
		if kr.Revenue != nil {
			return *kr.Revenue
		}
		return fallback(kr)
	}
}

// SavingsGoal sums TargetValue over every currency key result of every
// objective that the classifier does not mark as revenue. A nil classifier
// means DefaultClassifier.
func SavingsGoal(objectives []core.Objective, isRevenue Classifier) float64 {
	if isRevenue == nil {
		isRevenue = DefaultClassifier
	}
	var total float64
	for _, o := range objectives {
		for _, kr := range o.KeyResults {
			if kr.Type != core.Currency || kr.TargetValue == 0 {
				continue
			}
			if isRevenue(kr) {
				continue
			}
			total += kr.TargetValue
		}
	}
	return total
}
