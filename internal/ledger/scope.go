package ledger

import (
	"fmt"
	"strings"
	"time"

	"director/internal/core"
)

// Scope is a time window applied to every side of a computation.
// The zero value is all-time.
type Scope struct {
	monthly bool
	year    int
	month   time.Month
}

// AllTime covers the full history.
func AllTime() Scope { return Scope{} }

// MonthOf covers the calendar month containing t.
func MonthOf(t time.Time) Scope {
	return Scope{monthly: true, year: t.Year(), month: t.Month()}
}

// ParseScope accepts "all", "month" (the month of now) or "YYYY-MM".
func ParseScope(s string, now time.Time) (Scope, error) {
	switch v := strings.TrimSpace(strings.ToLower(s)); v {
	case "", "all":
		return AllTime(), nil
	case "month":
		return MonthOf(now), nil
	default:
		t, err := time.Parse("2006-01", v)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid scope %q: want all, month or YYYY-MM", s)
		}
		return MonthOf(t), nil
	}
}

// IsAllTime reports whether the scope covers the full history.
func (s Scope) IsAllTime() bool { return !s.monthly }

// Includes reports whether d falls inside the scope.
func (s Scope) Includes(d core.Date) bool {
	if !s.monthly {
		return true
	}
	return d.Year() == s.year && d.Month() == s.month
}

// String renders the scope as "all" or "YYYY-MM", the form ParseScope accepts.
func (s Scope) String() string {
	if !s.monthly {
		return "all"
	}
	return fmt.Sprintf("%04d-%02d", s.year, int(s.month))
}
