// Package dashboard assembles the read-model behind the dashboard and
// finances pages from the record store.
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"director/internal/cache"
	"director/internal/core"
	"director/internal/ledger"
	"director/internal/log"
	"director/internal/okr"
	"director/internal/records"
)

// Mode selects how monthly series treat multiple years.
type Mode string

const (
	// ModeYear keeps only transactions from the requested year.
	ModeYear Mode = "year"
	// ModeCollapsed folds every year into the same twelve buckets.
	ModeCollapsed Mode = "collapsed"
)

// ParseMode defaults to ModeYear.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeYear:
		return ModeYear, nil
	case ModeCollapsed:
		return ModeCollapsed, nil
	default:
		return "", fmt.Errorf("invalid mode %q: want year or collapsed", s)
	}
}

// Query selects what a Snapshot covers. A zero Year means the current year.
type Query struct {
	Year int
	Mode Mode
	// Scope limits the category breakdown. Zero value is all-time.
	Scope ledger.Scope
}

// ObjectiveView is an objective with freshly computed progress.
type ObjectiveView struct {
	core.Objective
	// KeyResultProgress holds the rounded percentage of each key result,
	// keyed by key result ID.
	KeyResultProgress map[string]int `json:"keyResultProgress"`
}

type Snapshot struct {
	Year        int                                             `json:"year"`
	Mode        Mode                                            `json:"mode"`
	GeneratedAt time.Time                                       `json:"generatedAt"`
	Summary     ledger.Summary                                  `json:"summary"`
	Series      map[ledger.Metric][]ledger.Point                `json:"series"`
	Categories  map[core.TransactionType][]ledger.CategoryTotal `json:"categories"`
	Objectives  []ObjectiveView                                 `json:"objectives"`
	SavingsGoal float64                                         `json:"savingsGoal"`
	// Seeded is true when the store held no objectives and defaults are shown.
	Seeded bool `json:"seeded"`
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCache memoises snapshots per query until Invalidate is called.
func WithCache(c cache.Cache[Snapshot]) Option {
	return func(s *Service) { s.cache = c }
}

// WithClassifier overrides the revenue classifier used for the savings goal.
func WithClassifier(c okr.Classifier) Option {
	return func(s *Service) { s.classify = c }
}

type Service struct {
	txs      records.TransactionLister
	objs     records.ObjectiveLister
	now      func() time.Time
	cache    cache.Cache[Snapshot]
	classify okr.Classifier
	logger   *log.Logger
}

func NewService(txs records.TransactionLister, objs records.ObjectiveLister, opts ...Option) *Service {
	s := &Service{
		txs:    txs,
		objs:   objs,
		now:    time.Now,
		logger: log.Default().WithComponent(log.ComponentDashboard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot loads transactions and objectives concurrently and derives every
// dashboard figure from them.
func (s *Service) Snapshot(ctx context.Context, q Query) (Snapshot, error) {
	now := s.now()
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Mode == "" {
		q.Mode = ModeYear
	}

	key := cacheKey(q, now)
	if s.cache != nil {
		if snap, ok := s.cache.Get(key); ok {
			return snap, nil
		}
	}

	var (
		txs  []core.Transaction
		objs []core.Objective
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txs, err = s.txs.ListTransactions(gctx)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		objs, err = s.objs.ListObjectives(gctx)
		if err != nil {
			return fmt.Errorf("list objectives: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap := Build(txs, objs, q, now, s.classify)
	if s.cache != nil {
		s.cache.Set(key, snap)
	}
	s.logger.DebugContext(ctx, "Dashboard snapshot built",
		log.FieldYear, q.Year,
		"mode", q.Mode,
		"transactions", len(txs),
		"objectives", len(snap.Objectives),
		"seeded", snap.Seeded)
	return snap, nil
}

// Invalidate drops memoised snapshots. Call it after any write.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// Build derives a snapshot from already loaded records. A nil classifier
// means okr.DefaultClassifier.
func Build(txs []core.Transaction, objs []core.Objective, q Query, now time.Time, classify okr.Classifier) Snapshot {
	if q.Year == 0 {
		q.Year = now.Year()
	}
	if q.Mode == "" {
		q.Mode = ModeYear
	}

	snap := Snapshot{
		Year:        q.Year,
		Mode:        q.Mode,
		GeneratedAt: now,
		Summary:     ledger.Summarize(txs, now),
		Series:      make(map[ledger.Metric][]ledger.Point, len(ledger.Metrics)),
		Categories:  make(map[core.TransactionType][]ledger.CategoryTotal, 3),
	}
	for _, m := range ledger.Metrics {
		snap.Series[m] = SeriesFor(txs, m, q).Points()
	}
	for _, typ := range []core.TransactionType{core.Income, core.Expense, core.Savings} {
		snap.Categories[typ] = ledger.ByCategory(txs, typ, q.Scope)
	}

	if len(objs) == 0 {
		objs = core.SeedObjectives()
		snap.Seeded = true
	}
	snap.Objectives = Views(objs)
	snap.SavingsGoal = okr.SavingsGoal(objs, classify)
	return snap
}

// SeriesFor picks YearSeries or MonthlySeries according to q.Mode.
func SeriesFor(txs []core.Transaction, m ledger.Metric, q Query) ledger.Series {
	if q.Mode == ModeCollapsed {
		return ledger.MonthlySeries(txs, m)
	}
	return ledger.YearSeries(txs, m, q.Year)
}

// Views refreshes each objective's progress and attaches per key result
// percentages. Order is preserved.
func Views(objs []core.Objective) []ObjectiveView {
	out := make([]ObjectiveView, len(objs))
	for i, o := range objs {
		v := ObjectiveView{
			Objective:         okr.Refresh(o),
			KeyResultProgress: make(map[string]int, len(o.KeyResults)),
		}
		for _, kr := range o.KeyResults {
			v.KeyResultProgress[kr.ID] = okr.KeyResultPercent(kr)
		}
		out[i] = v
	}
	return out
}

// The current month is part of the key so a cached snapshot never outlives
// the month its summary was computed for.
func cacheKey(q Query, now time.Time) string {
	return fmt.Sprintf("%d|%s|%s|%s", q.Year, q.Mode, q.Scope, now.Format("2006-01"))
}
