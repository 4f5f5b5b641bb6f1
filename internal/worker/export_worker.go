// Package worker keeps the Google Sheets mirror in step with the record
// store, both on change events and on a schedule.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"director/internal/amqp"
	"director/internal/dashboard"
	"director/internal/log"
)

// SnapshotSource builds dashboard snapshots. *dashboard.Service satisfies it.
type SnapshotSource interface {
	Snapshot(ctx context.Context, q dashboard.Query) (dashboard.Snapshot, error)
	Invalidate()
}

// Exporter writes a snapshot somewhere. *google.Client satisfies it.
type Exporter interface {
	Export(ctx context.Context, snap dashboard.Snapshot) error
}

type ExportWorker struct {
	source   SnapshotSource
	exporter Exporter
	now      func() time.Time
	logger   *log.Logger

	// Exports are serialised so a scheduled run never interleaves writes
	// with an event-driven one.
	mu sync.Mutex
}

func NewExportWorker(source SnapshotSource, exporter Exporter) *ExportWorker {
	return &ExportWorker{
		source:   source,
		exporter: exporter,
		now:      time.Now,
		logger:   log.Default().WithComponent(log.ComponentWorker),
	}
}

// HandleRecordChanged rebuilds the current year's snapshot and exports it.
// A returned error makes the consumer requeue the message.
func (w *ExportWorker) HandleRecordChanged(ctx context.Context, msg *amqp.RecordChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing record change",
		"kind", msg.Kind,
		log.FieldRecordID, msg.ID,
		"published_at", msg.Timestamp)

	// Another process wrote the change, so anything memoised here is stale.
	w.source.Invalidate()
	return w.ExportYear(ctx, w.now().Year())
}

// ExportYear builds and exports the snapshot for year.
func (w *ExportWorker) ExportYear(ctx context.Context, year int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := w.now()
	snap, err := w.source.Snapshot(ctx, dashboard.Query{Year: year, Mode: dashboard.ModeYear})
	if err != nil {
		return fmt.Errorf("build snapshot for %d: %w", year, err)
	}
	if snap.Seeded {
		// Seed objectives are placeholders, not user data.
		snap.Objectives = nil
		snap.SavingsGoal = 0
	}
	if err := w.exporter.Export(ctx, snap); err != nil {
		return fmt.Errorf("export snapshot for %d: %w", year, err)
	}

	w.logger.InfoContext(ctx, "Snapshot exported",
		log.FieldYear, year,
		"objectives", len(snap.Objectives),
		log.FieldDuration, w.now().Sub(start).Milliseconds())
	return nil
}
