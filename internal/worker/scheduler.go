package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"director/internal/log"
)

// Scheduler runs periodic full exports.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: log.Default().WithComponent(log.ComponentWorker),
	}
}

// Schedule registers a full export of the current year on spec, a standard
// five-field cron expression or a descriptor such as "@hourly" or "@every 15m".
func (s *Scheduler) Schedule(ctx context.Context, spec string, w *ExportWorker) error {
	_, err := s.cron.AddFunc(spec, func() {
		year := w.now().Year()
		s.logger.DebugContext(ctx, "Running scheduled export", log.FieldYear, year)
		if err := w.ExportYear(ctx, year); err != nil {
			s.logger.ErrorContext(ctx, "Scheduled export failed", log.FieldError, err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule export %q: %w", spec, err)
	}
	s.logger.InfoContext(ctx, "Export scheduled", "schedule", spec)
	return nil
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}
