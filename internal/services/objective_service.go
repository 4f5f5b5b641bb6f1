package services

import (
	"context"
	"errors"
	"fmt"

	"director/internal/amqp"
	"director/internal/core"
	"director/internal/log"
	"director/internal/okr"
	"director/internal/records"
)

var ErrKeyResultNotFound = errors.New("key result not found")

type ObjectiveStore interface {
	records.ObjectiveLister
	records.ObjectiveWriter
	records.Resetter
}

type ObjectiveService struct {
	store ObjectiveStore
	notifier
}

func NewObjectiveService(store ObjectiveStore, pub Publisher, inv Invalidator) *ObjectiveService {
	return &ObjectiveService{
		store: store,
		notifier: notifier{
			publisher:   pub,
			invalidator: inv,
			logger:      log.Default().WithComponent(log.ComponentObjectives),
		},
	}
}

// List returns stored objectives with progress recomputed. When nothing is
// stored the seed objectives are returned and seeded is true.
func (s *ObjectiveService) List(ctx context.Context) (objs []core.Objective, seeded bool, err error) {
	objs, err = s.store.ListObjectives(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("list objectives: %w", err)
	}
	if len(objs) == 0 {
		return okr.RefreshAll(core.SeedObjectives()), true, nil
	}
	return okr.RefreshAll(objs), false, nil
}

// Save recomputes progress and upserts o. Status and Completed flags are
// stored exactly as given.
func (s *ObjectiveService) Save(ctx context.Context, o core.Objective) (core.Objective, error) {
	if err := o.Validate(); err != nil {
		return core.Objective{}, err
	}
	saved, err := s.store.SaveObjective(ctx, okr.Refresh(o))
	if err != nil {
		return core.Objective{}, fmt.Errorf("save objective: %w", err)
	}

	s.logger.InfoContext(ctx, "Objective saved",
		log.NewFields().WithObjective(saved.ID, saved.Progress, len(saved.KeyResults)).ToSlice()...)
	s.changed(ctx, amqp.ObjectiveSaved, saved.ID)
	return saved, nil
}

// UpdateKeyResult sets the current value of one key result and saves the
// objective with refreshed progress. Seed objectives are materialised on
// their first edit while the store is still empty.
func (s *ObjectiveService) UpdateKeyResult(ctx context.Context, objectiveID, keyResultID string, current float64) (core.Objective, error) {
	o, err := s.load(ctx, objectiveID)
	if err != nil {
		return core.Objective{}, err
	}

	found := false
	for i := range o.KeyResults {
		if o.KeyResults[i].ID == keyResultID {
			o.KeyResults[i].CurrentValue = current
			found = true
			break
		}
	}
	if !found {
		return core.Objective{}, fmt.Errorf("objective %s: %w", objectiveID, ErrKeyResultNotFound)
	}
	return s.Save(ctx, o)
}

func (s *ObjectiveService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteObjective(ctx, id); err != nil {
		return fmt.Errorf("delete objective %s: %w", id, err)
	}
	s.logger.InfoContext(ctx, "Objective deleted", log.FieldRecordID, id)
	s.changed(ctx, amqp.ObjectiveDeleted, id)
	return nil
}

// Reset wipes every transaction and objective.
func (s *ObjectiveService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	s.logger.WarnContext(ctx, "All records reset")
	s.changed(ctx, amqp.RecordsReset, "")
	return nil
}

func (s *ObjectiveService) load(ctx context.Context, id string) (core.Objective, error) {
	o, err := s.store.GetObjective(ctx, id)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, records.ErrNotFound) {
		return core.Objective{}, fmt.Errorf("get objective %s: %w", id, err)
	}

	stored, lerr := s.store.ListObjectives(ctx)
	if lerr != nil {
		return core.Objective{}, fmt.Errorf("list objectives: %w", lerr)
	}
	if len(stored) > 0 {
		return core.Objective{}, err
	}
	for _, seed := range core.SeedObjectives() {
		if seed.ID == id {
			return seed, nil
		}
	}
	return core.Objective{}, err
}
