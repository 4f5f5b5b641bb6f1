package memory

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"director/internal/core"
	"director/internal/records"
)

var _ records.Store = (*Store)(nil)

type Store struct {
	mu   sync.Mutex
	txs  []core.Transaction
	objs []core.Objective
}

func New(txs []core.Transaction, objs []core.Objective) *Store {
	s := &Store{}
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.NewString()
		}
		s.txs = append(s.txs, tx)
	}
	for _, o := range objs {
		o = o.Clone()
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		s.objs = append(s.objs, o)
	}
	return s
}

// NewFromFiles seeds the store from transactions.json and objectives.json in
// base. Missing or malformed files leave the store empty.
func NewFromFiles(base string) *Store {
	var txs []core.Transaction
	var objs []core.Objective
	readJSON(filepath.Join(base, "transactions.json"), &txs)
	readJSON(filepath.Join(base, "objectives.json"), &objs)
	return New(txs, objs)
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.txs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

// CreateTransaction stores tx under a fresh ID.
func (s *Store) CreateTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	tx.ID = uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i:i], s.txs[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) ListObjectives(_ context.Context) ([]core.Objective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Objective, len(s.objs))
	for i, o := range s.objs {
		out[i] = o.Clone()
	}
	return out, nil
}

func (s *Store) GetObjective(_ context.Context, id string) (core.Objective, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.objs {
		if o.ID == id {
			return o.Clone(), nil
		}
	}
	return core.Objective{}, records.ErrNotFound
}

func (s *Store) SaveObjective(_ context.Context, o core.Objective) (core.Objective, error) {
	if err := o.Validate(); err != nil {
		return core.Objective{}, err
	}
	o = o.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID != "" {
		for i := range s.objs {
			if s.objs[i].ID == o.ID {
				s.objs[i] = o
				return o.Clone(), nil
			}
		}
	} else {
		o.ID = uuid.NewString()
	}
	s.objs = append(s.objs, o)
	return o.Clone(), nil
}

func (s *Store) DeleteObjective(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.objs {
		if o.ID == id {
			s.objs = append(s.objs[:i:i], s.objs[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = nil
	s.objs = nil
	return nil
}

func readJSON(path string, dst any) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(b, dst); err != nil {
		slog.Warn("Ignoring malformed seed file", "path", path, "error", err)
	}
}
