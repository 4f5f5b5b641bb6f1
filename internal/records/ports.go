package records

import (
	"context"
	"errors"

	"director/internal/core"
)

// ErrNotFound is returned when a record with the requested ID does not exist.
var ErrNotFound = errors.New("record not found")

// Ports for the record store. IDs are always assigned by the store.
type (
	TransactionLister interface {
		// ListTransactions returns every transaction, newest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, id string) error
	}

	ObjectiveLister interface {
		// ListObjectives returns objectives in creation order. The stored
		// Progress may be stale.
		ListObjectives(ctx context.Context) ([]core.Objective, error)
	}

	ObjectiveWriter interface {
		GetObjective(ctx context.Context, id string) (core.Objective, error)
		// SaveObjective inserts o when its ID is empty or unknown, and
		// replaces the stored objective otherwise.
		SaveObjective(ctx context.Context, o core.Objective) (core.Objective, error)
		DeleteObjective(ctx context.Context, id string) error
	}

	// Resetter wipes every transaction and objective.
	Resetter interface {
		Reset(ctx context.Context) error
	}

	// Store is the full record store used by the application.
	Store interface {
		TransactionLister
		TransactionWriter
		ObjectiveLister
		ObjectiveWriter
		Resetter
	}
)
