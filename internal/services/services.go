// Package services orchestrates writes: persist first, then invalidate the
// dashboard cache and announce the change on the message bus.
package services

import (
	"context"

	"director/internal/amqp"
	"director/internal/log"
)

// Publisher announces record changes. *amqp.Client satisfies it.
type Publisher interface {
	PublishRecordChanged(ctx context.Context, kind amqp.ChangeKind, id string) error
}

// Invalidator drops derived state after a write.
type Invalidator interface {
	Invalidate()
}

type notifier struct {
	publisher   Publisher
	invalidator Invalidator
	logger      *log.Logger
}

// changed runs after a successful write. Publish failures are logged and
// never surface to the caller: the record is already stored.
func (n notifier) changed(ctx context.Context, kind amqp.ChangeKind, id string) {
	if n.invalidator != nil {
		n.invalidator.Invalidate()
	}
	if n.publisher == nil {
		n.logger.DebugContext(ctx, "No publisher configured, skipping change event", "kind", kind, "id", id)
		return
	}
	if err := n.publisher.PublishRecordChanged(ctx, kind, id); err != nil {
		n.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldOperation, string(kind),
			log.FieldRecordID, id,
			log.FieldError, err)
	}
}
