package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// ChangeKind names what happened to a record.
type ChangeKind string

const (
	TransactionCreated ChangeKind = "transaction.created"
	TransactionDeleted ChangeKind = "transaction.deleted"
	ObjectiveSaved     ChangeKind = "objective.saved"
	ObjectiveDeleted   ChangeKind = "objective.deleted"
	RecordsReset       ChangeKind = "records.reset"
)

func (k ChangeKind) IsValid() bool {
	switch k {
	case TransactionCreated, TransactionDeleted, ObjectiveSaved, ObjectiveDeleted, RecordsReset:
		return true
	default:
		return false
	}
}

// RecordChangedMessage announces a write. It carries no payload: consumers
// re-read the store.
type RecordChangedMessage struct {
	Kind      ChangeKind `json:"kind"`
	ID        string     `json:"id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewRecordChangedMessage(kind ChangeKind, id string) *RecordChangedMessage {
	return &RecordChangedMessage{
		Kind:      kind,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

func (m *RecordChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangedMessageFromJSON decodes and validates a message body.
func RecordChangedMessageFromJSON(data []byte) (*RecordChangedMessage, error) {
	var msg RecordChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if !msg.Kind.IsValid() {
		return nil, fmt.Errorf("unknown change kind %q", msg.Kind)
	}
	return &msg, nil
}
