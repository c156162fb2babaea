package models

import (
	"errors"
	"fmt"
	"time"
)

// Operation is the canonical mutation vocabulary. Legacy spellings such as
// add/set/remove are not accepted on the wire.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (op Operation) Valid() bool {
	switch op {
	case OpCreate, OpUpdate, OpDelete:
		return true
	}
	return false
}

var (
	ErrMissingModel     = errors.New("model is required")
	ErrMissingRecordID  = errors.New("recordId is required")
	ErrInvalidOperation = errors.New("operation must be one of create, update, delete")
)

// SyncMessage is the unit of transfer between Dispatcher and Receiver.
// RecordID is the sole correlation key between the source and target
// representations of an entity; Timestamp is advisory (logging only).
type SyncMessage struct {
	Model     string         `json:"model"`
	Operation Operation      `json:"operation"`
	Data      map[string]any `json:"data,omitempty"`
	RecordID  string         `json:"recordId"`
	Timestamp int64          `json:"timestamp,omitempty"`
}

// NewSyncMessage builds a message stamped with the current time in unix
// milliseconds.
func NewSyncMessage(model string, op Operation, recordID string, data map[string]any) SyncMessage {
	return SyncMessage{
		Model:     model,
		Operation: op,
		Data:      data,
		RecordID:  recordID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Validate checks the required fields. It does not consult the model
// allow-list; that is the receiver's registry concern.
func (m SyncMessage) Validate() error {
	if m.Model == "" {
		return ErrMissingModel
	}
	if !m.Operation.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidOperation, m.Operation)
	}
	if m.RecordID == "" {
		return ErrMissingRecordID
	}
	return nil
}

// BatchRecord is one entry of a batch message.
type BatchRecord struct {
	Data     map[string]any `json:"data,omitempty"`
	RecordID string         `json:"recordId"`
}

// BatchMessage carries an ordered sequence of records sharing one model and
// operation. Entries are applied independently at the receiver.
type BatchMessage struct {
	Model     string        `json:"model"`
	Operation Operation     `json:"operation"`
	Records   []BatchRecord `json:"records"`
}

// Validate checks the batch envelope, not the individual records. Per-record
// validation happens entry by entry so one malformed record cannot reject the
// whole batch.
func (b BatchMessage) Validate() error {
	if b.Model == "" {
		return ErrMissingModel
	}
	if !b.Operation.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidOperation, b.Operation)
	}
	return nil
}
