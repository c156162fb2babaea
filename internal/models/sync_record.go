package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRecord is a synchronized row at the target store. ID is the target's
// own primary key; RecordID is the durable foreign key back to the record in
// the originating store and is unique per model table.
type SyncRecord struct {
	ID        uuid.UUID      `json:"id"`
	RecordID  string         `json:"record_id"`
	Data      map[string]any `json:"data"`
	SyncedAt  time.Time      `json:"synced_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}
