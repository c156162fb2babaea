package models

import "time"

// SyncStatus records the most recent successfully applied message for a
// model. It lives in Redis with a TTL and is purely observational.
type SyncStatus struct {
	Model     string    `json:"model"`
	Operation Operation `json:"operation"`
	RecordID  string    `json:"record_id"`
	AppliedAt time.Time `json:"applied_at"`
}
