package repositories

import (
	"context"

	"github.com/hivelabs/hivesync/internal/models"
)

// RecordRepository applies sync messages for one model to the target store.
// Upsert and Delete are idempotent: replaying a message leaves the store in
// the same state, and deleting an absent record is a success.
type RecordRepository interface {
	Upsert(ctx context.Context, recordID string, data map[string]any) (*models.SyncRecord, error)
	GetByRecordID(ctx context.Context, recordID string) (*models.SyncRecord, error)
	Delete(ctx context.Context, recordID string) error
}

// SyncStatusRepository tracks the most recently applied message per model.
type SyncStatusRepository interface {
	SetStatus(ctx context.Context, status *models.SyncStatus) error
	GetStatus(ctx context.Context, model string) (*models.SyncStatus, error)
}
