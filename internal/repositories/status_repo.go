package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hivelabs/hivesync/internal/models"
)

const (
	statusKeyPrefix = "sync:status:"
	statusTTL       = 24 * time.Hour
)

// RedisSyncStatusRepository keeps the last applied message per model in
// Redis. The data is observational (status endpoint, health checks), so a
// bounded TTL is fine.
type RedisSyncStatusRepository struct {
	client *redis.Client
}

func NewRedisSyncStatusRepository(client *redis.Client) *RedisSyncStatusRepository {
	return &RedisSyncStatusRepository{client: client}
}

func (r *RedisSyncStatusRepository) SetStatus(ctx context.Context, status *models.SyncStatus) error {
	status.AppliedAt = time.Now()

	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal sync status: %w", err)
	}

	key := statusKey(status.Model)
	if err := r.client.Set(ctx, key, data, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to set sync status: %w", err)
	}

	return nil
}

func (r *RedisSyncStatusRepository) GetStatus(ctx context.Context, model string) (*models.SyncStatus, error) {
	key := statusKey(model)

	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	var status models.SyncStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync status: %w", err)
	}

	return &status, nil
}

// Helper: build Redis key for a model's sync status
func statusKey(model string) string {
	return statusKeyPrefix + model
}
