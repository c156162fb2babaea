package repositories

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivelabs/hivesync/internal/models"
)

func newTestStatusRepo(t *testing.T) *RedisSyncStatusRepository {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSyncStatusRepository(client)
}

func TestStatusRepository_SetAndGet(t *testing.T) {
	repo := newTestStatusRepo(t)
	ctx := context.Background()

	status := &models.SyncStatus{
		Model:     "users",
		Operation: models.OpCreate,
		RecordID:  "u1",
	}
	err := repo.SetStatus(ctx, status)
	require.NoError(t, err)
	assert.False(t, status.AppliedAt.IsZero(), "SetStatus should stamp AppliedAt")

	got, err := repo.GetStatus(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "users", got.Model)
	assert.Equal(t, models.OpCreate, got.Operation)
	assert.Equal(t, "u1", got.RecordID)
	assert.False(t, got.AppliedAt.IsZero())
}

func TestStatusRepository_GetMissing(t *testing.T) {
	repo := newTestStatusRepo(t)

	_, err := repo.GetStatus(context.Background(), "posts")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatusRepository_Overwrite(t *testing.T) {
	repo := newTestStatusRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetStatus(ctx, &models.SyncStatus{
		Model: "users", Operation: models.OpCreate, RecordID: "u1",
	}))
	require.NoError(t, repo.SetStatus(ctx, &models.SyncStatus{
		Model: "users", Operation: models.OpDelete, RecordID: "u2",
	}))

	got, err := repo.GetStatus(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, models.OpDelete, got.Operation)
	assert.Equal(t, "u2", got.RecordID)
}
