package repositories

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getTestPool connects to the database named by TEST_DATABASE_URL. Tests
// are skipped when it is not set so the suite runs without infrastructure.
func getTestPool(t *testing.T) *pgxpool.Pool {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres repository tests")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(pool.Close)
	return pool
}

// setupTestTable creates a throwaway sync table and returns its name.
func setupTestTable(t *testing.T, ctx context.Context, pool *pgxpool.Pool) string {
	table := fmt.Sprintf("hivesync_test_%d", time.Now().UnixNano())
	_, err := pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		record_id TEXT NOT NULL UNIQUE,
		data JSONB NOT NULL DEFAULT '{}'::jsonb,
		synced_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`, table))
	require.NoError(t, err, "Failed to create test table")

	t.Cleanup(func() {
		pool.Exec(context.Background(), fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
	})
	return table
}

func TestRecordRepository_Upsert_Create(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRecordRepository(pool, setupTestTable(t, ctx, pool))

	record, err := repo.Upsert(ctx, "u1", map[string]any{"email": "a@x.com", "name": "A"})
	require.NoError(t, err)

	assert.Equal(t, "u1", record.RecordID)
	assert.Equal(t, "a@x.com", record.Data["email"])
	assert.False(t, record.CreatedAt.IsZero())
	assert.Nil(t, record.UpdatedAt, "fresh insert should have no updated_at")
}

func TestRecordRepository_Upsert_Idempotent(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRecordRepository(pool, setupTestTable(t, ctx, pool))

	first, err := repo.Upsert(ctx, "u1", map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	// Replaying the identical message must not create a second row
	second, err := repo.Upsert(ctx, "u1", map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "replay must hit the same row")
	assert.Equal(t, "a@x.com", second.Data["email"])
}

func TestRecordRepository_Upsert_PatchesFields(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRecordRepository(pool, setupTestTable(t, ctx, pool))

	_, err := repo.Upsert(ctx, "u1", map[string]any{"email": "a@x.com", "name": "A"})
	require.NoError(t, err)

	// An update carrying only some fields patches them and keeps the rest
	record, err := repo.Upsert(ctx, "u1", map[string]any{"name": "B"})
	require.NoError(t, err)

	assert.Equal(t, "B", record.Data["name"])
	assert.Equal(t, "a@x.com", record.Data["email"])
	assert.NotNil(t, record.UpdatedAt)
}

func TestRecordRepository_Delete_Idempotent(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRecordRepository(pool, setupTestTable(t, ctx, pool))

	_, err := repo.Upsert(ctx, "u1", map[string]any{"email": "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u1"))

	_, err = repo.GetByRecordID(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent record is a success, not an error
	assert.NoError(t, repo.Delete(ctx, "u1"))
	assert.NoError(t, repo.Delete(ctx, "never-existed"))
}

func TestRecordRepository_GetByRecordID_Missing(t *testing.T) {
	pool := getTestPool(t)
	ctx := context.Background()
	repo := NewPostgresRecordRepository(pool, setupTestTable(t, ctx, pool))

	_, err := repo.GetByRecordID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
