package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hivelabs/hivesync/internal/models"
)

var ErrNotFound = errors.New("not found")

// PostgresRecordRepository stores synchronized records for one model in a
// dedicated table. The table name comes from the model registry, never from
// request input.
type PostgresRecordRepository struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresRecordRepository(pool *pgxpool.Pool, table string) *PostgresRecordRepository {
	return &PostgresRecordRepository{pool: pool, table: table}
}

// Upsert inserts a new record keyed by recordID or patches the fields of an
// existing one. The whole operation is a single statement, so concurrent
// upserts for the same key serialize at the store and replays are no-ops.
func (r *PostgresRecordRepository) Upsert(ctx context.Context, recordID string, data map[string]any) (*models.SyncRecord, error) {
	if data == nil {
		data = map[string]any{}
	}

	query := fmt.Sprintf(`INSERT INTO %s (record_id, data, synced_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (record_id) DO UPDATE
	          SET data = %s.data || EXCLUDED.data,
	              synced_at = NOW(),
	              updated_at = NOW()
	          RETURNING id, record_id, data, synced_at, created_at, updated_at`, r.table, r.table)

	var record models.SyncRecord
	err := r.pool.QueryRow(ctx, query, recordID, data).Scan(
		&record.ID,
		&record.RecordID,
		&record.Data,
		&record.SyncedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert record: %w", err)
	}
	return &record, nil
}

func (r *PostgresRecordRepository) GetByRecordID(ctx context.Context, recordID string) (*models.SyncRecord, error) {
	query := fmt.Sprintf(`SELECT id, record_id, data, synced_at, created_at, updated_at
	          FROM %s
	          WHERE record_id = $1`, r.table)

	var record models.SyncRecord
	err := r.pool.QueryRow(ctx, query, recordID).Scan(
		&record.ID,
		&record.RecordID,
		&record.Data,
		&record.SyncedAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return &record, nil
}

// Delete removes the record keyed by recordID. Deleting a record that does
// not exist is a success, not an error.
func (r *PostgresRecordRepository) Delete(ctx context.Context, recordID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE record_id = $1`, r.table)

	if _, err := r.pool.Exec(ctx, query, recordID); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}
