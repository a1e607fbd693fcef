package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"portfolio-backend/internal/domain"
)

// KVRepository is the Postgres-backed content storage
type KVRepository struct {
	db    *pgxpool.Pool
	table string
}

// NewKVRepository stores every content key as one JSONB row of table.
func NewKVRepository(db *pgxpool.Pool, table string) *KVRepository {
	return &KVRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema creates the storage table when missing
func (r *KVRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, r.table)
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create storage table: %w", err)
	}
	return nil
}

func (r *KVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value::text FROM %s WHERE key = $1`, r.table)

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStorageKeyNotFound
		}
		return nil, err
	}
	return []byte(value), nil
}

// Save upserts the value. The payload is sent as text and cast so it also
// works through PgBouncer in simple-protocol mode.
func (r *KVRepository) Save(ctx context.Context, key string, data []byte) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, r.table)

	_, err := r.db.Exec(ctx, query, key, string(data))
	return err
}

func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT key FROM %s ORDER BY key`, r.table)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *KVRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

var _ domain.KVStorage = (*KVRepository)(nil)
