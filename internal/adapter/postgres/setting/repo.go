// Package setting implements the key/value settings store using PostgreSQL.
// Values are stored as jsonb.
package setting

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lexitrack/internal/adapter/postgres"
	"github.com/heartmarshall/lexitrack/internal/domain"
)

const (
	getSQL = `SELECT value FROM settings WHERE key = $1`

	// aggregateLockKey identifies the aggregate statistics record among
	// transaction-scoped advisory locks.
	aggregateLockKey int64 = 0x6c78_7374_6174 // "lxstat"
	lockSQL                = `SELECT pg_advisory_xact_lock($1)`
)

// Repo provides settings persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Get returns the raw JSON value for key or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, key domain.SettingKey) ([]byte, error) {
	var value []byte
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, getSQL, string(key)).Scan(&value); err != nil {
		return nil, postgres.MapError(err, "setting", key)
	}
	return value, nil
}

// Put stores value under key. value must be valid JSON.
func (r *Repo) Put(ctx context.Context, key domain.SettingKey, value []byte) error {
	query, args, err := postgres.Builder().
		Insert("settings").
		Columns("key", "value", "updated_at").
		Values(string(key), string(value), sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build put setting: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "setting", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *Repo) Delete(ctx context.Context, key domain.SettingKey) error {
	query, args, err := postgres.Builder().
		Delete("settings").
		Where(sq.Eq{"key": string(key)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete setting: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "setting", key)
	}
	return nil
}

// LockForUpdate takes a transaction-scoped advisory lock on the aggregate
// record, released when the transaction in ctx commits or rolls back.
// Outside a transaction the lock is released as soon as the statement ends.
func (r *Repo) LockForUpdate(ctx context.Context) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, lockSQL, aggregateLockKey); err != nil {
		return fmt.Errorf("lock aggregate stats: %w", err)
	}
	return nil
}
