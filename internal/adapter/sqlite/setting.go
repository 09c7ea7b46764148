package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// SettingRepo is the key/value settings table.
type SettingRepo struct {
	db    *sqlx.DB
	clock clockwork.Clock
}

// Get returns the raw value for key or domain.ErrNotFound.
func (r *SettingRepo) Get(ctx context.Context, key domain.SettingKey) ([]byte, error) {
	var value string
	if err := querierFromCtx(ctx, r.db).GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, string(key)); err != nil {
		return nil, mapError(err, "setting", key)
	}
	return []byte(value), nil
}

// Put stores value under key.
func (r *SettingRepo) Put(ctx context.Context, key domain.SettingKey, value []byte) error {
	_, err := querierFromCtx(ctx, r.db).ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), string(value), r.clock.Now().UTC())
	if err != nil {
		return mapError(err, "setting", key)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SettingRepo) Delete(ctx context.Context, key domain.SettingKey) error {
	if _, err := querierFromCtx(ctx, r.db).ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, string(key)); err != nil {
		return mapError(err, "setting", key)
	}
	return nil
}

// LockForUpdate is a no-op: transactions begin IMMEDIATE, so an open write
// transaction already excludes every other writer.
func (r *SettingRepo) LockForUpdate(ctx context.Context) error {
	return ctx.Err()
}
