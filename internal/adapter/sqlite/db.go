// Package sqlite implements the record store on a local SQLite file using
// sqlx and mattn/go-sqlite3. It is the default single-profile store.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/lexitrack/migrations"
)

// Store groups the repositories that share one SQLite database.
type Store struct {
	ReviewStates *ReviewStateRepo
	Vocabulary   *VocabularyRepo
	Settings     *SettingRepo
	Tx           *TxManager

	db *sqlx.DB
}

// Option configures Open.
type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock sets the clock used for generated timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// Open connects to the database file at path, applies pending migrations
// and returns the ready store. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, log *slog.Logger, path string, opts ...Option) (*Store, error) {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}

	// SQLite has a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := migrate(ctx, log, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		ReviewStates: &ReviewStateRepo{db: db},
		Vocabulary:   &VocabularyRepo{db: db, clock: o.clock},
		Settings:     &SettingRepo{db: db, clock: o.clock},
		Tx:           &TxManager{db: db},
		db:           db,
	}, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() {
	_ = s.db.Close()
}

func dsn(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate"
}

func migrate(ctx context.Context, log *slog.Logger, db *sqlx.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, migrations.SQLite())
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	for _, r := range results {
		log.InfoContext(ctx, "migration applied",
			slog.String("store", "sqlite"),
			slog.Int64("version", r.Source.Version),
			slog.Duration("duration", r.Duration),
		)
	}
	return nil
}
