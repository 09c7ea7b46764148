package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/adapter/memory"
	"github.com/heartmarshall/lexitrack/internal/adapter/postgres"
	"github.com/heartmarshall/lexitrack/internal/adapter/postgres/reviewstate"
	"github.com/heartmarshall/lexitrack/internal/adapter/postgres/setting"
	"github.com/heartmarshall/lexitrack/internal/adapter/postgres/vocabulary"
	"github.com/heartmarshall/lexitrack/internal/adapter/sqlite"
	"github.com/heartmarshall/lexitrack/internal/config"
	"github.com/heartmarshall/lexitrack/internal/domain"
)

type reviewStateStore interface {
	Get(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error)
	GetForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error)
	Put(ctx context.Context, state domain.ReviewState) error
	QueryDue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewState, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
}

type vocabularyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.VocabularyItem, error)
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error)
}

type settingStore interface {
	Get(ctx context.Context, key domain.SettingKey) ([]byte, error)
	Put(ctx context.Context, key domain.SettingKey, value []byte) error
	Delete(ctx context.Context, key domain.SettingKey) error
	LockForUpdate(ctx context.Context) error
}

type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Store is the record store selected by configuration.
type Store struct {
	Driver       string
	ReviewStates reviewStateStore
	Vocabulary   vocabularyStore
	Settings     settingStore
	Tx           txRunner

	ping  func(ctx context.Context) error
	close func()
}

// Ping checks that the store is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the store's connections.
func (s *Store) Close() { s.close() }

// OpenStore connects to the configured store and applies pending migrations.
// clock stamps the timestamps the store generates; nil means the real clock.
func OpenStore(ctx context.Context, log *slog.Logger, cfg config.StoreConfig, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	switch cfg.Driver {
	case config.DriverMemory:
		m := memory.New(memory.WithClock(clock))
		return &Store{
			Driver:       cfg.Driver,
			ReviewStates: m.ReviewStates,
			Vocabulary:   m.Vocabulary,
			Settings:     m.Settings,
			Tx:           m.Tx,
			ping:         m.Ping,
			close:        m.Close,
		}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, log, cfg.SQLitePath, sqlite.WithClock(clock))
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:       cfg.Driver,
			ReviewStates: s.ReviewStates,
			Vocabulary:   s.Vocabulary,
			Settings:     s.Settings,
			Tx:           s.Tx,
			ping:         s.Ping,
			close:        s.Close,
		}, nil

	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, log, cfg.DSN); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Store{
			Driver:       cfg.Driver,
			ReviewStates: reviewstate.New(pool),
			Vocabulary:   vocabulary.New(pool, clock),
			Settings:     setting.New(pool),
			Tx:           postgres.NewTxManager(pool),
			ping:         pool.Ping,
			close:        pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
