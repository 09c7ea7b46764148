package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type settingRepo interface {
	Get(ctx context.Context, key domain.SettingKey) ([]byte, error)
	Put(ctx context.Context, key domain.SettingKey, value []byte) error
	Delete(ctx context.Context, key domain.SettingKey) error
	// LockForUpdate blocks other writers of the aggregate record until the
	// surrounding transaction ends.
	LockForUpdate(ctx context.Context) error
}

type vocabularyCounter interface {
	Count(ctx context.Context) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type statsObserver interface {
	ObserveStats(stats domain.AggregateStats)
}

// ---------------------------------------------------------------------------
// Tracker
// ---------------------------------------------------------------------------

// Tracker folds review outcomes into the aggregate statistics record and the
// daily progress history. The aggregate record is shared: every update runs
// read-fold-write inside one store transaction, after taking the store's
// aggregate lock and then mu.
type Tracker struct {
	settings   settingRepo
	vocabulary vocabularyCounter
	tx         txManager
	observer   statsObserver
	clock      clockwork.Clock
	loc        *time.Location
	log        *slog.Logger

	mu sync.Mutex
}

// NewTracker creates a progress Tracker. Calendar days are computed in loc;
// a nil loc means UTC.
func NewTracker(
	log *slog.Logger,
	settings settingRepo,
	vocabulary vocabularyCounter,
	tx txManager,
	observer statsObserver,
	clock clockwork.Clock,
	loc *time.Location,
) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{
		settings:   settings,
		vocabulary: vocabulary,
		tx:         tx,
		observer:   observer,
		clock:      clock,
		loc:        loc,
		log:        log.With("service", "progress"),
	}
}

// today returns the current calendar date in the tracker's time zone.
func (t *Tracker) today() time.Time {
	return domain.Date(t.clock.Now(), t.loc)
}
