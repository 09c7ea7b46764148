// Package review runs the per-item review workflow: due-item selection and
// the read-modify-write of ReviewState around the SM-2 scheduler.
package review

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type reviewStateRepo interface {
	Get(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error)
	GetForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error)
	Put(ctx context.Context, state domain.ReviewState) error
	QueryDue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewState, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
}

type vocabularyRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.VocabularyItem, error)
}

type progressTracker interface {
	RecordReview(ctx context.Context, correct bool) (domain.AggregateStats, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type reviewObserver interface {
	ObserveReview(path string, correct bool, intervalDays int)
	ObserveDue(n int)
	ObserveAnomaly()
}

// Review paths reported to the observer.
const (
	PathGraded = "graded"
	PathBinary = "binary"
)

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the review queue and the review write path.
type Service struct {
	states   reviewStateRepo
	items    vocabularyRepo
	progress progressTracker
	tx       txManager
	observer reviewObserver
	clock    clockwork.Clock
	params   scheduler.Parameters
	locks    *keyLock
	log      *slog.Logger
}

// NewService creates a new review Service. observer may be nil.
func NewService(
	log *slog.Logger,
	states reviewStateRepo,
	items vocabularyRepo,
	progress progressTracker,
	tx txManager,
	observer reviewObserver,
	clock clockwork.Clock,
	params scheduler.Parameters,
) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		states:   states,
		items:    items,
		progress: progress,
		tx:       tx,
		observer: observer,
		clock:    clock,
		params:   params,
		locks:    newKeyLock(),
		log:      log.With("service", "review"),
	}
}
