// Package reviewstate implements the ReviewState repository using PostgreSQL.
package reviewstate

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/lexitrack/internal/adapter/postgres"
	"github.com/heartmarshall/lexitrack/internal/domain"
)

const table = "review_states"

var columns = []string{"word_id", "correct_count", "incorrect_count", "last_reviewed", "next_review", "ease_factor"}

const getSQL = `
SELECT word_id, correct_count, incorrect_count, last_reviewed, next_review, ease_factor
FROM review_states
WHERE word_id = $1`

const countDueSQL = `SELECT count(*) FROM review_states WHERE next_review <= $1`

// Repo provides review state persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review state repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns the state for wordID or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	return r.get(ctx, getSQL, wordID)
}

// GetForUpdate is Get with a row lock held until the surrounding
// transaction ends. Outside a transaction it behaves like Get.
func (r *Repo) GetForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	return r.get(ctx, getSQL+"\nFOR UPDATE", wordID)
}

func (r *Repo) get(ctx context.Context, query string, wordID uuid.UUID) (*domain.ReviewState, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanState(querier.QueryRow(ctx, query, wordID))
	if err != nil {
		return nil, postgres.MapError(err, "review_state", wordID)
	}
	return &s, nil
}

// QueryDue returns states with next_review <= now, earliest first, ties by word id.
func (r *Repo) QueryDue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewState, error) {
	q := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.LtOrEq{"next_review": now.UTC()}).
		OrderBy("next_review ASC", "word_id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query due: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query due: %w", err)
	}
	defer rows.Close()

	states := []domain.ReviewState{}
	for rows.Next() {
		s, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review states: %w", err)
	}

	return states, nil
}

// CountDue returns the number of states with next_review <= now.
func (r *Repo) CountDue(ctx context.Context, now time.Time) (int, error) {
	var count int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countDueSQL, now.UTC()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Put inserts or replaces the state. A missing vocabulary item yields
// domain.ErrNotFound.
func (r *Repo) Put(ctx context.Context, s domain.ReviewState) error {
	var lastReviewed *time.Time
	if s.Reviewed() {
		t := s.LastReviewed.UTC().Truncate(time.Microsecond)
		lastReviewed = &t
	}

	query, args, err := postgres.Builder().
		Insert(table).
		Columns(columns...).
		Values(s.WordID, s.CorrectCount, s.IncorrectCount, lastReviewed,
			s.NextReview.UTC().Truncate(time.Microsecond), s.EaseFactor).
		Suffix(`ON CONFLICT (word_id) DO UPDATE SET
			correct_count = EXCLUDED.correct_count,
			incorrect_count = EXCLUDED.incorrect_count,
			last_reviewed = EXCLUDED.last_reviewed,
			next_review = EXCLUDED.next_review,
			ease_factor = EXCLUDED.ease_factor`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build put review state: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "review_state", s.WordID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanState(row pgx.Row) (domain.ReviewState, error) {
	var (
		s            domain.ReviewState
		lastReviewed *time.Time
	)
	if err := row.Scan(&s.WordID, &s.CorrectCount, &s.IncorrectCount, &lastReviewed, &s.NextReview, &s.EaseFactor); err != nil {
		return domain.ReviewState{}, err
	}
	if lastReviewed != nil {
		s.LastReviewed = lastReviewed.UTC()
	}
	s.NextReview = s.NextReview.UTC()
	return s, nil
}
