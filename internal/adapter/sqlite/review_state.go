package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

const selectStateSQL = `
SELECT word_id, correct_count, incorrect_count, last_reviewed, next_review, ease_factor
FROM review_states`

const putStateSQL = `
INSERT INTO review_states (word_id, correct_count, incorrect_count, last_reviewed, next_review, ease_factor)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (word_id) DO UPDATE SET
    correct_count = excluded.correct_count,
    incorrect_count = excluded.incorrect_count,
    last_reviewed = excluded.last_reviewed,
    next_review = excluded.next_review,
    ease_factor = excluded.ease_factor`

type stateRow struct {
	WordID         string       `db:"word_id"`
	CorrectCount   int          `db:"correct_count"`
	IncorrectCount int          `db:"incorrect_count"`
	LastReviewed   sql.NullTime `db:"last_reviewed"`
	NextReview     time.Time    `db:"next_review"`
	EaseFactor     float64      `db:"ease_factor"`
}

func (r stateRow) toDomain() (domain.ReviewState, error) {
	id, err := uuid.Parse(r.WordID)
	if err != nil {
		return domain.ReviewState{}, fmt.Errorf("parse word_id %q: %w", r.WordID, err)
	}
	s := domain.ReviewState{
		WordID:         id,
		CorrectCount:   r.CorrectCount,
		IncorrectCount: r.IncorrectCount,
		NextReview:     r.NextReview.UTC(),
		EaseFactor:     r.EaseFactor,
	}
	if r.LastReviewed.Valid {
		s.LastReviewed = r.LastReviewed.Time.UTC()
	}
	return s, nil
}

// ReviewStateRepo stores ReviewState rows.
type ReviewStateRepo struct {
	db *sqlx.DB
}

// Get returns the state for wordID or domain.ErrNotFound.
func (r *ReviewStateRepo) Get(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	var row stateRow
	if err := querierFromCtx(ctx, r.db).GetContext(ctx, &row, selectStateSQL+" WHERE word_id = ?", wordID.String()); err != nil {
		return nil, mapError(err, "review_state", wordID)
	}

	s, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetForUpdate is Get. Transactions take the database write lock up front
// (_txlock=immediate), so the row cannot change underneath the caller.
func (r *ReviewStateRepo) GetForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	return r.Get(ctx, wordID)
}

// Put inserts or replaces the state.
func (r *ReviewStateRepo) Put(ctx context.Context, s domain.ReviewState) error {
	var lastReviewed sql.NullTime
	if s.Reviewed() {
		lastReviewed = sql.NullTime{Time: s.LastReviewed.UTC(), Valid: true}
	}

	_, err := querierFromCtx(ctx, r.db).ExecContext(ctx, putStateSQL,
		s.WordID.String(), s.CorrectCount, s.IncorrectCount, lastReviewed, s.NextReview.UTC(), s.EaseFactor)
	if err != nil {
		return mapError(err, "review_state", s.WordID)
	}
	return nil
}

// QueryDue returns states with next_review <= now, earliest first, ties by word id.
func (r *ReviewStateRepo) QueryDue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewState, error) {
	q := sq.Select("word_id", "correct_count", "incorrect_count", "last_reviewed", "next_review", "ease_factor").
		From("review_states").
		Where(sq.LtOrEq{"next_review": now.UTC()}).
		OrderBy("next_review ASC", "word_id ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query due: %w", err)
	}

	var rows []stateRow
	if err := querierFromCtx(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query due: %w", err)
	}

	states := make([]domain.ReviewState, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

// CountDue returns the number of states with next_review <= now.
func (r *ReviewStateRepo) CountDue(ctx context.Context, now time.Time) (int, error) {
	var n int
	if err := querierFromCtx(ctx, r.db).GetContext(ctx, &n, `SELECT count(*) FROM review_states WHERE next_review <= ?`, now.UTC()); err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}
	return n, nil
}
