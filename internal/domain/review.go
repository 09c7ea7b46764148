package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ease factor bounds shared by both scheduling paths.
const (
	DefaultEaseFactor = 2.5
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 3.0
)

// ReviewState is the per-item scheduling record (1:1 with VocabularyItem).
// A zero LastReviewed means the item has never been reviewed.
type ReviewState struct {
	WordID         uuid.UUID
	CorrectCount   int
	IncorrectCount int
	LastReviewed   time.Time
	NextReview     time.Time
	EaseFactor     float64
}

// NewReviewState returns the default state used when an item is reviewed
// for the first time.
func NewReviewState(wordID uuid.UUID) ReviewState {
	return ReviewState{
		WordID:     wordID,
		EaseFactor: DefaultEaseFactor,
	}
}

// Reviewed reports whether the item has at least one recorded review.
func (s *ReviewState) Reviewed() bool {
	return !s.LastReviewed.IsZero() && s.LastReviewed.Unix() != 0
}

// TotalReviews returns the number of reviews recorded for the item.
func (s *ReviewState) TotalReviews() int {
	return s.CorrectCount + s.IncorrectCount
}

// IsDue returns true if the item needs review at the given time.
func (s *ReviewState) IsDue(now time.Time) bool {
	return !s.NextReview.After(now)
}

// Consistent checks the persisted invariants: ease inside its clamp range,
// non-negative counters, and a due date not earlier than the last review.
func (s *ReviewState) Consistent() bool {
	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return false
	}
	if s.CorrectCount < 0 || s.IncorrectCount < 0 {
		return false
	}
	if s.Reviewed() && s.NextReview.Before(s.LastReviewed) {
		return false
	}
	return true
}
