// Package scheduler implements the SM-2 derived review scheduler.
//
// Two update rules coexist: Schedule applies a graded 0..5 recall quality,
// ApplyOutcome applies a plain correct/incorrect signal. Callers pick the
// rule matching the signal they have; the two are not interchangeable.
//
// Every function here is pure. No DB, no context, no logger; "now" is an
// argument so callers can inject a clock.
package scheduler

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// Quality is the learner's self-reported recall strength (0..5).
type Quality = float64

const (
	QualityBlackout          Quality = 0
	QualityIncorrect         Quality = 1
	QualityIncorrectFamiliar Quality = 2
	QualityCorrectDifficult  Quality = 3
	QualityCorrectHesitation Quality = 4
	QualityPerfect           Quality = 5
)

// PassThreshold is the lowest quality counted as a successful recall.
const PassThreshold = QualityCorrectDifficult

const (
	day = 24 * time.Hour

	// failedOutcomeDelay is how soon an item comes back after an incorrect
	// binary outcome.
	failedOutcomeDelay = time.Hour

	masteredMinCorrect  = 5
	masteredMinInterval = 21
)

// Parameters holds the ease factor bounds.
type Parameters struct {
	DefaultEase float64
	MinEase     float64
	MaxEase     float64
}

// DefaultParameters returns the standard SM-2 bounds [1.3, 3.0] with a
// starting ease of 2.5.
func DefaultParameters() Parameters {
	return Parameters{
		DefaultEase: domain.DefaultEaseFactor,
		MinEase:     domain.MinEaseFactor,
		MaxEase:     domain.MaxEaseFactor,
	}
}

// Result is the outcome of a graded review.
type Result struct {
	NextReview   time.Time
	EaseFactor   float64
	IntervalDays int
}

// Schedule computes the next review for a graded recall. prev == nil, or a
// state that was never reviewed, is treated as the first review.
// Quality outside [0,5] is clamped, not rejected.
func Schedule(params Parameters, prev *domain.ReviewState, quality Quality, now time.Time) Result {
	q := ClampQuality(quality)

	if prev == nil || !prev.Reviewed() {
		interval := firstInterval(q)
		return Result{
			NextReview:   now.Add(time.Duration(interval) * day),
			EaseFactor:   params.DefaultEase,
			IntervalDays: interval,
		}
	}

	ease := NextEase(params, prev.EaseFactor, q)

	var interval int
	if q < PassThreshold {
		// Failed recall resets to daily review regardless of history.
		interval = 1
	} else {
		// A zero-length previous gap is treated like a one-day gap.
		previous := PreviousInterval(*prev)
		if previous <= 1 {
			interval = 6
		} else {
			interval = int(math.Round(float64(previous) * ease))
		}
	}
	interval = max(1, interval)

	return Result{
		NextReview:   now.Add(time.Duration(interval) * day),
		EaseFactor:   ease,
		IntervalDays: interval,
	}
}

// Apply folds a graded review into state and returns the state to persist.
// Quality >= PassThreshold counts as a correct answer.
func Apply(params Parameters, prev *domain.ReviewState, wordID uuid.UUID, quality Quality, now time.Time) (domain.ReviewState, Result) {
	res := Schedule(params, prev, quality, now)

	next := domain.NewReviewState(wordID)
	if prev != nil {
		next = *prev
	}
	if ClampQuality(quality) >= PassThreshold {
		next.CorrectCount++
	} else {
		next.IncorrectCount++
	}
	next.LastReviewed = now
	next.NextReview = res.NextReview
	next.EaseFactor = res.EaseFactor

	return next, res
}

// ApplyOutcome is the coarse binary update rule.
//
//   - correct: CorrectCount+1, ease+0.1 (capped), due in
//     round(CorrectCount * ease) days.
//   - incorrect: IncorrectCount+1, ease-0.2 (floored), due in one hour.
func ApplyOutcome(params Parameters, prev *domain.ReviewState, wordID uuid.UUID, correct bool, now time.Time) domain.ReviewState {
	next := domain.NewReviewState(wordID)
	if prev != nil {
		next = *prev
	}
	if next.EaseFactor == 0 {
		next.EaseFactor = params.DefaultEase
	}

	if correct {
		next.CorrectCount++
		next.EaseFactor = math.Min(next.EaseFactor+0.1, params.MaxEase)
		days := int(math.Round(float64(next.CorrectCount) * next.EaseFactor))
		next.NextReview = now.Add(time.Duration(days) * day)
	} else {
		next.IncorrectCount++
		next.EaseFactor = math.Max(next.EaseFactor-0.2, params.MinEase)
		next.NextReview = now.Add(failedOutcomeDelay)
	}
	next.LastReviewed = now

	return next
}

// NextEase applies the SM-2 ease adjustment and clamps the result.
func NextEase(params Parameters, ease float64, quality Quality) float64 {
	d := 5 - quality
	return clamp(ease+(0.1-d*(0.08+d*0.02)), params.MinEase, params.MaxEase)
}

// PreviousInterval returns the last scheduled gap in whole days, rounded up.
func PreviousInterval(s domain.ReviewState) int {
	gap := s.NextReview.Sub(s.LastReviewed)
	if gap <= 0 {
		return 0
	}
	return int(math.Ceil(gap.Hours() / 24))
}

// IsMastered reports whether an item has settled into long intervals.
func IsMastered(s domain.ReviewState) bool {
	return s.CorrectCount >= masteredMinCorrect && PreviousInterval(s) >= masteredMinInterval
}

// ClampQuality limits quality to [0,5]. NaN is treated as a blackout.
func ClampQuality(q Quality) Quality {
	if math.IsNaN(q) {
		return QualityBlackout
	}
	return clamp(q, QualityBlackout, QualityPerfect)
}

func firstInterval(q Quality) int {
	switch {
	case q >= QualityCorrectHesitation:
		return 3
	case q >= QualityCorrectDifficult:
		return 2
	default:
		return 1
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
