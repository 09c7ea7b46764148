package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

// ScheduleReview applies a graded recall to the item's review state and
// forwards the outcome to the progress tracker, in one transaction: if the
// tracker fails nothing is persisted and the call can be retried.
func (s *Service) ScheduleReview(ctx context.Context, input ScheduleReviewInput) (scheduler.Result, error) {
	if err := input.Validate(); err != nil {
		return scheduler.Result{}, err
	}

	if err := s.requireItem(ctx, input.ItemID); err != nil {
		return scheduler.Result{}, err
	}

	unlock := s.locks.lock(input.ItemID)
	defer unlock()

	now := s.clock.Now()
	correct := scheduler.ClampQuality(input.Quality) >= scheduler.PassThreshold

	var (
		next domain.ReviewState
		res  scheduler.Result
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		prev, err := s.loadState(txCtx, input.ItemID)
		if err != nil {
			return err
		}

		next, res = scheduler.Apply(s.params, prev, input.ItemID, input.Quality, now)

		if err := s.states.Put(txCtx, next); err != nil {
			return fmt.Errorf("put review state: %w", err)
		}
		if _, err := s.progress.RecordReview(txCtx, correct); err != nil {
			return fmt.Errorf("record progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return scheduler.Result{}, fmt.Errorf("schedule review: %w", err)
	}

	s.log.InfoContext(ctx, "review scheduled",
		slog.String("item_id", input.ItemID.String()),
		slog.Float64("quality", input.Quality),
		slog.Int("interval_days", res.IntervalDays),
		slog.Float64("ease_factor", res.EaseFactor),
	)

	if s.observer != nil {
		s.observer.ObserveReview(PathGraded, correct, res.IntervalDays)
	}

	return res, nil
}

// RecordOutcome applies a binary correct/incorrect outcome to the item's
// review state and forwards it to the progress tracker in one transaction.
func (s *Service) RecordOutcome(ctx context.Context, input RecordOutcomeInput) (*domain.ReviewState, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireItem(ctx, input.ItemID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(input.ItemID)
	defer unlock()

	now := s.clock.Now()

	var next domain.ReviewState
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		prev, err := s.loadState(txCtx, input.ItemID)
		if err != nil {
			return err
		}

		next = scheduler.ApplyOutcome(s.params, prev, input.ItemID, input.Correct, now)

		if err := s.states.Put(txCtx, next); err != nil {
			return fmt.Errorf("put review state: %w", err)
		}
		if _, err := s.progress.RecordReview(txCtx, input.Correct); err != nil {
			return fmt.Errorf("record progress: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record outcome: %w", err)
	}

	interval := scheduler.PreviousInterval(next)

	s.log.InfoContext(ctx, "review outcome recorded",
		slog.String("item_id", input.ItemID.String()),
		slog.Bool("correct", input.Correct),
		slog.Time("next_review", next.NextReview),
		slog.Float64("ease_factor", next.EaseFactor),
	)

	if s.observer != nil {
		s.observer.ObserveReview(PathBinary, input.Correct, interval)
	}

	return &next, nil
}

// GetReviewState returns the stored review state for an item.
// Items that were never reviewed return domain.ErrNotFound.
func (s *Service) GetReviewState(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error) {
	if itemID == uuid.Nil {
		return nil, domain.NewValidationError("item_id", "required")
	}

	state, err := s.states.Get(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get review state: %w", err)
	}
	return state, nil
}

func (s *Service) requireItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return fmt.Errorf("get vocabulary item: %w", err)
	}
	return nil
}

// loadState reads the locked state for itemID. A missing state yields nil;
// an inconsistent one is reset to a fresh state that keeps its counters.
func (s *Service) loadState(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error) {
	prev, err := s.states.GetForUpdate(ctx, itemID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review state: %w", err)
	}

	if !prev.Consistent() {
		s.log.WarnContext(ctx, "resetting inconsistent review state",
			slog.String("item_id", itemID.String()),
			slog.Time("last_reviewed", prev.LastReviewed),
			slog.Time("next_review", prev.NextReview),
			slog.Float64("ease_factor", prev.EaseFactor),
			slog.String("error", domain.ErrStateInconsistency.Error()),
		)
		if s.observer != nil {
			s.observer.ObserveAnomaly()
		}

		healed := domain.NewReviewState(itemID)
		healed.CorrectCount = max(0, prev.CorrectCount)
		healed.IncorrectCount = max(0, prev.IncorrectCount)
		return &healed, nil
	}

	return prev, nil
}
