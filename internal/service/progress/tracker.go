package progress

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// RecordReview folds one review outcome into the aggregate statistics and
// today's history entry, persists both atomically and returns the new stats.
// Called inside a caller's transaction it joins that transaction, and the
// aggregate record stays locked until the caller commits or rolls back.
func (t *Tracker) RecordReview(ctx context.Context, correct bool) (domain.AggregateStats, error) {
	today := t.today()

	var next record
	err := t.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := t.settings.LockForUpdate(txCtx); err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		totalWords, err := t.vocabulary.Count(txCtx)
		if err != nil {
			return fmt.Errorf("count vocabulary: %w", err)
		}

		prev, err := t.load(txCtx)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		if prev.Stats.LastReviewDate.After(today) {
			t.log.WarnContext(ctx, "last review date is in the future, restarting streak",
				slog.Time("last_review_date", prev.Stats.LastReviewDate),
				slog.Time("today", today),
			)
		}

		next = foldReview(prev, correct, today, totalWords)

		if err := t.save(txCtx, next); err != nil {
			return fmt.Errorf("save stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.AggregateStats{}, fmt.Errorf("track review: %w", err)
	}

	if t.observer != nil {
		t.observer.ObserveStats(next.Stats)
	}

	t.log.InfoContext(ctx, "review tracked",
		slog.Bool("correct", correct),
		slog.Int("reviews_today", next.Stats.ReviewsToday),
		slog.Int("reviews_total", next.Stats.ReviewsTotal),
		slog.Int("streak", next.Stats.StreakDays),
	)

	return next.Stats, nil
}

// GetStats returns the aggregate statistics as of now. Read-only.
func (t *Tracker) GetStats(ctx context.Context) (domain.AggregateStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.load(ctx)
	if err != nil {
		return domain.AggregateStats{}, fmt.Errorf("load stats: %w", err)
	}

	return forDisplay(rec.Stats, t.today()), nil
}

// GetDailyHistory returns up to input.Days most recent history entries,
// newest first.
func (t *Tracker) GetDailyHistory(ctx context.Context, input GetHistoryInput) ([]domain.DailyProgressEntry, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	history := rec.History
	if len(history) > input.Days {
		history = history[:input.Days]
	}
	return history, nil
}

// ResetStats removes every aggregate key and the daily history.
func (t *Tracker) ResetStats(ctx context.Context) error {
	err := t.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := t.settings.LockForUpdate(txCtx); err != nil {
			return fmt.Errorf("lock stats: %w", err)
		}

		t.mu.Lock()
		defer t.mu.Unlock()

		for _, key := range domain.StatsKeys {
			if err := t.settings.Delete(txCtx, key); err != nil {
				return fmt.Errorf("delete setting %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset stats: %w", err)
	}

	t.log.InfoContext(ctx, "stats reset")
	return nil
}
