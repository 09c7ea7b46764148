package progress

import (
	"sort"
	"time"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// record is everything the tracker persists.
type record struct {
	Stats   domain.AggregateStats
	History []domain.DailyProgressEntry
}

// foldReview applies one review outcome on calendar date today.
// Pure: the caller supplies the date and the vocabulary size.
func foldReview(prev record, correct bool, today time.Time, totalWords int) record {
	next := record{
		Stats:   prev.Stats,
		History: upsertHistory(prev.History, today, correct),
	}
	s := &next.Stats

	if isNewDay(s.LastReviewDate, today) {
		if s.LastReviewDate.Equal(today.AddDate(0, 0, -1)) {
			s.StreakDays++
		} else {
			s.StreakDays = 1
		}
		s.ReviewsToday = 1
	} else {
		s.ReviewsToday++
	}

	if correct {
		s.CorrectAnswers++
	} else {
		s.IncorrectAnswers++
	}
	s.ReviewsTotal++
	s.LastReviewDate = today
	s.LearnedWordsCount = learnedWords(s.CorrectAnswers, totalWords)

	return next
}

// learnedWords is a coarse mastery proxy: every three correct answers,
// wherever they were given, count as one learned word.
func learnedWords(correctAnswers, totalWords int) int {
	return max(0, min(totalWords, correctAnswers/3))
}

func isNewDay(last, today time.Time) bool {
	return last.IsZero() || !last.Equal(today)
}

// upsertHistory bumps today's entry and keeps the most recent
// domain.HistoryRetentionDays distinct days, sorted newest first.
func upsertHistory(history []domain.DailyProgressEntry, today time.Time, correct bool) []domain.DailyProgressEntry {
	out := make([]domain.DailyProgressEntry, 0, len(history)+1)
	found := false

	for _, e := range history {
		if e.Date.Equal(today) {
			if found {
				// Duplicate dates are merged into the first occurrence below.
				continue
			}
			found = true
			e.ReviewCount++
			if correct {
				e.CorrectCount++
			}
		}
		out = append(out, e)
	}

	if !found {
		entry := domain.DailyProgressEntry{Date: today, ReviewCount: 1}
		if correct {
			entry.CorrectCount = 1
		}
		out = append(out, entry)
	}

	return trimHistory(out)
}

func trimHistory(history []domain.DailyProgressEntry) []domain.DailyProgressEntry {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	if len(history) > domain.HistoryRetentionDays {
		history = history[:domain.HistoryRetentionDays]
	}
	return history
}

// forDisplay hides counters that belong to a day that is already over:
// ReviewsToday is 0 unless the last review happened today, and the streak
// is 0 once a full calendar day has passed without a review.
func forDisplay(s domain.AggregateStats, today time.Time) domain.AggregateStats {
	if s.LastReviewDate.IsZero() {
		s.ReviewsToday = 0
		s.StreakDays = 0
		return s
	}
	if s.LastReviewDate.Before(today) {
		s.ReviewsToday = 0
	}
	if s.LastReviewDate.Before(today.AddDate(0, 0, -1)) {
		s.StreakDays = 0
	}
	return s
}
