package domain

import "time"

// HistoryRetentionDays is the number of distinct days kept in the daily
// progress history.
const HistoryRetentionDays = 30

// DateLayout is the serialized form of calendar dates (ISO 8601 date).
const DateLayout = "2006-01-02"

// AggregateStats is the single process-wide statistics record.
// LastReviewDate is a calendar date at midnight UTC; zero means no review yet.
type AggregateStats struct {
	ReviewsToday      int
	ReviewsTotal      int
	CorrectAnswers    int
	IncorrectAnswers  int
	StreakDays        int
	LastReviewDate    time.Time
	LearnedWordsCount int
}

// Accuracy returns the share of correct answers in percent.
func (s AggregateStats) Accuracy() float64 {
	total := s.CorrectAnswers + s.IncorrectAnswers
	if total == 0 {
		return 0
	}
	return float64(s.CorrectAnswers) / float64(total) * 100
}

// DailyProgressEntry aggregates reviews for one calendar day.
type DailyProgressEntry struct {
	Date         time.Time
	ReviewCount  int
	CorrectCount int
}

// Date truncates t to its calendar date in loc and returns that date as
// midnight UTC, so dates compare equal regardless of the source zone.
func Date(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
