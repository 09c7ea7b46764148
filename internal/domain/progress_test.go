package domain

import (
	"testing"
	"time"
)

func TestDate_TruncatesInLocation(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	// 2024-03-10 20:00 UTC is already 2024-03-11 in Tokyo.
	ts := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	if got, want := Date(ts, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("UTC date = %v, want %v", got, want)
	}
	if got, want := Date(ts, tokyo), time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("JST date = %v, want %v", got, want)
	}
}

func TestAggregateStats_Accuracy(t *testing.T) {
	t.Parallel()

	if got := (AggregateStats{}).Accuracy(); got != 0 {
		t.Errorf("empty accuracy = %v, want 0", got)
	}
	s := AggregateStats{CorrectAnswers: 3, IncorrectAnswers: 1}
	if got := s.Accuracy(); got != 75 {
		t.Errorf("accuracy = %v, want 75", got)
	}
}
