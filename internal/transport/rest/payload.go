package rest

import (
	"time"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

const dateLayout = "2006-01-02"

type reviewStateResponse struct {
	ItemID         string     `json:"item_id"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastReviewed   *time.Time `json:"last_reviewed"`
	NextReview     time.Time  `json:"next_review"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Mastered       bool       `json:"mastered"`
}

func toReviewState(s domain.ReviewState) reviewStateResponse {
	resp := reviewStateResponse{
		ItemID:         s.WordID.String(),
		CorrectCount:   s.CorrectCount,
		IncorrectCount: s.IncorrectCount,
		NextReview:     s.NextReview.UTC(),
		EaseFactor:     s.EaseFactor,
	}
	if s.Reviewed() {
		t := s.LastReviewed.UTC()
		resp.LastReviewed = &t
		resp.IntervalDays = scheduler.PreviousInterval(s)
		resp.Mastered = scheduler.IsMastered(s)
	}
	return resp
}

type scheduleResponse struct {
	ItemID       string    `json:"item_id"`
	NextReview   time.Time `json:"next_review"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
}

type itemResponse struct {
	ID              string   `json:"id"`
	Word            string   `json:"word"`
	Transliteration string   `json:"transliteration"`
	Translation     string   `json:"translation"`
	Difficulty      string   `json:"difficulty"`
	Tags            []string `json:"tags"`
	Examples        []string `json:"examples"`
	Etymology       *string  `json:"etymology,omitempty"`
	AudioURL        *string  `json:"audio_url,omitempty"`
}

func toItem(v domain.VocabularyItem) itemResponse {
	return itemResponse{
		ID:              v.ID.String(),
		Word:            v.Word,
		Transliteration: v.Transliteration,
		Translation:     v.Translation,
		Difficulty:      v.Difficulty.String(),
		Tags:            nonNil(v.Tags),
		Examples:        nonNil(v.Examples),
		Etymology:       v.Etymology,
		AudioURL:        v.AudioURL,
	}
}

type dueResponse struct {
	Items []itemResponse `json:"items"`
	Count int            `json:"count"`
}

type statsResponse struct {
	ReviewsToday      int     `json:"reviews_today"`
	ReviewsTotal      int     `json:"reviews_total"`
	CorrectAnswers    int     `json:"correct_answers"`
	IncorrectAnswers  int     `json:"incorrect_answers"`
	Accuracy          float64 `json:"accuracy"`
	StreakDays        int     `json:"streak_days"`
	LastReviewDate    *string `json:"last_review_date"`
	LearnedWordsCount int     `json:"learned_words_count"`
	DueCount          int     `json:"due_count"`
}

func toStats(s domain.AggregateStats, due int) statsResponse {
	resp := statsResponse{
		ReviewsToday:      s.ReviewsToday,
		ReviewsTotal:      s.ReviewsTotal,
		CorrectAnswers:    s.CorrectAnswers,
		IncorrectAnswers:  s.IncorrectAnswers,
		Accuracy:          s.Accuracy(),
		StreakDays:        s.StreakDays,
		LearnedWordsCount: s.LearnedWordsCount,
		DueCount:          due,
	}
	if !s.LastReviewDate.IsZero() {
		d := s.LastReviewDate.Format(dateLayout)
		resp.LastReviewDate = &d
	}
	return resp
}

type historyEntryResponse struct {
	Date         string `json:"date"`
	ReviewCount  int    `json:"review_count"`
	CorrectCount int    `json:"correct_count"`
}

type historyResponse struct {
	Days []historyEntryResponse `json:"days"`
}

func toHistory(entries []domain.DailyProgressEntry) historyResponse {
	resp := historyResponse{Days: make([]historyEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Days = append(resp.Days, historyEntryResponse{
			Date:         e.Date.Format(dateLayout),
			ReviewCount:  e.ReviewCount,
			CorrectCount: e.CorrectCount,
		})
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
