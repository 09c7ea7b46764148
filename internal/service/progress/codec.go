package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// historyEntryJSON is the persisted shape of one progressHistory element.
type historyEntryJSON struct {
	Date         string `json:"date"`
	ReviewCount  int    `json:"reviewCount"`
	CorrectCount int    `json:"correctCount"`
}

// load reads the aggregate record. Missing keys read as zero values;
// undecodable values are logged and also read as zero so a corrupted key
// cannot block review tracking.
func (t *Tracker) load(ctx context.Context) (record, error) {
	var rec record
	s := &rec.Stats

	ints := []struct {
		key domain.SettingKey
		dst *int
	}{
		{domain.SettingLearnedWordsCount, &s.LearnedWordsCount},
		{domain.SettingReviewsToday, &s.ReviewsToday},
		{domain.SettingReviewsTotal, &s.ReviewsTotal},
		{domain.SettingCorrectAnswers, &s.CorrectAnswers},
		{domain.SettingIncorrectAnswers, &s.IncorrectAnswers},
		{domain.SettingStreak, &s.StreakDays},
	}
	for _, f := range ints {
		if err := t.loadJSON(ctx, f.key, f.dst); err != nil {
			return record{}, err
		}
	}

	var lastDate string
	if err := t.loadJSON(ctx, domain.SettingLastReviewDate, &lastDate); err != nil {
		return record{}, err
	}
	s.LastReviewDate = t.parseDate(ctx, lastDate)

	var history []historyEntryJSON
	if err := t.loadJSON(ctx, domain.SettingProgressHistory, &history); err != nil {
		return record{}, err
	}
	rec.History = make([]domain.DailyProgressEntry, 0, len(history))
	for _, h := range history {
		date := t.parseDate(ctx, h.Date)
		if date.IsZero() {
			continue
		}
		rec.History = append(rec.History, domain.DailyProgressEntry{
			Date:         date,
			ReviewCount:  h.ReviewCount,
			CorrectCount: h.CorrectCount,
		})
	}
	rec.History = trimHistory(rec.History)

	return rec, nil
}

func (t *Tracker) loadJSON(ctx context.Context, key domain.SettingKey, dst any) error {
	raw, err := t.settings.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.log.WarnContext(ctx, "discarding undecodable setting",
			slog.String("key", key.String()),
			slog.String("error", err.Error()),
		)
	}
	return nil
}

func (t *Tracker) parseDate(ctx context.Context, s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if d, err := time.Parse(domain.DateLayout, s); err == nil {
		return d
	}
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.Date(ts, t.loc)
	}
	t.log.WarnContext(ctx, "discarding unparsable date", slog.String("value", s))
	return time.Time{}
}

// save writes every key of rec. Must run inside a transaction.
func (t *Tracker) save(ctx context.Context, rec record) error {
	s := rec.Stats

	lastDate := ""
	if !s.LastReviewDate.IsZero() {
		lastDate = s.LastReviewDate.Format(domain.DateLayout)
	}

	history := make([]historyEntryJSON, len(rec.History))
	for i, e := range rec.History {
		history[i] = historyEntryJSON{
			Date:         e.Date.Format(domain.DateLayout),
			ReviewCount:  e.ReviewCount,
			CorrectCount: e.CorrectCount,
		}
	}

	values := []struct {
		key   domain.SettingKey
		value any
	}{
		{domain.SettingLearnedWordsCount, s.LearnedWordsCount},
		{domain.SettingReviewsToday, s.ReviewsToday},
		{domain.SettingReviewsTotal, s.ReviewsTotal},
		{domain.SettingCorrectAnswers, s.CorrectAnswers},
		{domain.SettingIncorrectAnswers, s.IncorrectAnswers},
		{domain.SettingStreak, s.StreakDays},
		{domain.SettingLastReviewDate, lastDate},
		{domain.SettingProgressHistory, history},
	}

	for _, v := range values {
		raw, err := json.Marshal(v.value)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", v.key, err)
		}
		if err := t.settings.Put(ctx, v.key, raw); err != nil {
			return fmt.Errorf("put setting %s: %w", v.key, err)
		}
	}
	return nil
}
