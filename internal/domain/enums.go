package domain

// DifficultyTier is the curated difficulty of a vocabulary item.
type DifficultyTier string

const (
	DifficultyBeginner     DifficultyTier = "beginner"
	DifficultyIntermediate DifficultyTier = "intermediate"
	DifficultyAdvanced     DifficultyTier = "advanced"
)

func (d DifficultyTier) String() string { return string(d) }

func (d DifficultyTier) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SettingKey names a value in the key/value settings store.
type SettingKey string

const (
	SettingLearnedWordsCount SettingKey = "learnedWordsCount"
	SettingReviewsToday      SettingKey = "reviewsToday"
	SettingReviewsTotal      SettingKey = "reviewsTotal"
	SettingCorrectAnswers    SettingKey = "correctAnswers"
	SettingIncorrectAnswers  SettingKey = "incorrectAnswers"
	SettingStreak            SettingKey = "streak"
	SettingLastReviewDate    SettingKey = "lastReviewDate"
	SettingProgressHistory   SettingKey = "progressHistory"
)

func (k SettingKey) String() string { return string(k) }

// StatsKeys lists every key the progress tracker owns.
var StatsKeys = []SettingKey{
	SettingLearnedWordsCount,
	SettingReviewsToday,
	SettingReviewsTotal,
	SettingCorrectAnswers,
	SettingIncorrectAnswers,
	SettingStreak,
	SettingLastReviewDate,
	SettingProgressHistory,
}
