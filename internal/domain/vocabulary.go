package domain

import (
	"time"

	"github.com/google/uuid"
)

// VocabularyItem is a word the learner is exposed to. The engine reads items
// but never mutates them; curation happens outside the core.
type VocabularyItem struct {
	ID              uuid.UUID
	Word            string
	Transliteration string
	Translation     string
	Difficulty      DifficultyTier
	Tags            []string
	Examples        []string
	Etymology       *string
	AudioURL        *string
	CreatedAt       time.Time
}

// HasTag reports whether the item carries the given tag.
func (v *VocabularyItem) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
