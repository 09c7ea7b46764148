package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedItem inserts a vocabulary item with a unique word and returns it.
func SeedItem(t *testing.T, pool *pgxpool.Pool) domain.VocabularyItem {
	t.Helper()

	item := domain.VocabularyItem{
		ID:          uuid.New(),
		Word:        "word-" + uniqueSuffix(),
		Translation: "translation",
		Difficulty:  domain.DifficultyBeginner,
		Tags:        []string{"seed"},
		Examples:    []string{},
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO vocabulary_items (id, word, translation, difficulty, tags, examples, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.Word, item.Translation, string(item.Difficulty), item.Tags, item.Examples, item.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: seed item: %v", err)
	}

	return item
}
