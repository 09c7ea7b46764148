package testhelper

import (
	"context"
	"testing"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	item := SeedItem(t, pool)

	var word string
	err := pool.QueryRow(
		context.Background(),
		`SELECT word FROM vocabulary_items WHERE id = $1`,
		item.ID,
	).Scan(&word)
	if err != nil {
		t.Fatalf("expected item in DB, got error: %v", err)
	}

	if word != item.Word {
		t.Fatalf("expected word %q, got %q", item.Word, word)
	}
}
