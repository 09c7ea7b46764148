// Package vocabulary implements the VocabularyItem repository using PostgreSQL.
package vocabulary

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	postgres "github.com/heartmarshall/lexitrack/internal/adapter/postgres"
	"github.com/heartmarshall/lexitrack/internal/domain"
)

const table = "vocabulary_items"

var columns = []string{
	"id", "word", "transliteration", "translation", "difficulty",
	"tags", "examples", "etymology", "audio_url", "created_at",
}

const countSQL = `SELECT count(*) FROM vocabulary_items`

// upsertSQL matches existing items by case-insensitive word. xmax = 0 only
// for freshly inserted rows.
const upsertSQL = `
INSERT INTO vocabulary_items
    (id, word, transliteration, translation, difficulty, tags, examples, etymology, audio_url, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT ((lower(word))) DO UPDATE SET
    word = EXCLUDED.word,
    transliteration = EXCLUDED.transliteration,
    translation = EXCLUDED.translation,
    difficulty = EXCLUDED.difficulty,
    tags = EXCLUDED.tags,
    examples = EXCLUDED.examples,
    etymology = EXCLUDED.etymology,
    audio_url = EXCLUDED.audio_url
RETURNING id, created_at, (xmax = 0) AS inserted`

// Repo provides vocabulary persistence backed by PostgreSQL.
type Repo struct {
	pool  *pgxpool.Pool
	clock clockwork.Clock
}

// New creates a new vocabulary repository. A nil clock means the real clock.
func New(pool *pgxpool.Pool, clock clockwork.Clock) *Repo {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Repo{pool: pool, clock: clock}
}

// GetByID returns the item or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vocabulary item: %w", err)
	}

	item, err := scanItem(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "vocabulary_item", id)
	}
	return &item, nil
}

// GetByIDs returns the items that exist, in no particular order.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.VocabularyItem, error) {
	if len(ids) == 0 {
		return []domain.VocabularyItem{}, nil
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From(table).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vocabulary items: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get vocabulary items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.VocabularyItem, 0, len(ids))
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vocabulary item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vocabulary items: %w", err)
	}

	return items, nil
}

// Count returns the number of stored items.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vocabulary items: %w", err)
	}
	return n, nil
}

// Upsert stores item, matching existing items by case-insensitive word.
// item.ID and item.CreatedAt are set from the stored row. Returns true when
// a new item was created.
func (r *Repo) Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error) {
	id := item.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.clock.Now()
	}

	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	examples := item.Examples
	if examples == nil {
		examples = []string{}
	}

	var inserted bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL,
		id, item.Word, item.Transliteration, item.Translation, string(item.Difficulty),
		tags, examples, item.Etymology, item.AudioURL, createdAt.UTC().Truncate(time.Microsecond),
	).Scan(&item.ID, &item.CreatedAt, &inserted)
	if err != nil {
		return false, postgres.MapError(err, "vocabulary_item", item.Word)
	}

	item.CreatedAt = item.CreatedAt.UTC()
	return inserted, nil
}

func scanItem(row pgx.Row) (domain.VocabularyItem, error) {
	var (
		item       domain.VocabularyItem
		difficulty string
	)
	err := row.Scan(&item.ID, &item.Word, &item.Transliteration, &item.Translation, &difficulty,
		&item.Tags, &item.Examples, &item.Etymology, &item.AudioURL, &item.CreatedAt)
	if err != nil {
		return domain.VocabularyItem{}, err
	}
	item.Difficulty = domain.DifficultyTier(difficulty)
	item.CreatedAt = item.CreatedAt.UTC()
	return item, nil
}
