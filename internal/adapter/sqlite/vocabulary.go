package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

var itemColumns = []string{
	"id", "word", "transliteration", "translation", "difficulty",
	"tags", "examples", "etymology", "audio_url", "created_at",
}

type itemRow struct {
	ID              string         `db:"id"`
	Word            string         `db:"word"`
	Transliteration string         `db:"transliteration"`
	Translation     string         `db:"translation"`
	Difficulty      string         `db:"difficulty"`
	Tags            string         `db:"tags"`
	Examples        string         `db:"examples"`
	Etymology       sql.NullString `db:"etymology"`
	AudioURL        sql.NullString `db:"audio_url"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (r itemRow) toDomain() (domain.VocabularyItem, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.VocabularyItem{}, fmt.Errorf("parse item id %q: %w", r.ID, err)
	}

	item := domain.VocabularyItem{
		ID:              id,
		Word:            r.Word,
		Transliteration: r.Transliteration,
		Translation:     r.Translation,
		Difficulty:      domain.DifficultyTier(r.Difficulty),
		CreatedAt:       r.CreatedAt.UTC(),
	}
	if err := json.Unmarshal([]byte(r.Tags), &item.Tags); err != nil {
		return domain.VocabularyItem{}, fmt.Errorf("decode tags of %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(r.Examples), &item.Examples); err != nil {
		return domain.VocabularyItem{}, fmt.Errorf("decode examples of %s: %w", id, err)
	}
	if r.Etymology.Valid {
		item.Etymology = &r.Etymology.String
	}
	if r.AudioURL.Valid {
		item.AudioURL = &r.AudioURL.String
	}
	return item, nil
}

// VocabularyRepo stores vocabulary items.
type VocabularyRepo struct {
	db    *sqlx.DB
	clock clockwork.Clock
}

// GetByID returns the item or domain.ErrNotFound.
func (r *VocabularyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	query, args, err := sq.Select(itemColumns...).From("vocabulary_items").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vocabulary item: %w", err)
	}

	var row itemRow
	if err := querierFromCtx(ctx, r.db).GetContext(ctx, &row, query, args...); err != nil {
		return nil, mapError(err, "vocabulary_item", id)
	}

	item, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDs returns the items that exist, in no particular order.
func (r *VocabularyRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.VocabularyItem, error) {
	if len(ids) == 0 {
		return []domain.VocabularyItem{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}

	query, args, err := sq.Select(itemColumns...).From("vocabulary_items").Where(sq.Eq{"id": keys}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get vocabulary items: %w", err)
	}

	var rows []itemRow
	if err := querierFromCtx(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get vocabulary items: %w", err)
	}

	items := make([]domain.VocabularyItem, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Count returns the number of stored items.
func (r *VocabularyRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := querierFromCtx(ctx, r.db).GetContext(ctx, &n, `SELECT count(*) FROM vocabulary_items`); err != nil {
		return 0, fmt.Errorf("count vocabulary items: %w", err)
	}
	return n, nil
}

// Upsert stores item, matching existing items by case-insensitive word.
// item.ID and item.CreatedAt are set from the stored row. Returns true when
// a new item was created.
func (r *VocabularyRepo) Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error) {
	q := querierFromCtx(ctx, r.db)

	tags, err := json.Marshal(nonNil(item.Tags))
	if err != nil {
		return false, fmt.Errorf("encode tags: %w", err)
	}
	examples, err := json.Marshal(nonNil(item.Examples))
	if err != nil {
		return false, fmt.Errorf("encode examples: %w", err)
	}

	var existing struct {
		ID        string    `db:"id"`
		CreatedAt time.Time `db:"created_at"`
	}
	err = q.GetContext(ctx, &existing, `SELECT id, created_at FROM vocabulary_items WHERE word = ? COLLATE NOCASE`, item.Word)
	switch {
	case err == nil:
		_, err = q.ExecContext(ctx, `
UPDATE vocabulary_items SET
    word = ?, transliteration = ?, translation = ?, difficulty = ?,
    tags = ?, examples = ?, etymology = ?, audio_url = ?
WHERE id = ?`,
			item.Word, item.Transliteration, item.Translation, string(item.Difficulty),
			string(tags), string(examples), item.Etymology, item.AudioURL, existing.ID)
		if err != nil {
			return false, mapError(err, "vocabulary_item", item.Word)
		}
		id, err := uuid.Parse(existing.ID)
		if err != nil {
			return false, fmt.Errorf("parse item id %q: %w", existing.ID, err)
		}
		item.ID = id
		item.CreatedAt = existing.CreatedAt.UTC()
		return false, nil

	case !errors.Is(err, sql.ErrNoRows):
		return false, mapError(err, "vocabulary_item", item.Word)
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.clock.Now().UTC()
	}

	query, args, err := sq.Insert("vocabulary_items").
		Columns(itemColumns...).
		Values(item.ID.String(), item.Word, item.Transliteration, item.Translation, string(item.Difficulty),
			string(tags), string(examples), item.Etymology, item.AudioURL, item.CreatedAt.UTC()).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert vocabulary item: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return false, mapError(err, "vocabulary_item", item.Word)
	}
	return true, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
