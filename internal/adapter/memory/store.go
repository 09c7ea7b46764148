// Package memory implements the record store in process memory.
// It backs the "memory" store driver and the service tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// Store groups the repositories that share one in-memory database.
type Store struct {
	ReviewStates *ReviewStateRepo
	Vocabulary   *VocabularyRepo
	Settings     *SettingRepo
	Tx           *TxManager

	db *db
}

type db struct {
	mu       sync.RWMutex
	states   map[uuid.UUID]domain.ReviewState
	items    map[uuid.UUID]domain.VocabularyItem
	settings map[domain.SettingKey][]byte

	// aggregate is held by a transaction from SettingRepo.LockForUpdate
	// until it ends.
	aggregate sync.Mutex
	clock     clockwork.Clock
}

// Option configures a Store.
type Option func(*db)

// WithClock sets the clock used for generated timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(d *db) {
		if c != nil {
			d.clock = c
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	d := &db{
		states:   make(map[uuid.UUID]domain.ReviewState),
		items:    make(map[uuid.UUID]domain.VocabularyItem),
		settings: make(map[domain.SettingKey][]byte),
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return &Store{
		ReviewStates: &ReviewStateRepo{db: d},
		Vocabulary:   &VocabularyRepo{db: d},
		Settings:     &SettingRepo{db: d},
		Tx:           &TxManager{db: d},
		db:           d,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// ---------------------------------------------------------------------------
// Review states
// ---------------------------------------------------------------------------

// ReviewStateRepo stores ReviewState records keyed by word id.
type ReviewStateRepo struct {
	db *db
}

// Get returns the state for wordID or domain.ErrNotFound.
func (r *ReviewStateRepo) Get(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.states[wordID]
	if !ok {
		return nil, fmt.Errorf("review_state %s: %w", wordID, domain.ErrNotFound)
	}
	return &s, nil
}

// GetForUpdate is Get; writers of one item are serialised by the review
// service's item lock.
func (r *ReviewStateRepo) GetForUpdate(ctx context.Context, wordID uuid.UUID) (*domain.ReviewState, error) {
	return r.Get(ctx, wordID)
}

// Put inserts or replaces the state.
func (r *ReviewStateRepo) Put(ctx context.Context, state domain.ReviewState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	prev, had := r.db.states[state.WordID]
	r.db.states[state.WordID] = state
	recordUndo(ctx, func() {
		if had {
			r.db.states[state.WordID] = prev
		} else {
			delete(r.db.states, state.WordID)
		}
	})
	return nil
}

// QueryDue returns states with NextReview <= now, earliest first, ties by word id.
func (r *ReviewStateRepo) QueryDue(ctx context.Context, now time.Time, limit int) ([]domain.ReviewState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	due := make([]domain.ReviewState, 0)
	for _, s := range r.db.states {
		if s.IsDue(now) {
			due = append(due, s)
		}
	}
	r.db.mu.RUnlock()

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReview.Equal(due[j].NextReview) {
			return due[i].NextReview.Before(due[j].NextReview)
		}
		return bytes.Compare(due[i].WordID[:], due[j].WordID[:]) < 0
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// CountDue returns the number of states with NextReview <= now.
func (r *ReviewStateRepo) CountDue(ctx context.Context, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, s := range r.db.states {
		if s.IsDue(now) {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Vocabulary
// ---------------------------------------------------------------------------

// VocabularyRepo stores vocabulary items.
type VocabularyRepo struct {
	db *db
}

// GetByID returns the item or domain.ErrNotFound.
func (r *VocabularyRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.VocabularyItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	item, ok := r.db.items[id]
	if !ok {
		return nil, fmt.Errorf("vocabulary_item %s: %w", id, domain.ErrNotFound)
	}
	return &item, nil
}

// GetByIDs returns the items that exist, in no particular order.
func (r *VocabularyRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.VocabularyItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.VocabularyItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.db.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

// Count returns the number of stored items.
func (r *VocabularyRepo) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return len(r.db.items), nil
}

// Upsert stores item, matching existing items by case-insensitive word.
// A nil item ID is replaced by a new one. Returns true when a new item was created.
func (r *VocabularyRepo) Upsert(ctx context.Context, item *domain.VocabularyItem) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for id, existing := range r.db.items {
		if strings.EqualFold(existing.Word, item.Word) {
			item.ID = id
			item.CreatedAt = existing.CreatedAt
			r.db.items[id] = cloneItem(*item)
			recordUndo(ctx, func() { r.db.items[id] = existing })
			return false, nil
		}
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = r.db.clock.Now().UTC()
	}
	id := item.ID
	r.db.items[id] = cloneItem(*item)
	recordUndo(ctx, func() { delete(r.db.items, id) })
	return true, nil
}

func cloneItem(item domain.VocabularyItem) domain.VocabularyItem {
	item.Tags = slices.Clone(item.Tags)
	item.Examples = slices.Clone(item.Examples)
	return item
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// SettingRepo is an opaque key/value store.
type SettingRepo struct {
	db *db
}

// Get returns the raw value for key or domain.ErrNotFound.
func (r *SettingRepo) Get(ctx context.Context, key domain.SettingKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	v, ok := r.db.settings[key]
	if !ok {
		return nil, fmt.Errorf("setting %s: %w", key, domain.ErrNotFound)
	}
	return bytes.Clone(v), nil
}

// Put stores value under key.
func (r *SettingRepo) Put(ctx context.Context, key domain.SettingKey, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.restoreOnRollback(ctx, key)
	r.db.settings[key] = bytes.Clone(value)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SettingRepo) Delete(ctx context.Context, key domain.SettingKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.restoreOnRollback(ctx, key)
	delete(r.db.settings, key)
	return nil
}

// LockForUpdate takes the aggregate lock for the rest of the transaction in
// ctx. Outside a transaction it does nothing.
func (r *SettingRepo) LockForUpdate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t, ok := txFromCtx(ctx)
	if !ok || t.aggregateLocked {
		return nil
	}
	r.db.aggregate.Lock()
	t.aggregateLocked = true
	t.release = append(t.release, r.db.aggregate.Unlock)
	return nil
}

// restoreOnRollback must be called with mu held.
func (r *SettingRepo) restoreOnRollback(ctx context.Context, key domain.SettingKey) {
	prev, had := r.db.settings[key]
	recordUndo(ctx, func() {
		if had {
			r.db.settings[key] = prev
		} else {
			delete(r.db.settings, key)
		}
	})
}

// ---------------------------------------------------------------------------
// Transactions
// ---------------------------------------------------------------------------

// TxManager runs functions in a transaction kept in the context. Each write
// inside the transaction records how to undo itself; a failed transaction
// undoes only its own writes, newest first. Writes from other transactions,
// committed or not, are untouched. A RunInTx inside a RunInTx callback joins
// the outer transaction.
type TxManager struct {
	db *db
}

type tx struct {
	undo            []func()
	release         []func()
	aggregateLocked bool
}

type txKey struct{}

func txFromCtx(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok
}

// recordUndo must be called with mu held.
func recordUndo(ctx context.Context, fn func()) {
	if t, ok := txFromCtx(ctx); ok {
		t.undo = append(t.undo, fn)
	}
}

// RunInTx executes fn and undoes its writes if fn returns an error or panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}

	t := &tx{}
	committed := false

	defer func() {
		if !committed {
			m.db.mu.Lock()
			for i := len(t.undo) - 1; i >= 0; i-- {
				t.undo[i]()
			}
			m.db.mu.Unlock()
		}
		for i := len(t.release) - 1; i >= 0; i-- {
			t.release[i]()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	committed = true
	return nil
}
