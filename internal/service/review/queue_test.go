package review

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

func (f *fixture) putState(t *testing.T, id uuid.UUID, next time.Time) {
	t.Helper()

	require.NoError(t, f.store.ReviewStates.Put(context.Background(), domain.ReviewState{
		WordID:       id,
		CorrectCount: 1,
		LastReviewed: next.Add(-24 * time.Hour),
		NextReview:   next,
		EaseFactor:   domain.DefaultEaseFactor,
	}))
}

func TestService_GetDueItems_OrderAndFilter(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	a := f.addItem(t, "a")
	b := f.addItem(t, "b")
	c := f.addItem(t, "c")
	future := f.addItem(t, "future")

	f.putState(t, a, t0.Add(-time.Hour))
	f.putState(t, b, t0.Add(-48*time.Hour))
	f.putState(t, c, t0)
	f.putState(t, future, t0.Add(time.Minute))

	items, err := f.svc.GetDueItems(ctx, GetDueItemsInput{})
	require.NoError(t, err)

	got := make([]uuid.UUID, len(items))
	for i, it := range items {
		got[i] = it.ID
	}
	assert.Equal(t, []uuid.UUID{b, a, c}, got)
}

func TestService_GetDueItems_TiesBreakByID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ids := []uuid.UUID{f.addItem(t, "x"), f.addItem(t, "y"), f.addItem(t, "z")}
	for _, id := range ids {
		f.putState(t, id, t0.Add(-time.Hour))
	}

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{Now: t0})
	require.NoError(t, err)
	require.Len(t, items, 3)
	for i := 1; i < len(items); i++ {
		assert.Negative(t, bytes.Compare(items[i-1].ID[:], items[i].ID[:]))
	}
}

func TestService_GetDueItems_Limit(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	for i := 0; i < 15; i++ {
		id := f.addItem(t, string(rune('a'+i)))
		f.putState(t, id, t0.Add(-time.Duration(i+1)*time.Hour))
	}

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{})
	require.NoError(t, err)
	assert.Len(t, items, DefaultDueLimit)

	items, err = f.svc.GetDueItems(context.Background(), GetDueItemsInput{Limit: 4})
	require.NoError(t, err)
	assert.Len(t, items, 4)

	for _, limit := range []int{-1, MaxDueLimit + 1} {
		_, err = f.svc.GetDueItems(context.Background(), GetDueItemsInput{Limit: limit})
		assert.ErrorIs(t, err, domain.ErrValidation, "limit=%d", limit)
	}
}

func TestService_GetDueItems_EmptyIsNotError(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestService_GetDueItems_ExplicitNow(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.addItem(t, "later")
	f.putState(t, id, t0.Add(72*time.Hour))

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{Now: t0.Add(96 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)

	items, err = f.svc.GetDueItems(context.Background(), GetDueItemsInput{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_GetDueItems_SkipsMissingItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	kept := f.addItem(t, "kept")
	f.putState(t, kept, t0.Add(-time.Hour))
	f.putState(t, uuid.New(), t0.Add(-2*time.Hour))

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept, items[0].ID)
}

func TestService_GetDueItems_FillsPagePastMissingItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.putState(t, uuid.New(), t0.Add(-5*time.Hour))
	f.putState(t, uuid.New(), t0.Add(-4*time.Hour))
	a := f.addItem(t, "uno")
	f.putState(t, a, t0.Add(-3*time.Hour))
	b := f.addItem(t, "dos")
	f.putState(t, b, t0.Add(-2*time.Hour))
	c := f.addItem(t, "tres")
	f.putState(t, c, t0.Add(-time.Hour))

	items, err := f.svc.GetDueItems(context.Background(), GetDueItemsInput{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, a, items[0].ID)
	assert.Equal(t, b, items[1].ID)

	items, err = f.svc.GetDueItems(context.Background(), GetDueItemsInput{Limit: 5})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, c, items[2].ID)
}

func TestService_GetDueItems_NeverReturnsFutureItems(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		id := f.addItem(t, string(rune('A'+i)))
		_, err := f.svc.ScheduleReview(ctx, ScheduleReviewInput{ItemID: id, Quality: float64(i % 6)})
		require.NoError(t, err)
	}

	for _, days := range []int{0, 1, 2, 3, 4} {
		now := t0.Add(time.Duration(days) * 24 * time.Hour)
		items, err := f.svc.GetDueItems(ctx, GetDueItemsInput{Limit: MaxDueLimit, Now: now})
		require.NoError(t, err)
		for _, it := range items {
			st, err := f.svc.GetReviewState(ctx, it.ID)
			require.NoError(t, err)
			assert.False(t, st.NextReview.After(now))
		}
	}
}

func TestService_CountDue(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.putState(t, f.addItem(t, "one"), t0.Add(-time.Hour))
	f.putState(t, f.addItem(t, "two"), t0.Add(time.Hour))

	n, err := f.svc.CountDue(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []int{1}, f.observer.due)
}
