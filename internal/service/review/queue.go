package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

// maxDueRefetch bounds the extra queries GetDueItems makes to replace due
// states whose vocabulary item is gone.
const maxDueRefetch = 3

// GetDueItems returns the vocabulary items whose next review is at or before
// input.Now, earliest first, at most input.Limit of them. Due states without a
// vocabulary item are skipped and the page is topped up from later due
// states. Read-only.
func (s *Service) GetDueItems(ctx context.Context, input GetDueItemsInput) ([]domain.VocabularyItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultDueLimit
	}

	now := input.Now
	if now.IsZero() {
		now = s.clock.Now()
	}

	var (
		out     []domain.VocabularyItem
		orphans []uuid.UUID
	)
	fetch := limit
	for round := 0; ; round++ {
		states, err := s.states.QueryDue(ctx, now, fetch)
		if err != nil {
			return nil, fmt.Errorf("query due: %w", err)
		}

		out, orphans, err = s.resolveDue(ctx, states, limit)
		if err != nil {
			return nil, err
		}

		if len(out) == limit || len(states) < fetch || round == maxDueRefetch {
			break
		}
		fetch += limit - len(out)
	}

	for _, id := range orphans {
		s.log.WarnContext(ctx, "due review state has no vocabulary item",
			slog.String("item_id", id.String()),
		)
	}

	s.log.DebugContext(ctx, "due items selected",
		slog.Int("limit", limit),
		slog.Int("count", len(out)),
	)

	return out, nil
}

// resolveDue maps states to their items in order, keeping at most limit.
// It also returns the ids of states whose item does not exist.
func (s *Service) resolveDue(ctx context.Context, states []domain.ReviewState, limit int) ([]domain.VocabularyItem, []uuid.UUID, error) {
	out := make([]domain.VocabularyItem, 0, min(len(states), limit))
	if len(states) == 0 {
		return out, nil, nil
	}

	ids := make([]uuid.UUID, len(states))
	for i, st := range states {
		ids[i] = st.WordID
	}

	items, err := s.items.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("get vocabulary items: %w", err)
	}

	byID := make(map[uuid.UUID]domain.VocabularyItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var orphans []uuid.UUID
	for _, st := range states {
		item, ok := byID[st.WordID]
		if !ok {
			orphans = append(orphans, st.WordID)
			continue
		}
		if len(out) < limit {
			out = append(out, item)
		}
	}
	return out, orphans, nil
}

// CountDue returns the number of items due at now. A zero now means the
// service clock.
func (s *Service) CountDue(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = s.clock.Now()
	}

	n, err := s.states.CountDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("count due: %w", err)
	}

	if s.observer != nil {
		s.observer.ObserveDue(n)
	}
	return n, nil
}
