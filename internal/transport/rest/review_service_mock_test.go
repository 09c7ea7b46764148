package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/review"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

// reviewServiceMock is a hand-written mock in moq style.
type reviewServiceMock struct {
	ScheduleReviewFunc func(ctx context.Context, input review.ScheduleReviewInput) (scheduler.Result, error)
	RecordOutcomeFunc  func(ctx context.Context, input review.RecordOutcomeInput) (*domain.ReviewState, error)
	GetReviewStateFunc func(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error)
	GetDueItemsFunc    func(ctx context.Context, input review.GetDueItemsInput) ([]domain.VocabularyItem, error)

	mu    sync.Mutex
	calls struct {
		ScheduleReview []review.ScheduleReviewInput
		RecordOutcome  []review.RecordOutcomeInput
		GetDueItems    []review.GetDueItemsInput
	}
}

func (m *reviewServiceMock) ScheduleReview(ctx context.Context, input review.ScheduleReviewInput) (scheduler.Result, error) {
	if m.ScheduleReviewFunc == nil {
		panic("reviewServiceMock.ScheduleReviewFunc: method is nil but ScheduleReview was just called")
	}
	m.mu.Lock()
	m.calls.ScheduleReview = append(m.calls.ScheduleReview, input)
	m.mu.Unlock()
	return m.ScheduleReviewFunc(ctx, input)
}

func (m *reviewServiceMock) RecordOutcome(ctx context.Context, input review.RecordOutcomeInput) (*domain.ReviewState, error) {
	if m.RecordOutcomeFunc == nil {
		panic("reviewServiceMock.RecordOutcomeFunc: method is nil but RecordOutcome was just called")
	}
	m.mu.Lock()
	m.calls.RecordOutcome = append(m.calls.RecordOutcome, input)
	m.mu.Unlock()
	return m.RecordOutcomeFunc(ctx, input)
}

func (m *reviewServiceMock) GetReviewState(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error) {
	if m.GetReviewStateFunc == nil {
		panic("reviewServiceMock.GetReviewStateFunc: method is nil but GetReviewState was just called")
	}
	return m.GetReviewStateFunc(ctx, itemID)
}

func (m *reviewServiceMock) GetDueItems(ctx context.Context, input review.GetDueItemsInput) ([]domain.VocabularyItem, error) {
	if m.GetDueItemsFunc == nil {
		panic("reviewServiceMock.GetDueItemsFunc: method is nil but GetDueItems was just called")
	}
	m.mu.Lock()
	m.calls.GetDueItems = append(m.calls.GetDueItems, input)
	m.mu.Unlock()
	return m.GetDueItemsFunc(ctx, input)
}
