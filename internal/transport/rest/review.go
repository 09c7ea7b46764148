package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/review"
	"github.com/heartmarshall/lexitrack/internal/service/scheduler"
)

// reviewService defines the review operations used by ReviewHandler.
type reviewService interface {
	ScheduleReview(ctx context.Context, input review.ScheduleReviewInput) (scheduler.Result, error)
	RecordOutcome(ctx context.Context, input review.RecordOutcomeInput) (*domain.ReviewState, error)
	GetReviewState(ctx context.Context, itemID uuid.UUID) (*domain.ReviewState, error)
	GetDueItems(ctx context.Context, input review.GetDueItemsInput) ([]domain.VocabularyItem, error)
}

// ReviewHandler serves the review and due-queue endpoints.
type ReviewHandler struct {
	svc          reviewService
	log          *slog.Logger
	defaultLimit int
}

// NewReviewHandler creates a ReviewHandler. defaultLimit applies to
// GET /api/due without a limit parameter.
func NewReviewHandler(svc reviewService, logger *slog.Logger, defaultLimit int) *ReviewHandler {
	if defaultLimit <= 0 {
		defaultLimit = review.DefaultDueLimit
	}
	return &ReviewHandler{svc: svc, log: logger.With("handler", "review"), defaultLimit: defaultLimit}
}

type scheduleRequest struct {
	Quality *float64 `json:"quality"`
}

type outcomeRequest struct {
	Correct *bool `json:"correct"`
}

// Schedule handles POST /api/items/{id}/schedule.
func (h *ReviewHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	id, err := pathItemID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req scheduleRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if req.Quality == nil {
		handleError(w, r, h.log, domain.NewValidationError("quality", "required"))
		return
	}

	res, err := h.svc.ScheduleReview(r.Context(), review.ScheduleReviewInput{ItemID: id, Quality: *req.Quality})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		ItemID:       id.String(),
		NextReview:   res.NextReview.UTC(),
		EaseFactor:   res.EaseFactor,
		IntervalDays: res.IntervalDays,
	})
}

// Outcome handles POST /api/items/{id}/outcome.
func (h *ReviewHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	id, err := pathItemID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req outcomeRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if req.Correct == nil {
		handleError(w, r, h.log, domain.NewValidationError("correct", "required"))
		return
	}

	state, err := h.svc.RecordOutcome(r.Context(), review.RecordOutcomeInput{ItemID: id, Correct: *req.Correct})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewState(*state))
}

// State handles GET /api/items/{id}/state. An item that was never reviewed
// returns 404.
func (h *ReviewHandler) State(w http.ResponseWriter, r *http.Request) {
	id, err := pathItemID(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	state, err := h.svc.GetReviewState(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toReviewState(*state))
}

// Due handles GET /api/due?limit=N&now=RFC3339.
func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	input := review.GetDueItemsInput{Limit: h.defaultLimit}

	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("limit", "must be an integer"))
			return
		}
		input.Limit = n
	}
	if v := q.Get("now"); v != "" {
		now, err := time.Parse(time.RFC3339, v)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("now", "must be an RFC 3339 timestamp"))
			return
		}
		input.Now = now
	}

	items, err := h.svc.GetDueItems(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := dueResponse{Items: make([]itemResponse, 0, len(items)), Count: len(items)}
	for _, it := range items {
		resp.Items = append(resp.Items, toItem(it))
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathItemID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid item id")
	}
	return id, nil
}
