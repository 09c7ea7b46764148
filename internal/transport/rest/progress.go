package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/lexitrack/internal/domain"
	"github.com/heartmarshall/lexitrack/internal/service/progress"
)

type progressService interface {
	GetStats(ctx context.Context) (domain.AggregateStats, error)
	GetDailyHistory(ctx context.Context, input progress.GetHistoryInput) ([]domain.DailyProgressEntry, error)
}

type dueCounter interface {
	CountDue(ctx context.Context, now time.Time) (int, error)
}

// ProgressHandler serves the stats and history endpoints.
type ProgressHandler struct {
	svc         progressService
	due         dueCounter
	log         *slog.Logger
	historyDays int
}

// NewProgressHandler creates a ProgressHandler. historyDays applies to
// GET /api/history without a days parameter.
func NewProgressHandler(svc progressService, due dueCounter, logger *slog.Logger, historyDays int) *ProgressHandler {
	if historyDays <= 0 {
		historyDays = 30
	}
	return &ProgressHandler{svc: svc, due: due, log: logger.With("handler", "progress"), historyDays: historyDays}
}

// Stats handles GET /api/stats.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.GetStats(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	due, err := h.due.CountDue(r.Context(), time.Time{})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStats(stats, due))
}

// History handles GET /api/history?days=N.
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	input := progress.GetHistoryInput{Days: h.historyDays}
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("days", "must be an integer"))
			return
		}
		input.Days = n
	}

	entries, err := h.svc.GetDailyHistory(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toHistory(entries))
}
