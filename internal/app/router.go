package app

import (
	"net/http"

	"github.com/heartmarshall/lexitrack/internal/transport/middleware"
	"github.com/heartmarshall/lexitrack/internal/transport/rest"
)

// NewRouter builds the HTTP handler: REST API, health probes and /metrics,
// wrapped in RequestID → Logger → Recovery → CORS (→ rate limit).
func NewRouter(c *Container) http.Handler {
	cfg := c.Config

	reviewH := rest.NewReviewHandler(c.Review, c.Log, cfg.SRS.DueLimitDefault)
	progressH := rest.NewProgressHandler(c.Progress, c.Review, c.Log, cfg.SRS.HistoryDays)
	healthH := rest.NewHealthHandler(c.Store, c.Store.Driver, BuildVersion(), c.Clock)

	mux := http.NewServeMux()
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Instrument(c.Metrics, endpoint)(h))
	}

	route("POST /api/items/{id}/schedule", "schedule", reviewH.Schedule)
	route("POST /api/items/{id}/outcome", "outcome", reviewH.Outcome)
	route("GET /api/items/{id}/state", "item_state", reviewH.State)
	route("GET /api/due", "due", reviewH.Due)
	route("GET /api/stats", "stats", progressH.Stats)
	route("GET /api/history", "history", progressH.History)

	mux.HandleFunc("GET /live", healthH.Live)
	mux.HandleFunc("GET /ready", healthH.Ready)
	mux.HandleFunc("GET /health", healthH.Health)
	mux.Handle("GET /metrics", c.Metrics.Handler())

	var limit middleware.Middleware
	if cfg.Server.RateLimit > 0 {
		limit = middleware.NewRateLimiter(cfg.Server.RateLimit, c.Clock).Middleware()
	}

	return middleware.Apply(mux,
		middleware.RequestID(),
		middleware.Logger(c.Log),
		middleware.Recovery(c.Log),
		middleware.CORS(cfg.CORS),
		limit,
	)
}
