package middleware

import "net/http"

// requestRecorder is satisfied by *metrics.Metrics.
type requestRecorder interface {
	RequestStarted(method, endpoint string) func(status int)
}

// Instrument records request count, latency and in-flight gauge under the
// given endpoint label. Use the route name, not the raw path, to keep label
// cardinality bounded.
func Instrument(rec requestRecorder, endpoint string) Middleware {
	return func(next http.Handler) http.Handler {
		if rec == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			done := rec.RequestStarted(r.Method, endpoint)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() { done(sw.status) }()

			next.ServeHTTP(sw, r)
		})
	}
}
