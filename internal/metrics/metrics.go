// Package metrics exposes Prometheus collectors for reviews, progress and HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/lexitrack/internal/domain"
)

const namespace = "lexitrack"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	reviewsTotal    *prometheus.CounterVec
	intervalDays    *prometheus.HistogramVec
	stateAnomalies  prometheus.Counter
	dueItems        prometheus.Gauge
	streakDays      prometheus.Gauge
	reviewsToday    prometheus.Gauge
	learnedWords    prometheus.Gauge
	remindersSent   prometheus.Counter
	importedItems   *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
}

// New registers all collectors on reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		reviewsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Total number of recorded reviews.",
		}, []string{"path", "outcome"}),
		intervalDays: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "review_interval_days",
			Help:      "Scheduled review interval in days.",
			Buckets:   []float64{0, 1, 2, 3, 6, 10, 16, 30, 60, 120, 365},
		}, []string{"path"}),
		stateAnomalies: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "review_state_anomalies_total",
			Help:      "Inconsistent review states that were reset.",
		}),
		dueItems: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "due_items",
			Help:      "Items due for review at the last count.",
		}),
		streakDays: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "streak_days",
			Help:      "Current review streak in days.",
		}),
		reviewsToday: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reviews_today",
			Help:      "Reviews recorded today.",
		}),
		learnedWords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "learned_words",
			Help:      "Learned words estimate.",
		}),
		remindersSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Due-item reminders handed to the notifier.",
		}),
		importedItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imported_items_total",
			Help:      "Vocabulary rows processed by the importer.",
		}, []string{"result"}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "endpoint"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed.",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveReview records one review on the graded or binary path.
func (m *Metrics) ObserveReview(path string, correct bool, intervalDays int) {
	if m == nil {
		return
	}
	m.reviewsTotal.WithLabelValues(path, outcome(correct)).Inc()
	m.intervalDays.WithLabelValues(path).Observe(float64(intervalDays))
}

// ObserveAnomaly counts a reset of an inconsistent review state.
func (m *Metrics) ObserveAnomaly() {
	if m == nil {
		return
	}
	m.stateAnomalies.Inc()
}

// ObserveDue sets the due-items gauge.
func (m *Metrics) ObserveDue(n int) {
	if m == nil {
		return
	}
	m.dueItems.Set(float64(n))
}

// ObserveStats mirrors the aggregate statistics into gauges.
func (m *Metrics) ObserveStats(s domain.AggregateStats) {
	if m == nil {
		return
	}
	m.streakDays.Set(float64(s.StreakDays))
	m.reviewsToday.Set(float64(s.ReviewsToday))
	m.learnedWords.Set(float64(s.LearnedWordsCount))
}

// ObserveReminder counts a reminder handed to the notifier.
func (m *Metrics) ObserveReminder() {
	if m == nil {
		return
	}
	m.remindersSent.Inc()
}

// ObserveImport counts importer rows by result (created, updated, skipped).
func (m *Metrics) ObserveImport(result string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importedItems.WithLabelValues(result).Add(float64(n))
}

// RequestStarted increments the in-flight gauge and returns a func that
// records the finished request.
func (m *Metrics) RequestStarted(method, endpoint string) func(status int) {
	if m == nil {
		return func(int) {}
	}
	start := time.Now()
	m.inFlight.Inc()

	return func(status int) {
		m.inFlight.Dec()
		m.requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func outcome(correct bool) string {
	if correct {
		return "correct"
	}
	return "incorrect"
}
