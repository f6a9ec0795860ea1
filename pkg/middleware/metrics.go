package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/devflow-dev/devflow/pkg/form"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "devflow").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request and submission duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "devflow",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for DevFlow.
type metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	requestErrors      *prometheus.CounterVec
	formSubmissions    *prometheus.CounterVec
	formDuration       *prometheus.HistogramVec
	searchSyncs        *prometheus.CounterVec
	liveSessions       prometheus.Gauge
	liveFrames         *prometheus.CounterVec
	wsErrors           *prometheus.CounterVec
	questionSourceErrs prometheus.Counter
}

// globalMetrics is the singleton metrics instance.
// Created on the first call to InitMetrics or Prometheus.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics creates and registers the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route, method and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		requestErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_errors_total",
			Help:        "Total number of HTTP requests answered with an error status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "error_type"}),

		formSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "form_submissions_total",
			Help:        "Total number of form submissions by form and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"form", "outcome"}),

		formDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "form_submit_duration_seconds",
			Help:        "Time from submit to settled outcome in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"form"}),

		searchSyncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "search_syncs_total",
			Help:        "Total number of debounced search synchronizations by action",
			ConstLabels: config.ConstLabels,
		}, []string{"action"}),

		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_sessions",
			Help:        "Number of open live search connections",
			ConstLabels: config.ConstLabels,
		}),

		liveFrames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_frames_total",
			Help:        "Total live search frames by direction and type",
			ConstLabels: config.ConstLabels,
		}, []string{"direction", "type"}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		questionSourceErrs: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "question_source_errors_total",
			Help:        "Total number of failed question dataset loads",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// InitMetrics creates the global metrics once. Later calls keep the first
// configuration.
func InitMetrics(opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	globalMetricsMu.Unlock()
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// Prometheus creates HTTP middleware that collects request metrics.
//
// Metrics collected:
//   - devflow_http_requests_total: Counter of requests by route, method and status
//   - devflow_http_request_duration_seconds: Histogram of request duration
//   - devflow_http_request_errors_total: Counter of 4xx/5xx answers by error type
//   - devflow_form_submissions_total: Counter of form submissions (RecordFormOutcome)
//   - devflow_form_submit_duration_seconds: Histogram of submission duration
//   - devflow_search_syncs_total: Counter of search synchronizations (RecordSearchSync)
//   - devflow_live_sessions: Gauge of open live connections
//   - devflow_live_frames_total: Counter of live frames
//   - devflow_websocket_errors_total: Counter of WebSocket errors
//   - devflow_question_source_errors_total: Counter of dataset load failures
//
// The route label is the chi route pattern, so path parameters do not
// explode cardinality.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(middleware.Prometheus(middleware.WithNamespace("devflow")))
//	r.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) func(http.Handler) http.Handler {
	InitMetrics(opts...)
	m := current()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			m.requestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
			if status >= 400 {
				m.requestErrors.WithLabelValues(route, categorizeStatus(status)).Inc()
			}
		})
	}
}

// routePattern returns the matched chi route, or the raw path when the
// request did not go through a chi router.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}

// categorizeStatus maps an HTTP status to a low-cardinality error type.
func categorizeStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusUnprocessableEntity:
		return "validation"
	case status == http.StatusTooManyRequests:
		return "rate_limit"
	case status == http.StatusUnauthorized:
		return "unauthorized"
	case status == http.StatusForbidden:
		return "forbidden"
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return "timeout"
	case status >= 500:
		return "internal"
	default:
		return "client"
	}
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "close"):
		return "close"
	case strings.Contains(errStr, "upgrade"), strings.Contains(errStr, "handshake"):
		return "upgrade"
	case strings.Contains(errStr, "invalid"), strings.Contains(errStr, "decode"):
		return "protocol"
	default:
		return "internal"
	}
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// Form outcome labels.
const (
	OutcomeInvalid = "invalid"
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// FormOutcomeLabel classifies an Outcome for the form_submissions_total
// metric.
func FormOutcomeLabel(o form.Outcome) string {
	switch {
	case !o.Valid():
		return OutcomeInvalid
	case o.Succeeded():
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// RecordFormOutcome records a settled form submission and its duration.
func RecordFormOutcome(formName string, o form.Outcome, d time.Duration) {
	if m := current(); m != nil {
		m.formSubmissions.WithLabelValues(formName, FormOutcomeLabel(o)).Inc()
		m.formDuration.WithLabelValues(formName).Observe(d.Seconds())
	}
}

// RecordSearchSync records a debounced search synchronization.
func RecordSearchSync(action string) {
	if m := current(); m != nil {
		m.searchSyncs.WithLabelValues(action).Inc()
	}
}

// RecordSessionCreate records a new live connection.
func RecordSessionCreate() {
	if m := current(); m != nil {
		m.liveSessions.Inc()
	}
}

// RecordSessionDestroy records a closed live connection.
func RecordSessionDestroy() {
	if m := current(); m != nil {
		m.liveSessions.Dec()
	}
}

// RecordFrame records a live frame. direction is "in" or "out".
func RecordFrame(direction, frameType string) {
	if m := current(); m != nil {
		m.liveFrames.WithLabelValues(direction, frameType).Inc()
	}
}

// RecordWebSocketError records a WebSocket error, categorized by message.
func RecordWebSocketError(err error) {
	if err == nil {
		return
	}
	if m := current(); m != nil {
		m.wsErrors.WithLabelValues(categorizeError(err)).Inc()
	}
}

// RecordQuestionSourceError records a failed dataset load.
func RecordQuestionSourceError() {
	if m := current(); m != nil {
		m.questionSourceErrs.Inc()
	}
}
