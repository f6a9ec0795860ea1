// Package middleware provides the HTTP observability middleware of DevFlow.
//
// This package includes:
//   - OpenTelemetry request tracing and form submission spans
//   - Prometheus metrics for requests, form submissions, search
//     synchronizations and live connections
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware traces every request handled by the router.
// Spans carry the method, path, chi request id, matched route and status.
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("devflow"),
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	)
//
// Form callbacks are traced separately with TraceSubmit.
//
// # Prometheus Metrics
//
// The Prometheus middleware records request metrics; the Record* functions
// record domain events from the form, search and live packages:
//   - devflow_http_requests_total: Requests by route, method and status
//   - devflow_form_submissions_total: Submissions by form and outcome
//   - devflow_search_syncs_total: Debounced synchronizations by action
//   - devflow_live_sessions: Open live search connections
//
//	r.Use(middleware.Prometheus())
//	r.Handle("/metrics", promhttp.Handler())
package middleware
