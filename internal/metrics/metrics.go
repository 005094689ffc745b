package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of counters the service records.
type Metrics interface {
	ObserveRequest(method, route, status string, durationSeconds float64)
	IncPostOperation(operation, outcome string)
	IncBlobFallback(operation string)
	IncLifecycleEvent(kind string)
	IncSubscriberFailure(kind, subscriber string)
}

// Noop implements Metrics without emitting anything.
type Noop struct{}

func (Noop) ObserveRequest(string, string, string, float64) {}
func (Noop) IncPostOperation(string, string)                {}
func (Noop) IncBlobFallback(string)                         {}
func (Noop) IncLifecycleEvent(string)                       {}
func (Noop) IncSubscriberFailure(string, string)            {}

// Prom implements Metrics backed by Prometheus collectors.
type Prom struct {
	requests           *prometheus.CounterVec
	latency            *prometheus.HistogramVec
	postOperations     *prometheus.CounterVec
	blobFallbacks      *prometheus.CounterVec
	lifecycleEvents    *prometheus.CounterVec
	subscriberFailures *prometheus.CounterVec
	gatherer           prometheus.Gatherer
}

// NewProm registers the collectors on reg. A nil reg uses a fresh registry.
func NewProm(namespace string, reg *prometheus.Registry) *Prom {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	p := &Prom{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method/route/status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		postOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "post_operations_total",
			Help:      "Post operations by operation and outcome",
		}, []string{"operation", "outcome"}),
		blobFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blob_fallbacks_total",
			Help:      "Blob store failures tolerated by a best-effort step",
		}, []string{"operation"}),
		lifecycleEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_events_total",
			Help:      "Post lifecycle events published by kind",
		}, []string{"kind"}),
		subscriberFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_subscriber_failures_total",
			Help:      "Subscriber errors and panics by kind and subscriber",
		}, []string{"kind", "subscriber"}),
		gatherer: reg,
	}
	reg.MustRegister(p.requests, p.latency, p.postOperations, p.blobFallbacks, p.lifecycleEvents, p.subscriberFailures)
	return p
}

func (p *Prom) ObserveRequest(method, route, status string, durationSeconds float64) {
	p.requests.WithLabelValues(method, route, status).Inc()
	p.latency.WithLabelValues(method, route).Observe(durationSeconds)
}

func (p *Prom) IncPostOperation(operation, outcome string) {
	p.postOperations.WithLabelValues(operation, outcome).Inc()
}

func (p *Prom) IncBlobFallback(operation string) {
	p.blobFallbacks.WithLabelValues(operation).Inc()
}

func (p *Prom) IncLifecycleEvent(kind string) {
	p.lifecycleEvents.WithLabelValues(kind).Inc()
}

func (p *Prom) IncSubscriberFailure(kind, subscriber string) {
	p.subscriberFailures.WithLabelValues(kind, subscriber).Inc()
}

// Handler returns an HTTP handler for /metrics.
func (p *Prom) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
