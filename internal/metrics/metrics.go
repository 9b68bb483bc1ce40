package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "syllabusparser"

var (
	backendReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Structured-output backend requests by provider, model and result",
		},
		[]string{"provider", "model", "result"},
	)

	backendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of backend requests by provider and model",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"provider", "model"},
	)

	analyses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Document analyses by extraction path (ai, fallback, failed)",
		},
		[]string{"path"},
	)

	uploadsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_rejected_total",
			Help:      "Uploads rejected before analysis by reason",
		},
		[]string{"reason"},
	)

	breakerEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "breaker_events_total",
			Help:      "Backend cooldown events by provider, model and action",
		},
		[]string{"provider", "model", "action"},
	)

	inflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analyses_inflight",
			Help:      "Analyses currently holding a limiter slot",
		},
	)

	registerOnce sync.Once
)

// Init registers collectors with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(backendReqs, backendLatency, analyses, uploadsRejected, breakerEvents, inflight)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveBackend(provider, model, result string, dur time.Duration) {
	backendReqs.WithLabelValues(provider, model, result).Inc()
	backendLatency.WithLabelValues(provider, model).Observe(dur.Seconds())
}

func IncAnalysis(path string) { analyses.WithLabelValues(path).Inc() }

func IncUploadRejected(reason string) { uploadsRejected.WithLabelValues(reason).Inc() }

func BreakerOpened(provider, model string) {
	breakerEvents.WithLabelValues(provider, model, "opened").Inc()
}

func BreakerClosed(provider, model string) {
	breakerEvents.WithLabelValues(provider, model, "closed").Inc()
}

func BreakerSkipped(provider, model string) {
	breakerEvents.WithLabelValues(provider, model, "skipped").Inc()
}

func AddInflight(delta float64) { inflight.Add(delta) }
