package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder tracks outbound provider calls on its own registry.
type Recorder struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lookalike",
			Name:      "provider_requests_total",
			Help:      "Outbound image generation calls by provider and outcome.",
		}, []string{"provider", "outcome", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lookalike",
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of outbound image generation calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
	}
	r.registry.MustRegister(r.calls, r.duration)
	return r
}

// Observe records one provider call. kind is empty on success.
func (r *Recorder) Observe(provider, kind string, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeError
	}
	r.calls.WithLabelValues(provider, outcome, kind).Inc()
	r.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
