package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder against a private registry, used by
// serve mode to expose /metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	pagesWritten  prom.Counter
	fileErrors    *prom.CounterVec
}

// NewPrometheusRecorder creates a recorder with its own registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "sitesmith_stage_duration_seconds",
			Help:    "Duration of individual build stages.",
			Buckets: prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "sitesmith_build_duration_seconds",
			Help:    "Total build duration.",
			Buckets: prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Name: "sitesmith_build_outcomes_total",
			Help: "Build results by outcome.",
		}, []string{"outcome"}),
		pagesWritten: prom.NewCounter(prom.CounterOpts{
			Name: "sitesmith_pages_written_total",
			Help: "Output pages written across all builds.",
		}),
		fileErrors: prom.NewCounterVec(prom.CounterOpts{
			Name: "sitesmith_file_errors_total",
			Help: "Per-file errors by category.",
		}, []string{"category"}),
	}
	r.registry.MustRegister(r.stageDuration, r.buildDuration, r.buildOutcome, r.pagesWritten, r.fileErrors)
	return r
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	r.buildDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncBuildOutcome(outcome string) {
	r.buildOutcome.WithLabelValues(outcome).Inc()
}

func (r *PrometheusRecorder) AddPagesWritten(n int) {
	r.pagesWritten.Add(float64(n))
}

func (r *PrometheusRecorder) IncFileError(category string) {
	r.fileErrors.WithLabelValues(category).Inc()
}

// Handler returns the HTTP handler exposing the registry.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
