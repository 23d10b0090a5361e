// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seo-optimizer/contentscore/analyzer"
)

const namespace = "contentscore"

// Recorder holds the service's collectors on its own registry
type Recorder struct {
	registry *prometheus.Registry

	Analyses *prometheus.CounterVec
	Failures *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Scores   prometheus.Histogram
}

// NewRecorder creates a recorder with Go runtime and process collectors registered
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total content analyses served",
		}, []string{"endpoint"}),
		Failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_failures_total",
			Help:      "Total rejected analysis requests",
		}, []string{"endpoint", "reason"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time to produce a report, including cache lookups",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"endpoint"}),
		Scores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_score",
			Help:      "Distribution of report scores",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
	}
}

// ObserveAnalysis records one served report
func (r *Recorder) ObserveAnalysis(endpoint string, score int, d time.Duration) {
	r.Analyses.WithLabelValues(endpoint).Inc()
	r.Duration.WithLabelValues(endpoint).Observe(d.Seconds())
	r.Scores.Observe(float64(score))
}

// ObserveFailure records a request that produced no report
func (r *Recorder) ObserveFailure(endpoint, reason string) {
	r.Failures.WithLabelValues(endpoint, reason).Inc()
}

// WatchCache exports the analyzer's memo cache counters, read at scrape time
func (r *Recorder) WatchCache(a *analyzer.Analyzer) {
	factory := promauto.With(r.registry)
	gauge := func(name, help string, value func(analyzer.CacheStats) float64) {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      name,
			Help:      help,
		}, func() float64 { return value(a.GetCacheStats()) })
	}

	gauge("entries", "Reports currently memoized", func(s analyzer.CacheStats) float64 { return float64(s.Entries) })
	gauge("hits", "Cache hits this month", func(s analyzer.CacheStats) float64 { return float64(s.Hits) })
	gauge("misses", "Cache misses this month", func(s analyzer.CacheStats) float64 { return float64(s.Misses) })
	gauge("average_score", "Average computed score this month", func(s analyzer.CacheStats) float64 { return s.AvgScore })
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the HTTP handler for the /metrics endpoint
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
