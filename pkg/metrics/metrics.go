package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vpd"

// Metrics holds the Prometheus collectors shared by the calculator and its transport.
type Metrics struct {
	Calculations   *prometheus.CounterVec // labels: zone
	FramesRendered prometheus.Counter
	RenderDuration prometheus.Histogram
	FrameCache     *prometheus.CounterVec // labels: result={hit,miss,error}
	Clicks         *prometheus.CounterVec // labels: outcome={hit,outside}
	CacheEvictions prometheus.Counter
	HTTPRequests   *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration   *prometheus.HistogramVec // labels: method, route
}

// NewMetrics creates and registers all collectors with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := build([]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1})
	prometheus.MustRegister(
		m.Calculations,
		m.FramesRendered,
		m.RenderDuration,
		m.FrameCache,
		m.Clicks,
		m.CacheEvictions,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return build(prometheus.DefBuckets)
}

func build(buckets []float64) *Metrics {
	return &Metrics{
		Calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "VPD calculations by resulting zone.",
		}, []string{"zone"}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Heatmap frames painted from scratch.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent painting one heatmap frame.",
			Buckets:   buckets,
		}),
		FrameCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_cache_total",
			Help:      "Frame cache lookups by result.",
		}, []string{"result"}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_clicks_total",
			Help:      "Chart clicks by outcome.",
		}, []string{"outcome"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_cache_evictions_total",
			Help:      "Frames dropped from the memory cache by size or expiry.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
	}
}
