package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	UpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticker_upstream_requests_total",
		Help: "Upstream data requests by source and outcome",
	}, []string{"source", "outcome"})

	UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ticker_upstream_latency_seconds",
		Help:    "Time to fetch from an upstream data source",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	CacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticker_cache_hits_total",
		Help: "Upstream cache hits by source",
	}, []string{"source"})

	GeneratorRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ticker_generator_requests_total",
		Help: "Text generation calls by outcome",
	}, []string{"outcome"})

	GeneratorLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ticker_generator_latency_seconds",
		Help:    "Time to obtain generated recommendation text",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40},
	})

	RecommendationsLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ticker_recommendations_loaded",
		Help: "Number of recommendations in the active rotation",
	})

	TickerSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ticker_subscribers",
		Help: "Connected ticker subscribers",
	})
)

func init() {
	prometheus.MustRegister(
		UpstreamRequests,
		UpstreamLatency,
		CacheHits,
		GeneratorRequests,
		GeneratorLatency,
		RecommendationsLoaded,
		TickerSubscribers,
	)
}

// ObserveUpstream records one upstream fetch.
func ObserveUpstream(source string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequests.WithLabelValues(source, outcome).Inc()
	UpstreamLatency.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

func ObserveGenerator(started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GeneratorRequests.WithLabelValues(outcome).Inc()
	GeneratorLatency.Observe(time.Since(started).Seconds())
}
