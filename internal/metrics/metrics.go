// Package metrics exposes Prometheus collectors for the screening service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	screenRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvscreener",
			Name:      "screen_requests_total",
			Help:      "Total screening requests by result (ok, invalid, error)",
		},
		[]string{"result"},
	)

	screenDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cvscreener",
			Name:      "screen_duration_seconds",
			Help:      "Duration of screening requests",
			Buckets:   prometheus.DefBuckets,
		},
	)

	candidatesScored = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvscreener",
			Name:      "candidates_scored_total",
			Help:      "Total CVs scored by scorer (model, mock)",
		},
		[]string{"scorer"},
	)

	parseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "cvscreener",
			Name:      "score_parse_failures_total",
			Help:      "Model replies that could not be parsed and fell back to the default score",
		},
	)
)

var registerOnce sync.Once

// Init registers collectors. Safe to call from every server constructor.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(screenRequests, screenDuration, candidatesScored, parseFailures)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

// ObserveScreen records one screening request and its duration.
func ObserveScreen(result string, dur time.Duration) {
	screenRequests.WithLabelValues(result).Inc()
	screenDuration.Observe(dur.Seconds())
}

// IncScored counts one scored CV.
func IncScored(scorer string) { candidatesScored.WithLabelValues(scorer).Inc() }

// IncParseFailure counts one defaulted model reply.
func IncParseFailure() { parseFailures.Inc() }
