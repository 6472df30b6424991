package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricHTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treebrowse_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "status"})

	metricHTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "treebrowse_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	metricListingEntries = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "treebrowse_listing_entries",
		Help:    "Number of entries returned per listing.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	metricIndexSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "treebrowse_index_uids",
		Help: "Number of uids handed out by the listing index.",
	})
)
