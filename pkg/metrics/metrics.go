package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	URLsInQueue         prometheus.Gauge

	ScrapesTotal          *prometheus.CounterVec // kind: brand, product; status: success, failure
	ScrapeDuration        *prometheus.HistogramVec
	SessionsActive        *prometheus.GaugeVec
	ValidationIssuesTotal *prometheus.CounterVec
	BrandSavesTotal       *prometheus.CounterVec
	DeferredPayloadsTotal *prometheus.CounterVec
	CatalogCreationsTotal *prometheus.CounterVec
)

var once sync.Once

// Init registers every collector with the default registry. Repeated calls are no-ops.
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	URLsInQueue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "urls_in_queue",
			Help: "Current number of brand URLs in the scrape queue.",
		},
	)

	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of scrape attempts.",
		},
		[]string{"kind", "status"},
	)

	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "Duration of page fetch plus extraction.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"domain"},
	)

	SessionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Entries currently held by an in-memory session store.",
		},
		[]string{"store"},
	)

	ValidationIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "validation_issues_total",
			Help: "Validation issues raised against proposed brand records.",
		},
		[]string{"severity"},
	)

	BrandSavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brand_saves_total",
			Help: "Brand save attempts by terminal state.",
		},
		[]string{"outcome"},
	)

	DeferredPayloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deferred_payloads_total",
			Help: "Deferred create payloads by outcome.",
		},
		[]string{"outcome"}, // captured, rolled_back, consumed
	)

	CatalogCreationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_creations_total",
			Help: "Downstream catalog creation calls.",
		},
		[]string{"status"},
	)
}
