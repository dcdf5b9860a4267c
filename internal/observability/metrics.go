package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "flood_alerts"

// Metrics holds the Prometheus counters, histograms, and gauges for the alert service.
type Metrics struct {
	AlertsCreated      prometheus.Counter
	AlertsAcknowledged prometheus.Counter
	CreateRejected     prometheus.Counter
	StoreSize          prometheus.Gauge

	// Persistence and publishing failures.
	PersistErrors      prometheus.Counter
	PublishErrors      prometheus.Counter
	StoreLoadAnomalies prometheus.Counter

	Exports *prometheus.CounterVec // labels: format={csv,xlsx,pdf}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec   // labels: method={reverse}, outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec   // labels: method={reverse}, result={hit,miss}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: method={reverse}
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AlertsCreated,
		m.AlertsAcknowledged,
		m.CreateRejected,
		m.StoreSize,
		m.PersistErrors,
		m.PublishErrors,
		m.StoreLoadAnomalies,
		m.Exports,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlertsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_created_total",
			Help:      "Total alerts accepted into the store.",
		}),
		AlertsAcknowledged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_acknowledged_total",
			Help:      "Total alerts moved to the acknowledged state.",
		}),
		CreateRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "create_rejected_total",
			Help:      "Alert submissions rejected for missing fields.",
		}),
		StoreSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_size",
			Help:      "Number of alerts currently held, acknowledged or not.",
		}),
		PersistErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Failed writes of the alert store to its backend.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Failed alert event publications.",
		}),
		StoreLoadAnomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_load_anomalies_total",
			Help:      "Persisted values discarded because they were not a valid alert list.",
		}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Reports generated by format.",
		}, []string{"format"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by method and result.",
		}, []string{"method", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when shelter address enrichment is enabled, 0 otherwise.",
		}),
	}
}
