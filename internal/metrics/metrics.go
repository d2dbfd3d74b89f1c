package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RunsProcessed     *prometheus.CounterVec
	EngineErrors      prometheus.Counter
	EngineSeconds     *prometheus.HistogramVec
	RunInProgress     prometheus.Gauge
	StrikePoints      prometheus.Histogram
	GeocodingRequests *prometheus.CounterVec
	JournalErrors     prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RunsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "trajmap_runs_total",
			Help: "Total number of simulation runs by outcome.",
		}, []string{"status"}),
		EngineErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "trajmap_engine_errors_total",
			Help: "Total number of failed or timed out simulation engine calls.",
		}),
		EngineSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trajmap_engine_request_duration_seconds",
			Help:    "Duration of simulation engine calls.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"engine"}),
		RunInProgress: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "trajmap_run_in_progress",
			Help: "1 while a simulation run is outstanding.",
		}),
		StrikePoints: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "trajmap_strike_points",
			Help:    "Number of strike points produced per completed run.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		}),
		GeocodingRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "trajmap_geocoding_requests_total",
			Help: "Total number of place-name lookups by provider and outcome.",
		}, []string{"provider", "status"}),
		JournalErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "trajmap_journal_errors_total",
			Help: "Total number of run journal writes that failed.",
		}),
	}
}
