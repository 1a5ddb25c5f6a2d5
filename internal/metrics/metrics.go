package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "worker_fleet"

// Recorder exposes price cache and inference metrics.
type Recorder struct {
	cacheLookups *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	inferences   *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "price_cache",
				Name:      "lookups_total",
				Help:      "Price cache lookups by symbol and result (hit, miss, stale).",
			},
			[]string{"symbol", "result"},
		),
		fetchErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "price_cache",
				Name:      "fetch_errors_total",
				Help:      "Failed market-data fetches by symbol.",
			},
			[]string{"symbol"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "price_cache",
				Name:      "last_price",
				Help:      "Last fetched reference price by symbol.",
			},
			[]string{"symbol"},
		),
		inferences: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inference",
				Name:      "requests_total",
				Help:      "Inference requests by topic and outcome.",
			},
			[]string{"topic", "outcome"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "inference",
				Name:      "duration_seconds",
				Help:      "Inference latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"topic"},
		),
	}
}

func (r *Recorder) CacheHit(symbol string) {
	r.cacheLookups.WithLabelValues(symbol, "hit").Inc()
}

func (r *Recorder) CacheMiss(symbol string) {
	r.cacheLookups.WithLabelValues(symbol, "miss").Inc()
}

func (r *Recorder) StaleServed(symbol string) {
	r.cacheLookups.WithLabelValues(symbol, "stale").Inc()
}

func (r *Recorder) FetchFailed(symbol string) {
	r.fetchErrors.WithLabelValues(symbol).Inc()
}

func (r *Recorder) PriceFetched(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// ObserveInference records one request. outcome is "ok", "bad_topic",
// "price_unavailable" or "predict_failed".
func (r *Recorder) ObserveInference(topic, outcome string, seconds float64) {
	r.inferences.WithLabelValues(topic, outcome).Inc()
	r.latency.WithLabelValues(topic).Observe(seconds)
}
