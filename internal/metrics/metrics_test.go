package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.CacheHit("ETH")
	r.CacheHit("ETH")
	r.CacheMiss("ETH")
	r.StaleServed("BTC")
	r.FetchFailed("BTC")
	r.PriceFetched("ETH", 2500)
	r.ObserveInference("1", "ok", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("ETH", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("ETH", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("BTC", "stale")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetchErrors.WithLabelValues("BTC")))
	assert.Equal(t, 2500.0, testutil.ToFloat64(r.lastPrice.WithLabelValues("ETH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.inferences.WithLabelValues("1", "ok")))
}

func TestNewOnSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
