// Package predict generates synthetic price forecasts. Output is a pure
// function of (price, timeframe, worker id, wall-clock minute): the random
// source is re-seeded from the minute and worker id on every call.
package predict

import (
	"encoding/binary"
	"math"
	"math/rand/v2"
	"time"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"

	"github.com/rs/zerolog"
	"github.com/zeebo/xxh3"
)

type Engine struct {
	catalog *catalog.Catalog
	log     zerolog.Logger
}

func NewEngine(cat *catalog.Catalog, log zerolog.Logger) *Engine {
	return &Engine{catalog: cat, log: log}
}

// Predict returns currentPrice moved by a percentage drawn from the
// timeframe's range. Long-horizon timeframes pick a direction first and
// never move by less than the range's MinChange.
func (e *Engine) Predict(currentPrice float64, timeframe string, workerID int, now time.Time) (domain.Prediction, error) {
	if math.IsNaN(currentPrice) || math.IsInf(currentPrice, 0) || currentPrice <= 0 {
		return domain.Prediction{}, domain.ConfigErrorf("invalid base price %v", currentPrice)
	}
	r, err := e.catalog.Timeframe(timeframe)
	if err != nil {
		return domain.Prediction{}, err
	}

	rng := SeededRand(now, workerID)

	var change float64
	if r.LongHorizon {
		if rng.Float64() > 0.5 {
			change = uniform(rng, r.MinChange, r.Max)
		} else {
			change = uniform(rng, r.Min, -r.MinChange)
		}
	} else {
		change = uniform(rng, r.Min, r.Max)
	}

	p := domain.Prediction{
		BasePrice:     currentPrice,
		ChangePercent: change,
		Value:         currentPrice * (1 + change/100),
	}

	e.log.Info().
		Int("worker_id", workerID).
		Str("timeframe", timeframe).
		Float64("base_price", p.BasePrice).
		Float64("change_pct", p.ChangePercent).
		Float64("predicted", p.Value).
		Msg("prediction")

	return p, nil
}

// SeededRand returns a random source seeded from now truncated to the
// minute and workerID.
func SeededRand(now time.Time, workerID int) *rand.Rand {
	seed := Seed(now, workerID)
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Seed mixes the minute and worker id into a 64-bit seed.
func Seed(now time.Time, workerID int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(now.Truncate(time.Minute).Unix()))
	binary.LittleEndian.PutUint64(buf[8:], uint64(int64(workerID)))
	return xxh3.Hash(buf[:])
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
