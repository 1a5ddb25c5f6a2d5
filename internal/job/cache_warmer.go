package job

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/utils/clock"
)

type PriceGetter interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
}

// CacheWarmer periodically reads every asset through the price cache so
// slots are refreshed before workers ask for them.
type CacheWarmer struct {
	tracer   trace.Tracer
	prices   PriceGetter
	symbols  []string
	interval time.Duration
	clock    clock.WithTicker
	log      zerolog.Logger
}

func NewCacheWarmer(tracer trace.Tracer, prices PriceGetter, symbols []string, intervalSecs int, log zerolog.Logger) *CacheWarmer {
	return &CacheWarmer{
		tracer:   tracer,
		prices:   prices,
		symbols:  append([]string(nil), symbols...),
		interval: time.Duration(intervalSecs) * time.Second,
		clock:    clock.RealClock{},
		log:      log,
	}
}

// Start warms immediately and then on every tick. Blocks until ctx is
// cancelled.
func (w *CacheWarmer) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Strs("symbols", w.symbols).Msg("cache warmer starting")

	w.warm(ctx)

	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("cache warmer stopped")
			return
		case <-ticker.C():
			w.warm(ctx)
		}
	}
}

func (w *CacheWarmer) warm(ctx context.Context) int {
	ctx, span := w.tracer.Start(ctx, "job.cache-warm")
	defer span.End()

	ok := 0
	for _, sym := range w.symbols {
		if ctx.Err() != nil {
			break
		}
		if _, err := w.prices.GetPrice(ctx, sym); err != nil {
			w.log.Warn().Err(err).Str("symbol", sym).Msg("cache warm failed")
			continue
		}
		ok++
	}
	span.SetAttributes(attribute.Int("warmed", ok))
	return ok
}
