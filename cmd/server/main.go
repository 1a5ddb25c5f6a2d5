package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"worker-fleet/internal/cache"
	"worker-fleet/internal/catalog"
	"worker-fleet/internal/config"
	"worker-fleet/internal/handler"
	"worker-fleet/internal/job"
	"worker-fleet/internal/logger"
	"worker-fleet/internal/metrics"
	"worker-fleet/internal/predict"
	"worker-fleet/internal/pricecache"
	"worker-fleet/internal/provider"
	"worker-fleet/internal/service"
	"worker-fleet/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "worker-fleet/docs"
)

var (
	loadEnvFunc       = godotenv.Load
	loadConfigFunc    = config.Load
	newLoggerFunc     = logger.New
	initTracerFunc    = tracing.InitTracer
	initRedisFunc     = cache.NewRedisClient
	newPriceFetcherFn = func(tracer trace.Tracer, cfg *config.Config) pricecache.Fetcher {
		return provider.NewBinanceProvider(tracer,
			provider.WithBaseURL(cfg.MarketDataURL),
			provider.WithTimeout(time.Duration(cfg.MarketDataTimeoutSecs)*time.Second),
			provider.WithRatePerMinute(cfg.MarketDataRatePerMin),
		)
	}
	startWarmerFunc        = func(w *job.CacheWarmer, ctx context.Context) { go w.Start(ctx) }
	newRouterFunc          = gin.New
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Worker Fleet Inference API
// @version         1.0
// @description     Per-topic price forecasts served to provisioned workers.

// @host      localhost:8000
// @BasePath  /
func main() {
	_ = loadEnvFunc()

	cfg := loadConfigFunc()

	log, err := newLoggerFunc(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logger config, using info: %v\n", err)
		log, _ = newLoggerFunc(logger.Config{Format: cfg.LogFormat})
	}
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Config{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("error shutting down tracer provider")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(reg)

	cat := catalog.Default()

	cacheOpts := []pricecache.Option{
		pricecache.WithLogger(log.With().Str("component", "pricecache").Logger()),
		pricecache.WithRecorder(recorder),
	}
	if cfg.RedisURL != "" {
		client, err := initRedisFunc(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, price snapshots disabled")
		} else {
			defer client.Close()
			cacheOpts = append(cacheOpts, pricecache.WithStore(cache.NewSnapshotStore(client)))
		}
	}

	prices := pricecache.New(cat, newPriceFetcherFn(tracer, cfg), cacheOpts...)
	if n := prices.Restore(ctx); n > 0 {
		log.Info().Int("symbols", n).Msg("restored price snapshots")
	}

	if cfg.CacheWarmSecs > 0 {
		warmer := job.NewCacheWarmer(tracer, prices, cat.Symbols(), cfg.CacheWarmSecs,
			log.With().Str("component", "cache-warmer").Logger())
		startWarmerFunc(warmer, ctx)
	}

	engine := predict.NewEngine(cat, log.With().Str("component", "predict").Logger())
	inference := service.NewInferenceService(tracer, cat, prices, engine, recorder)
	h := handler.New(tracer, inference, log)

	r := newRouterFunc()
	r.Use(
		gin.Recovery(),
		handler.RequestID(),
		handler.RequestLogger(log, "/health", "/metrics"),
		otelgin.Middleware(tracing.ServiceName),
	)

	h.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Info().Msg("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exiting")
}
