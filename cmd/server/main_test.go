package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"worker-fleet/internal/config"
	"worker-fleet/internal/job"
	"worker-fleet/internal/pricecache"
	"worker-fleet/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type stubFetcher struct{}

func (stubFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	return 100, nil
}

type response struct {
	code int
	body string
}

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var router *gin.Engine
	got := map[string]response{}
	warmerStarted := false

	restore := stubServerDeps(&config.Config{Port: "0", RedisURL: "redis:6379", CacheWarmSecs: 5, LogLevel: "info", LogFormat: "json"})
	defer restore()

	newRouterFunc = func(opts ...gin.OptionFunc) *gin.Engine {
		router = gin.New(opts...)
		return router
	}
	startWarmerFunc = func(*job.CacheWarmer, context.Context) { warmerStarted = true }
	waitForSignalFunc = func(<-chan os.Signal) {
		for _, target := range []string{"/health", "/topics", "/inference/999", "/inference/1?worker_id=1", "/metrics"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			got[target] = response{w.Code, w.Body.String()}
		}
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}

	assert.True(t, warmerStarted)
	assert.Equal(t, http.StatusOK, got["/health"].code)
	assert.Equal(t, http.StatusOK, got["/topics"].code)
	assert.Equal(t, http.StatusBadRequest, got["/inference/999"].code)

	inf := got["/inference/1?worker_id=1"]
	require.Equal(t, http.StatusOK, inf.code)
	v, err := strconv.ParseFloat(inf.body, 64)
	require.NoError(t, err)
	assert.InDelta(t, 100, v, 0.15)

	assert.Equal(t, http.StatusOK, got["/metrics"].code)
	assert.Contains(t, got["/metrics"].body, "worker_fleet_inference_requests_total")
}

func TestMainBootstrapWithoutOptionalDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps(&config.Config{Port: "0", LogLevel: "loud"})
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps(cfg *config.Config) func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitTracer := initTracerFunc
	origInitRedis := initRedisFunc
	origNewFetcher := newPriceFetcherFn
	origStartWarmer := startWarmerFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config { return cfg }
	initTracerFunc = func(ctx context.Context, _ tracing.Config) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	initRedisFunc = func(context.Context, string) (*redis.Client, error) {
		return nil, errors.New("connection refused")
	}
	newPriceFetcherFn = func(trace.Tracer, *config.Config) pricecache.Fetcher { return stubFetcher{} }
	startWarmerFunc = func(*job.CacheWarmer, context.Context) {}
	newRouterFunc = func(opts ...gin.OptionFunc) *gin.Engine { return gin.New(opts...) }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initTracerFunc = origInitTracer
		initRedisFunc = origInitRedis
		newPriceFetcherFn = origNewFetcher
		startWarmerFunc = origStartWarmer
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
