package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port string

	MarketDataURL         string
	MarketDataTimeoutSecs int
	MarketDataRatePerMin  int

	RedisURL string

	TracingEnabled bool
	OTLPEndpoint   string

	LogLevel  string
	LogFormat string

	CacheWarmSecs int

	// Warnings collects fallbacks applied while loading. They are logged
	// once the logger exists.
	Warnings []string
}

func Load() *Config {
	cfg := &Config{}

	cfg.Port = strings.TrimSpace(os.Getenv("PORT"))
	if cfg.Port == "" {
		cfg.Port = "8000"
	}

	cfg.MarketDataURL = strings.TrimRight(strings.TrimSpace(os.Getenv("MARKET_DATA_URL")), "/")
	if cfg.MarketDataURL == "" {
		cfg.MarketDataURL = "https://api.binance.com"
	}

	cfg.MarketDataTimeoutSecs = cfg.positiveInt("MARKET_DATA_TIMEOUT_SECS", 5)
	cfg.MarketDataRatePerMin = cfg.positiveInt("MARKET_DATA_RATE_PER_MIN", 600)

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	if cfg.RedisURL == "" {
		cfg.warn("REDIS_URL not set, price snapshots disabled")
	}

	cfg.TracingEnabled = !strings.EqualFold(strings.TrimSpace(os.Getenv("TRACING_ENABLED")), "false")
	cfg.OTLPEndpoint = strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.LogFormat = strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		cfg.warn(fmt.Sprintf("unsupported LOG_FORMAT=%q, defaulting to json", cfg.LogFormat))
		cfg.LogFormat = "json"
	}

	cfg.CacheWarmSecs = 0
	if v := strings.TrimSpace(os.Getenv("CACHE_WARM_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheWarmSecs = n
		} else {
			cfg.warn(fmt.Sprintf("invalid CACHE_WARM_SECS=%q, cache warmer disabled", v))
		}
	}

	return cfg
}

func (c *Config) positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return n
	}
	c.warn(fmt.Sprintf("invalid %s=%q, defaulting to %d", key, v, def))
	return def
}

func (c *Config) warn(msg string) {
	c.Warnings = append(c.Warnings, msg)
}
