package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"worker-fleet/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	binanceBaseURL    = "https://api.binance.com"
	defaultQuoteAsset = "USDT"
	defaultTimeout    = 5 * time.Second
)

// BinanceProvider looks up spot prices from the Binance ticker API.
type BinanceProvider struct {
	client  *http.Client
	baseURL string
	quote   string
	timeout time.Duration
	tracer  trace.Tracer
	limiter *RateLimiter
}

type Option func(*BinanceProvider)

func WithBaseURL(base string) Option {
	return func(p *BinanceProvider) {
		if base != "" {
			p.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds a single lookup, including the rate limiter wait.
func WithTimeout(d time.Duration) Option {
	return func(p *BinanceProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithRatePerMinute replaces the default limiter.
func WithRatePerMinute(n int) Option {
	return func(p *BinanceProvider) {
		if n > 0 {
			p.limiter = NewRateLimiter(n, time.Minute/time.Duration(n))
		}
	}
}

// NewBinanceProvider creates a provider limited to 600 requests per minute
// unless configured otherwise.
func NewBinanceProvider(tracer trace.Tracer, opts ...Option) *BinanceProvider {
	p := &BinanceProvider{
		baseURL: binanceBaseURL,
		quote:   defaultQuoteAsset,
		timeout: defaultTimeout,
		tracer:  tracer,
		limiter: NewRateLimiter(600, 100*time.Millisecond),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = &http.Client{Timeout: p.timeout}
	return p
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// FetchPrice returns the latest price of symbol in the quote asset. Every
// failure is reported as a *domain.TransientFetchError.
func (p *BinanceProvider) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	ctx, span := p.tracer.Start(ctx, "binance.fetch-price")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	price, err := p.fetch(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return 0, &domain.TransientFetchError{Symbol: symbol, Err: err}
	}
	return price, nil
}

func (p *BinanceProvider) fetch(ctx context.Context, symbol string) (float64, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol)+p.quote)
	endpoint := p.baseURL + "/api/v3/ticker/price?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("binance API error %d: %s", resp.StatusCode, string(body))
	}

	var tp tickerPrice
	if err := json.Unmarshal(body, &tp); err != nil {
		return 0, fmt.Errorf("parse ticker: %w", err)
	}
	price, err := strconv.ParseFloat(tp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", tp.Price, err)
	}
	if price <= 0 {
		return 0, fmt.Errorf("non-positive price %v", price)
	}
	return price, nil
}
