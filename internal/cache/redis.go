package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"worker-fleet/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKeyPrefix = "price:"
	snapshotRetention = 24 * time.Hour
)

var (
	newRedisClient = func(opts *redis.Options) *redis.Client {
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return client.Ping(ctx).Err()
	}
	parseRedisURL = redis.ParseURL
)

// NewRedisClient connects to addr, which is either host:port or a
// redis:// / rediss:// URL.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		addr = "localhost:6379"
	}

	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := parseRedisURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := newRedisClient(opts)
	if err := pingRedis(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

// RedisClient is the subset of go-redis used by the snapshot store.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// SnapshotStore keeps the last good price per symbol in Redis so a restarted
// service still has a fallback when the market-data API is down.
type SnapshotStore struct {
	client RedisClient
}

func NewSnapshotStore(client RedisClient) *SnapshotStore {
	return &SnapshotStore{client: client}
}

type snapshot struct {
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Save overwrites the snapshot for symbol.
func (s *SnapshotStore) Save(ctx context.Context, symbol string, price float64, fetchedAt time.Time) error {
	data, err := json.Marshal(snapshot{Price: price, FetchedAt: fetchedAt.UTC()})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotKeyPrefix+symbol, data, snapshotRetention).Err()
}

// Load returns the stored snapshot for symbol; ok is false when none exists.
func (s *SnapshotStore) Load(ctx context.Context, symbol string) (domain.CachedPrice, bool, error) {
	data, err := s.client.Get(ctx, snapshotKeyPrefix+symbol).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.CachedPrice{}, false, nil
	}
	if err != nil {
		return domain.CachedPrice{}, false, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.CachedPrice{}, false, fmt.Errorf("decode snapshot for %s: %w", symbol, err)
	}
	return domain.CachedPrice{
		Symbol:    symbol,
		Price:     snap.Price,
		FetchedAt: snap.FetchedAt,
		Stale:     true,
	}, true, nil
}
