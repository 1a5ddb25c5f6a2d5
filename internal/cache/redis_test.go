package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func stubRedis(t *testing.T, pingErr error) *string {
	t.Helper()
	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return pingErr
	}
	return &capturedAddr
}

func TestNewRedisClientWithCustomAddr(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := NewRedisClient(context.Background(), "redis:9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if *addr != "redis:9999" {
		t.Fatalf("expected custom addr, got %s", *addr)
	}
}

func TestNewRedisClientDefaults(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := NewRedisClient(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if *addr != "localhost:6379" {
		t.Fatalf("expected default addr, got %s", *addr)
	}
}

func TestNewRedisClientParsesURL(t *testing.T) {
	addr := stubRedis(t, nil)

	client, err := NewRedisClient(context.Background(), "redis://:secret@cache:6380/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if *addr != "cache:6380" {
		t.Fatalf("expected parsed addr, got %s", *addr)
	}
}

func TestNewRedisClientPingFailure(t *testing.T) {
	stubRedis(t, errors.New("connection refused"))

	if _, err := NewRedisClient(context.Background(), "redis:9999"); err == nil {
		t.Fatal("expected ping failure to surface")
	}
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	fake := newFakeRedis()
	store := NewSnapshotStore(fake)
	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := store.Save(context.Background(), "ETH", 2500.5, at); err != nil {
		t.Fatalf("save: %v", err)
	}
	if fake.ttl["price:ETH"] != snapshotRetention {
		t.Fatalf("expected retention %v, got %v", snapshotRetention, fake.ttl["price:ETH"])
	}

	got, ok, err := store.Load(context.Background(), "ETH")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.Price != 2500.5 || !got.FetchedAt.Equal(at) || !got.Stale {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestSnapshotStoreMissAndErrors(t *testing.T) {
	fake := newFakeRedis()
	store := NewSnapshotStore(fake)

	if _, ok, err := store.Load(context.Background(), "BTC"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	fake.data["price:BTC"] = []byte("not json")
	if _, _, err := store.Load(context.Background(), "BTC"); err == nil {
		t.Fatal("expected decode error")
	}

	fake.getErr = errors.New("timeout")
	if _, _, err := store.Load(context.Background(), "BTC"); err == nil {
		t.Fatal("expected get error")
	}

	fake.setErr = errors.New("readonly")
	if err := store.Save(context.Background(), "BTC", 1, time.Now()); err == nil {
		t.Fatal("expected set error")
	}
}

type fakeRedis struct {
	data   map[string][]byte
	ttl    map[string]time.Duration
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
