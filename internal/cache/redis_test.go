package cache

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/n0xlf/hamchallenges/internal/config"
	"github.com/n0xlf/hamchallenges/pkg/logger"
)

// setupTestCache starts a miniredis server and connects a cache to it.
func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("Failed to parse miniredis address: %v", err)
	}
	port, _ := strconv.Atoi(portStr)

	cache, err := NewRedisCache(&config.RedisConfig{Host: host, Port: port}, logger.New("debug", "console", "stdout"))
	if err != nil {
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	val, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if val != "v" {
		t.Errorf("Expected v, got %q", val)
	}
}

func TestRedisCache_GetMissing(t *testing.T) {
	cache, _ := setupTestCache(t)

	val, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected empty string for a missing key, got %q", val)
	}
}

func TestRedisCache_Del(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := cache.Del(ctx, "k"); err != nil {
		t.Fatalf("Del() failed: %v", err)
	}

	val, err := cache.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if val != "" {
		t.Errorf("Expected key deleted, got %q", val)
	}
}

func TestRedisCache_IncrWithTTL(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := cache.IncrWithTTL(ctx, "ratelimit:fd_tok", time.Minute)
		if err != nil {
			t.Fatalf("IncrWithTTL() failed: %v", err)
		}
		if count != want {
			t.Errorf("Expected count %d, got %d", want, count)
		}
	}

	if mr.TTL("ratelimit:fd_tok") != time.Minute {
		t.Errorf("Expected a one-minute TTL on the counter, got %v", mr.TTL("ratelimit:fd_tok"))
	}

	// The window resets once the TTL elapses.
	mr.FastForward(time.Minute + time.Second)
	count, err := cache.IncrWithTTL(ctx, "ratelimit:fd_tok", time.Minute)
	if err != nil {
		t.Fatalf("IncrWithTTL() after expiry failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected the counter to restart at 1, got %d", count)
	}
}
