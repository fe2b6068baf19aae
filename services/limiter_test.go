package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) (*RevealLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRevealLimiter(client, limit, window), mr
}

func TestRevealLimiterBlocksAfterLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		if !limiter.Allow(ctx, 1, "10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if limiter.Allow(ctx, 1, "10.0.0.1") {
		t.Fatal("fourth attempt should be blocked")
	}

	if !limiter.Allow(ctx, 2, "10.0.0.1") {
		t.Error("another game should have its own budget")
	}
	if !limiter.Allow(ctx, 1, "10.0.0.2") {
		t.Error("another client should have its own budget")
	}
}

func TestRevealLimiterWindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, 1, "c") {
		t.Fatal("first attempt should be allowed")
	}
	if limiter.Allow(ctx, 1, "c") {
		t.Fatal("second attempt should be blocked")
	}

	if ttl := mr.TTL("reveal:1:c"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected window ttl %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)

	if !limiter.Allow(ctx, 1, "c") {
		t.Error("attempt after the window should be allowed")
	}
}

func TestRevealLimiterFailsOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	mr.Close()

	for i := 0; i < 3; i++ {
		if !limiter.Allow(context.Background(), 1, "c") {
			t.Fatal("limiter should allow attempts when redis is down")
		}
	}
}

func TestNilRevealLimiterAllows(t *testing.T) {
	var limiter *RevealLimiter
	if !limiter.Allow(context.Background(), 1, "c") {
		t.Error("nil limiter should allow")
	}
	if !NewRevealLimiter(nil, 1, time.Minute).Allow(context.Background(), 1, "c") {
		t.Error("limiter without client should allow")
	}
}
