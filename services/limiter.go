package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevealLimiter caps reveal attempts per client and game in fixed windows
// kept in Redis. A nil limiter, or one without a client, allows everything.
type RevealLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRevealLimiter(client *redis.Client, limit int, window time.Duration) *RevealLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &RevealLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
	}
}

// Allow counts one attempt and reports whether it is within the limit.
// Redis failures are logged and let the attempt through.
func (l *RevealLimiter) Allow(ctx context.Context, gameID uint, clientID string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	count, err := l.incr(ctx, fmt.Sprintf("reveal:%d:%s", gameID, clientID))
	if err != nil {
		log.Printf("Reveal limiter unavailable: %v", err)
		return true
	}

	return count <= l.limit
}

func (l *RevealLimiter) incr(ctx context.Context, key string) (int64, error) {
	pipe := l.client.Pipeline()

	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	// The window starts with the first attempt and is not extended by later ones.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return 0, err
		}
	}

	return incr.Val(), nil
}
