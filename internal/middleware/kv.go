package middleware

import (
	"context"
	"time"
)

// KV is the slice of the Redis client the caching, limiting and
// idempotence middlewares need. Get returns nil, nil on a miss.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
