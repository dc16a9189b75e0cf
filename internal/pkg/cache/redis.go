// Package cache provides the idempotent envelope replay cache.
//
// After an orchestration completes successfully, its 201 envelope is stored
// under the caller's idempotency key. A later request with the same key is
// answered from the cache without touching the upstream services. This is a
// best-effort optimisation: cache misses and errors fall through to a full
// orchestration, and at-most-once confirmation remains the order service's
// responsibility.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL bounds how long a finished envelope can be replayed.
const TTL = 24 * time.Hour

// ReplayCache stores and retrieves finished success envelopes by
// idempotency key.
type ReplayCache interface {
	// Put stores the serialized envelope. Errors are the caller's to log
	// and ignore.
	Put(ctx context.Context, idempotencyKey string, envelope []byte) error
	// Lookup returns the stored envelope, or nil on a miss.
	Lookup(ctx context.Context, idempotencyKey string) ([]byte, error)
}

type redisReplayCache struct {
	client      *redis.Client
	serviceName string
}

// NewRedisReplayCache connects to Redis at addr. serviceName namespaces the
// keys so several services can share one instance.
func NewRedisReplayCache(addr, serviceName string) ReplayCache {
	return &redisReplayCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

func (r *redisReplayCache) Put(ctx context.Context, idempotencyKey string, envelope []byte) error {
	return r.client.Set(ctx, r.key(idempotencyKey), envelope, TTL).Err()
}

func (r *redisReplayCache) Lookup(ctx context.Context, idempotencyKey string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(idempotencyKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *redisReplayCache) key(idempotencyKey string) string {
	return fmt.Sprintf("%s:envelope:%s", r.serviceName, idempotencyKey)
}
