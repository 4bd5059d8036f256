package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores entries in a Redis server with a TTL
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects to addr and verifies the server answers
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl, prefix: "finplan:"}, nil
}

// Get returns the entry, treating any error as a miss
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Warning: redis get %s: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores the entry with the cache TTL
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.prefix+key, value, r.ttl).Err()
}

// Close releases the connection pool
func (r *Redis) Close() error {
	return r.client.Close()
}
