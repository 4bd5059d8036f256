// Package cache stores computed calculator results keyed by their share
// encoding, in process memory or in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	json "github.com/goccy/go-json"

	"finplan/internal/models"
	"finplan/internal/services/sharestate"
)

// Cache is a byte store with per-entry expiry
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// New returns a Redis cache when redisAddr is set and reachable, otherwise an
// in-memory cache
func New(ctx context.Context, redisAddr string, ttl time.Duration) Cache {
	if redisAddr != "" {
		r, err := NewRedis(ctx, redisAddr, ttl)
		if err == nil {
			log.Printf("Caching results in redis at %s", redisAddr)
			return r
		}
		log.Printf("Warning: %v; falling back to in-memory cache", err)
	}
	return NewMemory(ttl, DefaultMaxEntries)
}

// Key hashes a calculation request. Parameters go through the share codec,
// so equal parameter sets map to the same key regardless of map order.
func Key(id models.CalculatorID, params models.Params, advanced bool) string {
	data := sharestate.Encode(id, params)
	if advanced {
		data += "&advanced=true"
	}
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("calc:%x", hash[:16])
}

// Results caches calculation results on top of a byte cache
type Results struct {
	store Cache
}

// NewResults wraps a byte cache
func NewResults(store Cache) *Results {
	return &Results{store: store}
}

// Get returns a cached result, or nil on a miss or an undecodable entry
func (r *Results) Get(ctx context.Context, key string) *models.CalculationResult {
	data, ok := r.store.Get(ctx, key)
	if !ok {
		return nil
	}
	var result models.CalculationResult
	if err := json.Unmarshal(data, &result); err != nil {
		log.Printf("Warning: discarding cached result %s: %v", key, err)
		return nil
	}
	return &result
}

// Set stores a result. Failures are logged; the cache is never required for
// a calculation to succeed.
func (r *Results) Set(ctx context.Context, key string, result *models.CalculationResult) {
	if !result.Finite() {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		log.Printf("Warning: failed to encode result for cache: %v", err)
		return
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		log.Printf("Warning: failed to cache result: %v", err)
	}
}

// GetOrCompute returns the cached result for key, computing and caching it
// on a miss
func (r *Results) GetOrCompute(ctx context.Context, key string, compute func() *models.CalculationResult) *models.CalculationResult {
	if cached := r.Get(ctx, key); cached != nil {
		return cached
	}
	result := compute()
	r.Set(ctx, key, result)
	return result
}
