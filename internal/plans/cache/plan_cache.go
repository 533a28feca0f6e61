// Package cache keeps recently generated plans in redis so identical form
// submissions do not trigger a second completion round trip.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

const planKeyPrefix = "devplan:plan:" // devplan:plan:{request-hash}

// ErrMiss is returned when no cached plan exists for a request.
var ErrMiss = errors.New("plan cache miss")

// PlanCache stores generated plans keyed by a hash of the request.
type PlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlanCache(client *redis.Client, ttl time.Duration) *PlanCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PlanCache{client: client, ttl: ttl}
}

// Key derives the cache key from the normalized request. Two requests with
// identical fields share a key.
func Key(req *domain.PlanRequest) string {
	b, _ := json.Marshal(req)
	sum := sha256.Sum256(b)
	return planKeyPrefix + hex.EncodeToString(sum[:])
}

// Get returns the cached plan for a request, or ErrMiss.
func (c *PlanCache) Get(ctx context.Context, req *domain.PlanRequest) (*domain.GeneratedPlan, error) {
	data, err := c.client.Get(ctx, Key(req)).Result()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached plan: %w", err)
	}

	var plan domain.GeneratedPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached plan: %w", err)
	}

	plan.Cached = true
	return &plan, nil
}

// Put stores a plan under the request's key with the configured TTL.
func (c *PlanCache) Put(ctx context.Context, req *domain.PlanRequest, plan *domain.GeneratedPlan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := c.client.Set(ctx, Key(req), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache plan: %w", err)
	}
	return nil
}

// Invalidate removes the cached plan for a request.
func (c *PlanCache) Invalidate(ctx context.Context, req *domain.PlanRequest) error {
	if err := c.client.Del(ctx, Key(req)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached plan: %w", err)
	}
	return nil
}
