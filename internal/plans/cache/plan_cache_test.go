package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devplan-ai/devplan-backend/internal/plans/domain"
)

func setupCache(t *testing.T) (*PlanCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewPlanCache(client, 5*time.Minute), mr
}

func samplePlan() *domain.GeneratedPlan {
	return &domain.GeneratedPlan{
		Text:        "## Project Analysis\nA plan.",
		Model:       "gpt-3.5-turbo",
		TokensUsed:  512,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestPlanCache_RoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	req := &domain.PlanRequest{Description: "an online store for plants", ProjectType: "ecommerce"}

	_, err := c.Get(ctx, req)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Put(ctx, req, samplePlan()))

	got, err := c.Get(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 512, got.TokensUsed)
	assert.True(t, got.Cached, "cached plans must be flagged")
}

func TestPlanCache_KeyDependsOnRequest(t *testing.T) {
	a := Key(&domain.PlanRequest{Description: "an online store for plants"})
	b := Key(&domain.PlanRequest{Description: "an online store for plants", Scale: "large"})

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "devplan:plan:")
}

func TestPlanCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()
	req := &domain.PlanRequest{Description: "a short lived cached plan"}

	require.NoError(t, c.Put(ctx, req, samplePlan()))

	mr.FastForward(6 * time.Minute)

	_, err := c.Get(ctx, req)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestPlanCache_Invalidate(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()
	req := &domain.PlanRequest{Description: "a plan that gets invalidated"}

	require.NoError(t, c.Put(ctx, req, samplePlan()))
	require.NoError(t, c.Invalidate(ctx, req))

	_, err := c.Get(ctx, req)
	assert.ErrorIs(t, err, ErrMiss)
}
