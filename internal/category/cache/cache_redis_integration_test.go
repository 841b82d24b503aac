//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lifepath/internal/category/cache"
	"lifepath/internal/category/models"
	"lifepath/pkg/testutil/containers"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	c := cache.NewRedis(rc.Client, time.Hour)

	_, ok, err := c.GetGrouped(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	grouped := models.GroupedCategories{
		"Arts":  {{ID: 1, Name: "Painters"}},
		"Other": {{ID: 2, Name: "Poets"}},
	}
	require.NoError(t, c.SetGrouped(ctx, grouped))

	got, ok, err := c.GetGrouped(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, grouped, got)

	require.NoError(t, c.Clear(ctx))
	_, ok, err = c.GetGrouped(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRedisCacheExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	rc := containers.NewRedisContainer(t)
	c := cache.NewRedis(rc.Client, time.Second)

	require.NoError(t, c.SetGrouped(ctx, models.GroupedCategories{
		"Other": {{ID: 1, Name: "Painters"}},
	}))

	require.Eventually(t, func() bool {
		_, ok, err := c.GetGrouped(ctx)
		return err == nil && !ok
	}, 5*time.Second, 250*time.Millisecond)
}
