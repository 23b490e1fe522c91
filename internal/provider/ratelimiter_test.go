package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	require.NoError(t, limiter.Wait(ctx))
	assert.Less(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 0, limiter.Available())
}

func TestRateLimiterRefillUsesClock(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	limiter := NewRateLimiter(3, 10*time.Second)
	limiter.now = func() time.Time { return now }
	limiter.lastRefill = now

	for i := 0; i < 3; i++ {
		_, ok := limiter.take()
		require.True(t, ok)
	}
	delay, ok := limiter.take()
	assert.False(t, ok)
	assert.Equal(t, 10*time.Second, delay)

	now = now.Add(25 * time.Second)
	assert.Equal(t, 2, limiter.Available())

	now = now.Add(time.Hour)
	assert.Equal(t, 3, limiter.Available())
}

func TestRateLimiterHonorsContext(t *testing.T) {
	limiter := NewRateLimiter(1, time.Second)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.ErrorIs(t, limiter.Wait(ctx), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestRateLimiterZeroIntervalNeverBlocks(t *testing.T) {
	limiter := NewRateLimiter(0, 0)
	for i := 0; i < 5; i++ {
		require.NoError(t, limiter.Wait(context.Background()))
	}
}
