package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubRedisSeams(t *testing.T, pingErr error) *string {
	t.Helper()
	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
		Client = nil
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return pingErr
	}
	return &capturedAddr
}

func TestInitRedisWithCustomAddr(t *testing.T) {
	addr := stubRedisSeams(t, nil)

	require.NoError(t, InitRedis(context.Background(), "redis:9999", zap.NewNop()))
	assert.Equal(t, "redis:9999", *addr)
	assert.NotNil(t, Client)
}

func TestInitRedisParsesURL(t *testing.T) {
	addr := stubRedisSeams(t, nil)

	require.NoError(t, InitRedis(context.Background(), "redis://cache:6380/2", zap.NewNop()))
	assert.Equal(t, "cache:6380", *addr)
}

func TestInitRedisEmptyAddrDisablesCache(t *testing.T) {
	addr := stubRedisSeams(t, nil)

	require.NoError(t, InitRedis(context.Background(), "", zap.NewNop()))
	assert.Empty(t, *addr)
	assert.Nil(t, Client)
}

func TestInitRedisPingFailure(t *testing.T) {
	stubRedisSeams(t, errors.New("refused"))

	err := InitRedis(context.Background(), "redis:9999", zap.NewNop())
	require.Error(t, err)
	assert.Nil(t, Client)
}

func TestJSONRoundTripWithMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	var got map[string]float64
	ok, err := GetJSON(ctx, client, "missing", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetJSON(ctx, client, "gas", map[string]float64{"gwei": 12.5}, time.Minute))
	ok, err = GetJSON(ctx, client, "gas", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 12.5, got["gwei"])

	mr.FastForward(2 * time.Minute)
	ok, err = GetJSON(ctx, client, "gas", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}
