package redis_test

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/domain"
	"github.com/Rrens/smartchat/internal/repository/redis"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	if os.Getenv("REDIS_ADDR") == "" {
		t.Skip("REDIS_ADDR not set - run as integration test")
	}
	host, port, err := net.SplitHostPort(os.Getenv("REDIS_ADDR"))
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	client, err := redis.NewClient(context.Background(), config.RedisConfig{Host: host, Port: portNum})
	require.NoError(t, err)
	return client
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := redis.NewKVStore(newTestClient(t), "test-"+uuid.NewString())
	defer store.Close()

	_, err := store.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "smartchat_active_session", "session_1"))
	got, err := store.Get(ctx, "smartchat_active_session")
	require.NoError(t, err)
	assert.Equal(t, "session_1", got)

	deleted, err := store.Flush(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = store.Get(ctx, "smartchat_active_session")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRateLimiter_Window(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	defer client.Close()

	limiter := redis.NewRateLimiter(client, 1, 1)
	key := "test-" + uuid.NewString()
	defer limiter.Reset(ctx, key)

	for i := 0; i < 2; i++ {
		allowed, _, _, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, _, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}
