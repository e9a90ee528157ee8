package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要本地Redis（localhost:6379），不可用时跳过
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis不可用: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestTokenBlacklist(t *testing.T) {
	client := newTestClient(t)
	bl := NewTokenBlacklist(client)
	ctx := context.Background()

	jti := "test-" + time.Now().Format("150405.000000")

	revoked, err := bl.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, jti, time.Minute))
	revoked, err = bl.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, blacklistPrefix+jti).Result()
	require.NoError(t, err)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "黑名单应随Token过期")

	require.NoError(t, bl.Revoke(ctx, "expired-"+jti, 0))
	revoked, err = bl.IsRevoked(ctx, "expired-"+jti)
	require.NoError(t, err)
	assert.False(t, revoked, "已过期的Token不需要记录")
}
