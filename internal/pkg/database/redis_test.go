package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return &RedisClient{Client: client}, mr
}

func TestRedisClient_SetGetDelete(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "key", "value", time.Minute))

	value, err := rc.Get(ctx, "key")
	assert.NoError(t, err)
	assert.Equal(t, "value", value)

	require.NoError(t, rc.Delete(ctx, "key"))

	_, err = rc.Get(ctx, "key")
	assert.Equal(t, redis.Nil, err)
}

func TestRedisClient_SetNX(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	ok, err := rc.SetNX(ctx, "lock", "1", time.Minute)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = rc.SetNX(ctx, "lock", "1", time.Minute)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisClient_Exists(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	exists, err := rc.Exists(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, rc.Set(ctx, "present", "1", 0))

	exists, err = rc.Exists(ctx, "present")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisClient_HashOperations(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, rc.HMSet(ctx, "h", map[string]interface{}{
		"lat": "-6.175392",
		"lng": "106.827153",
	}))

	fields, err := rc.HGetAll(ctx, "h")
	assert.NoError(t, err)
	assert.Equal(t, "-6.175392", fields["lat"])
	assert.Equal(t, "106.827153", fields["lng"])
}

func TestRedisClient_GeoOperations(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, rc.GeoAdd(ctx, "geo", 106.827153, -6.175392, "driver-1"))
	require.NoError(t, rc.GeoAdd(ctx, "geo", 107.827153, -7.175392, "driver-2"))

	locations, err := rc.GeoRadius(ctx, "geo", 106.827153, -6.175392, 5, "km")
	assert.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "driver-1", locations[0].Name)

	require.NoError(t, rc.ZRem(ctx, "geo", "driver-1"))

	locations, err = rc.GeoRadius(ctx, "geo", 106.827153, -6.175392, 5, "km")
	assert.NoError(t, err)
	assert.Empty(t, locations)
}

func TestRedisClient_Expire(t *testing.T) {
	rc, mr := setupTestRedis(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, rc.Set(ctx, "key", "value", 0))
	require.NoError(t, rc.Expire(ctx, "key", 10*time.Second))

	mr.FastForward(11 * time.Second)

	exists, err := rc.Exists(ctx, "key")
	assert.NoError(t, err)
	assert.False(t, exists)
}
