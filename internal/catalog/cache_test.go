// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCache(client, "catalog:snapshot", 6*time.Hour), mr
}

func TestCache_MissReturnsNothing(t *testing.T) {
	cache, _ := newTestCache(t)

	teams, players, err := cache.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, teams)
	assert.Nil(t, players)
}

func TestCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, testTeams(), testPlayers()))

	teams, players, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, testTeams(), teams)
	assert.Equal(t, testPlayers(), players)

	ttl := mr.TTL("catalog:snapshot")
	assert.Equal(t, 6*time.Hour, ttl)
}

func TestCache_CorruptEntryBehavesLikeMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Set("catalog:snapshot", "{not json")

	teams, players, err := cache.Get(context.Background())

	require.NoError(t, err)
	assert.Nil(t, teams)
	assert.Nil(t, players)
}
