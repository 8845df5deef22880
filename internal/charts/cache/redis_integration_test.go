//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"lookalike/internal/charts/cache"
	"lookalike/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *cache.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = cache.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.redis.Reset(s.T())
}

func (s *RedisStoreSuite) TestBehindBreaker() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Health(ctx))

	b := cache.NewBreaker(s.store, 2, time.Minute)
	key := cache.Key("projection", "digest")
	s.Require().NoError(b.Set(ctx, key, []byte("png"), time.Minute))
	got, ok, err := b.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte("png"), got)
	s.False(b.IsOpen())
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	key := cache.Key("scatter", "digest", "all")

	_, ok, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Set(ctx, key, []byte{0x89, 'P', 'N', 'G'}, time.Minute))
	got, ok, err := s.store.Get(ctx, key)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal([]byte{0x89, 'P', 'N', 'G'}, got)
}

func (s *RedisStoreSuite) TestTTLApplied() {
	ctx := context.Background()
	key := cache.Key("projection", "digest")
	s.Require().NoError(s.store.Set(ctx, key, []byte("v"), time.Minute))

	ttl, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}

func (s *RedisStoreSuite) TestNoTTLPersists() {
	ctx := context.Background()
	key := cache.Key("projection", "forever")
	s.Require().NoError(s.store.Set(ctx, key, []byte("v"), 0))

	ttl, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.Equal(time.Duration(-1), ttl)
}
