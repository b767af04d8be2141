package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/hbond-engine/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/hbond-engine/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mr     *miniredis.Miniredis
	client *Client
	cache  *Cache
}

func (s *CacheTestSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	client, err := NewClient(&RedisConfig{Addr: s.mr.Addr()}, logging.NewNopLogger())
	require.NoError(s.T(), err)
	s.client = client
	s.cache = NewCache(client, nil, WithPrefix("test:"), WithDefaultTTL(time.Minute))
}

func (s *CacheTestSuite) TearDownTest() {
	_ = s.client.Close()
}

type testResult struct {
	Name  string `json:"name"`
	Bonds int    `json:"bonds"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := testResult{Name: "gc", Bonds: 3}
	data, _ := json.Marshal(val)
	require.NoError(s.T(), s.mr.Set("test:k1", string(data)))

	var dest testResult
	require.NoError(s.T(), s.cache.Get(context.Background(), "k1", &dest))
	assert.Equal(s.T(), val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	var dest testResult
	err := s.cache.Get(context.Background(), "absent", &dest)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeNotFound))
}

func (s *CacheTestSuite) TestGet_Corrupt() {
	require.NoError(s.T(), s.mr.Set("test:bad", "{not json"))

	var dest testResult
	err := s.cache.Get(context.Background(), "bad", &dest)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_DefaultTTLWithJitter() {
	require.NoError(s.T(), s.cache.Set(context.Background(), "k", testResult{Name: "x"}, 0))

	assert.True(s.T(), s.mr.Exists("test:k"))
	ttl := s.mr.TTL("test:k")
	assert.GreaterOrEqual(s.T(), ttl, 54*time.Second)
	assert.LessOrEqual(s.T(), ttl, 66*time.Second)

	s.mr.FastForward(2 * time.Minute)
	assert.False(s.T(), s.mr.Exists("test:k"))
}

func (s *CacheTestSuite) TestDelete() {
	require.NoError(s.T(), s.mr.Set("test:a", "1"))
	require.NoError(s.T(), s.mr.Set("test:b", "2"))

	require.NoError(s.T(), s.cache.Delete(context.Background(), "a", "b"))
	assert.False(s.T(), s.mr.Exists("test:a"))
	assert.False(s.T(), s.mr.Exists("test:b"))
	assert.NoError(s.T(), s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSet_LoadsOnceThenHits() {
	var calls int32
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return testResult{Name: "gc", Bonds: 3}, nil
	}

	var first, second testResult
	require.NoError(s.T(), s.cache.GetOrSet(context.Background(), "run", &first, 0, loader))
	require.NoError(s.T(), s.cache.GetOrSet(context.Background(), "run", &second, 0, loader))

	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&calls))
	assert.Equal(s.T(), first, second)
	assert.Equal(s.T(), 3, second.Bonds)
}

func (s *CacheTestSuite) TestGetOrSet_ConcurrentCallersShareLoad() {
	var calls int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return testResult{Bonds: 7}, nil
	}

	var wg sync.WaitGroup
	results := make([]testResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(s.T(), s.cache.GetOrSet(context.Background(), "hot", &results[i], 0, loader))
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(s.T(), int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(s.T(), 7, r.Bonds)
	}
}

func (s *CacheTestSuite) TestGetOrSet_LoaderErrorNotCached() {
	boom := stderrors.New("boom")
	var dest testResult
	err := s.cache.GetOrSet(context.Background(), "fail", &dest, 0, func(context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(s.T(), err, boom)
	assert.False(s.T(), s.mr.Exists("test:fail"))
}

func (s *CacheTestSuite) TestGetOrSet_RedisDownStillLoads() {
	s.mr.SetError("ERR simulated outage")
	defer s.mr.SetError("")

	var dest testResult
	err := s.cache.GetOrSet(context.Background(), "k", &dest, 0, func(context.Context) (interface{}, error) {
		return testResult{Bonds: 1}, nil
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, dest.Bonds)
}

func (s *CacheTestSuite) TestDeleteByPrefix() {
	for _, k := range []string{"test:run:1", "test:run:2", "test:other"} {
		require.NoError(s.T(), s.mr.Set(k, "x"))
	}

	n, err := s.cache.DeleteByPrefix(context.Background(), "run:")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(2), n)
	assert.True(s.T(), s.mr.Exists("test:other"))
}

func (s *CacheTestSuite) TestClosedClient() {
	require.NoError(s.T(), s.client.Close())
	assert.NoError(s.T(), s.client.Close())

	var dest testResult
	err := s.cache.Get(context.Background(), "k", &dest)
	assert.True(s.T(), pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
	assert.ErrorIs(s.T(), s.cache.Ping(context.Background()), ErrClientClosed)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestJitterTTL(t *testing.T) {
	c := NewCache(nil, nil)
	assert.Equal(t, DefaultPrefix, c.prefix)
	assert.Zero(t, c.jitterTTL(0))
	for i := 0; i < 50; i++ {
		d := c.jitterTTL(10 * time.Second)
		assert.GreaterOrEqual(t, d, 9*time.Second)
		assert.LessOrEqual(t, d, 11*time.Second)
	}
}
