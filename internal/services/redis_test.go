package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/models"
	"social-casino-backend/internal/services"
)

type RedisServiceSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	service *services.RedisService
	ctx     context.Context
}

func TestRedisServiceSuite(t *testing.T) {
	suite.Run(t, new(RedisServiceSuite))
}

func (s *RedisServiceSuite) SetupTest() {
	s.mr = miniredis.RunT(s.T())
	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})
	s.service = services.NewRedisServiceWithClient(s.client)
	s.ctx = context.Background()
}

func (s *RedisServiceSuite) TearDownTest() {
	s.service.Close()
}

func (s *RedisServiceSuite) TestNewRedisServiceConnects() {
	svc, err := services.NewRedisService(&config.Config{RedisURL: s.mr.Addr()})
	s.Require().NoError(err)
	s.NoError(svc.Close())
}

func (s *RedisServiceSuite) TestNewRedisServiceFailsWhenUnreachable() {
	addr := s.mr.Addr()
	s.mr.Close()

	_, err := services.NewRedisService(&config.Config{RedisURL: addr})
	s.Error(err)
}

func (s *RedisServiceSuite) TestSnapshotRoundTrip() {
	err := s.service.SaveSnapshot(s.ctx, map[string][]byte{
		services.SnapshotUsers:    []byte(`{"schemaVersion":1,"data":[]}`),
		services.SnapshotSettings: []byte(`{"schemaVersion":1,"data":{}}`),
	})
	s.Require().NoError(err)

	raw, err := s.mr.Get("casino:snapshot:users")
	s.Require().NoError(err)
	s.JSONEq(`{"schemaVersion":1,"data":[]}`, raw)

	data, err := s.service.LoadSnapshot(s.ctx, services.SnapshotSettings)
	s.Require().NoError(err)
	s.JSONEq(`{"schemaVersion":1,"data":{}}`, string(data))
}

func (s *RedisServiceSuite) TestLoadMissingSnapshot() {
	_, err := s.service.LoadSnapshot(s.ctx, services.SnapshotGames)
	s.ErrorIs(err, models.ErrSnapshotNotFound)
}

func (s *RedisServiceSuite) TestRateLimit() {
	for i := range 5 {
		allowed, err := s.service.CheckRateLimit(s.ctx, "user_1", "spin", 5, time.Minute)
		s.Require().NoError(err)
		s.True(allowed, "request %d", i+1)
	}

	allowed, err := s.service.CheckRateLimit(s.ctx, "user_1", "spin", 5, time.Minute)
	s.Require().NoError(err)
	s.False(allowed)

	allowed, err = s.service.CheckRateLimit(s.ctx, "user_2", "spin", 5, time.Minute)
	s.Require().NoError(err)
	s.True(allowed, "limits are per user")

	s.mr.FastForward(time.Minute + time.Second)
	allowed, err = s.service.CheckRateLimit(s.ctx, "user_1", "spin", 5, time.Minute)
	s.Require().NoError(err)
	s.True(allowed, "window expired")
}

func (s *RedisServiceSuite) TestStoreSyncsThroughRedis() {
	store, err := services.NewStore(s.service, services.StoreOptions{
		DemoPasswords: []string{"password"},
		PasswordCost:  bcrypt.MinCost,
	})
	s.Require().NoError(err)

	sess, err := store.Signup(s.ctx, "redis@example.com", "Red Is", "")
	s.Require().NoError(err)
	s.Require().NoError(store.Sync(s.ctx))

	for _, key := range []string{
		services.SnapshotUsers, services.SnapshotTransactions, services.SnapshotGames,
		services.SnapshotPromotions, services.SnapshotSettings, services.SnapshotCurrentUser,
	} {
		s.True(s.mr.Exists("casino:snapshot:"+key), key)
	}

	restored, err := services.NewStore(s.service, services.StoreOptions{
		DemoPasswords: []string{"password"},
		PasswordCost:  bcrypt.MinCost,
	})
	s.Require().NoError(err)
	s.Require().NoError(restored.Hydrate(s.ctx))

	again, err := restored.Session(sess.ID())
	s.Require().NoError(err)
	u, err := again.CurrentUser()
	s.Require().NoError(err)
	s.Equal("redis@example.com", u.Email)
}

func (s *RedisServiceSuite) TestSyncReportsStorageFailure() {
	store, err := services.NewStore(s.service, services.StoreOptions{
		DemoPasswords: []string{"password"},
		PasswordCost:  bcrypt.MinCost,
	})
	s.Require().NoError(err)

	s.mr.SetError("READONLY forced failure")
	s.Error(store.Sync(s.ctx))
	status, _ := store.SyncStatus()
	s.Equal(models.SyncError, status)

	s.mr.SetError("")
	s.NoError(store.Sync(s.ctx))
	status, _ = store.SyncStatus()
	s.Equal(models.SyncConnected, status)
}
