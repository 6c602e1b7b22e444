package container

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mayakatsir/web-development-assignments/config"
	"github.com/mayakatsir/web-development-assignments/internal/application"
)

func memoryConfig() *config.Config {
	return &config.Config{
		AppName:          "blog",
		StoreDriver:      config.DriverMemory,
		JWTAccessSecret:  "a",
		JWTRefreshSecret: "r",
		AccessTTL:        time.Minute,
		RefreshTTL:       time.Hour,
		LockTTL:          time.Second,
		LockWait:         time.Second,
	}
}

func TestNewMemoryWithoutIntegrations(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c, err := New(context.Background(), memoryConfig(), logger)
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Auth.Locker)
	assert.Nil(t, c.Auth.Notifier)
	assert.Nil(t, c.Posts.Search)
	assert.Nil(t, c.Posts.Images)
	assert.Empty(t, c.Checks)

	pair, err := c.Auth.Register(context.Background(), application.RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	claims, err := c.JWT.ParseRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	u, err := c.Repos.Users.FindByID(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.True(t, u.HasRefreshToken(pair.RefreshToken))
}

func TestRedisLockerAndHealthCheck(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memoryConfig()
	cfg.RedisAddr = mr.Addr()
	logger, _ := test.NewNullLogger()

	c, err := New(context.Background(), cfg, logger)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Auth.Locker)
	require.Contains(t, c.Checks, "redis")
	assert.NoError(t, c.Checks["redis"](context.Background()))

	_, err = c.Auth.Register(context.Background(), application.RegisterInput{Username: "bob", Email: "b@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, mr.Keys(), "locks are released")
}

func TestCloseRunsInReverse(t *testing.T) {
	var order []int
	c := &Container{}
	c.onClose(func() { order = append(order, 1) })
	c.onClose(func() { order = append(order, 2) })
	c.Close()
	c.Close()
	assert.Equal(t, []int{2, 1}, order)
}
