//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/domain"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) (*clients.RedisClient, *cfg.RedisCfg) {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c := &cfg.RedisCfg{
		Addr:        endpoint,
		DialTimeout: 5 * time.Second,
		Timeout:     3 * time.Second,
		CartTTL:     time.Minute,
	}
	client, err := clients.ConnectRedis(ctx, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return client, c
}

func TestCartRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	client, c := setupRedis(t)
	repo := NewCartRepo(client, c, logger.Nop())
	ctx := context.Background()

	lines, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	want := []domain.CartLine{{ProductID: "p1", Name: "Tee", Price: 1000, Category: domain.CategoryTops, Quantity: 2}}
	require.NoError(t, repo.Save(ctx, "s1", want))

	got, err := repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ttl, err := client.Client.TTL(ctx, cartKey("s1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, client.Client.Set(ctx, cartKey("broken"), "{not json", 0).Err())
	broken, err := repo.Load(ctx, "broken")
	require.NoError(t, err)
	assert.Empty(t, broken)

	require.NoError(t, repo.Delete(ctx, "s1"))
	lines, err = repo.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestTokenRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}
	client, _ := setupRedis(t)
	repo := NewTokenRepo(client)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
