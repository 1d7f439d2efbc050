//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	radix "github.com/mediocregopher/radix/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/models"
)

func setupRedis(t *testing.T) radix.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := DialRedis(addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisOrderCacheIntegration(t *testing.T) {
	client := setupRedis(t)
	cache := NewRedisOrderCache(client, time.Minute)
	ctx := context.Background()

	seller := primitive.NewObjectID()
	order := models.Order{
		ID:            primitive.NewObjectID(),
		BuyerID:       primitive.NewObjectID(),
		PaymentMethod: models.PaymentCOD,
		PaymentStatus: models.PaymentPending,
		Items: []models.OrderItem{{
			ID:           primitive.NewObjectID(),
			SellerID:     seller,
			Status:       models.ItemPlaced,
			RefundStatus: models.RefundNotApplicable,
			Version:      1,
		}},
	}

	t.Run("read back", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, cache.Set(ctx, &order))
		got, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.ItemPlaced, got.Items[0].Status)
		assert.Equal(t, []primitive.ObjectID{seller}, got.SellerIDs)
	})

	t.Run("older revision does not overwrite", func(t *testing.T) {
		stale := order
		stale.Items = append([]models.OrderItem(nil), order.Items...)

		shipped := order
		shipped.Items = []models.OrderItem{order.Items[0]}
		shipped.Items[0].Status = models.ItemShipped
		shipped.Items[0].Version = 2
		require.NoError(t, cache.Set(ctx, &shipped))

		require.NoError(t, cache.Set(ctx, &stale))
		got, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.ItemShipped, got.Items[0].Status)

		var ttl int
		require.NoError(t, client.Do(radix.Cmd(&ttl, "TTL", "order:"+order.ID.Hex())))
		assert.Greater(t, ttl, 0)
	})

	t.Run("invalidate", func(t *testing.T) {
		require.NoError(t, cache.Invalidate(ctx, order.ID))
		_, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		// after a drop any revision may repopulate
		require.NoError(t, cache.Set(ctx, &order))
		got, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, models.ItemPlaced, got.Items[0].Status)
	})

	t.Run("corrupt entry is dropped", func(t *testing.T) {
		key := "order:" + order.ID.Hex()
		require.NoError(t, client.Do(radix.Cmd(nil, "HSET", key, "rev", "1", "body", "{not json")))

		_, ok, err := cache.Get(ctx, order.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		var exists int
		require.NoError(t, client.Do(radix.Cmd(&exists, "EXISTS", key)))
		assert.Equal(t, 0, exists)
	})
}
