package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/models"
	"marketplace-api/payments"
	"marketplace-api/services/orders"
	"marketplace-api/services/orders/orderstest"
)

func TestGetForBuyerReadsThroughCache(t *testing.T) {
	f, o := seeded(t, models.PaymentCOD, models.PaymentPending, models.ItemPlaced)
	ctx := context.Background()

	_, err := f.svc.GetForBuyer(ctx, f.buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.Hits)

	_, err = f.svc.GetForBuyer(ctx, f.buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
}

func TestWritesRefreshCachedOrder(t *testing.T) {
	f, o := seeded(t, models.PaymentCOD, models.PaymentPending, models.ItemPlaced)
	ctx := context.Background()

	before, err := f.svc.GetForBuyer(ctx, f.buyer, o.ID)
	require.NoError(t, err)

	_, err = f.svc.AdvanceStatus(ctx, orders.ItemRef{OrderID: o.ID, ItemID: o.Items[0].ID, UserID: f.seller}, models.ItemShipped)
	require.NoError(t, err)

	// a reader that loaded before the write finishes its Set late
	require.NoError(t, f.cache.Set(ctx, before))

	after, err := f.svc.GetForBuyer(ctx, f.buyer, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemShipped, after.Items[0].Status)
	assert.Equal(t, int64(2), after.Items[0].Version)
	assert.Equal(t, 1, f.cache.Hits)
}

func TestVerifyPaymentRefreshesCachedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := f.product.Varieties[0]
	svc := orders.NewService(orders.Deps{
		Orders: f.store,
		Carts: orderstest.NewCarts(models.User{Id: f.buyer, Cart: []models.CartItem{
			{ProductID: f.product.ID, VarietyID: v.ID, OptionID: v.Options[0].ID, Quantity: 1},
		}}),
		Addresses: orderstest.Addresses{f.address},
		Catalog:   f.catalog,
		Cache:     f.cache,
		Gateway:   orderstest.Gateway{Secret: gatewaySecret},
	})

	res, err := svc.Checkout(ctx, f.buyer, f.address.Id, models.PaymentUPI)
	require.NoError(t, err)

	pending, err := svc.GetForBuyer(ctx, f.buyer, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, pending.PaymentStatus)

	sig := payments.Sign(gatewaySecret, res.Payment.ID, "pay_9")
	_, err = svc.VerifyPayment(ctx, f.buyer, res.Order.ID, res.Payment.ID, "pay_9", sig)
	require.NoError(t, err)

	require.NoError(t, f.cache.Set(ctx, pending))

	paid, err := svc.GetForBuyer(ctx, f.buyer, res.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
}
