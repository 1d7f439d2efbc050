package payments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	sig := Sign("secret", "order_1", "pay_1")

	assert.True(t, VerifySignature("secret", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("other", "order_1", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_2", "pay_1", sig))
	assert.False(t, VerifySignature("secret", "order_1", "pay_1", ""))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(129999), ToPaise(1299.99))
	assert.Equal(t, int64(10), ToPaise(0.1))
	assert.Equal(t, int64(0), ToPaise(0))
}

func TestCreateOrderWithoutCredentials(t *testing.T) {
	_, err := NewRazorpay("", "").CreateOrder(context.Background(), "receipt", 10)
	require.ErrorIs(t, err, ErrNotConfigured)
}
