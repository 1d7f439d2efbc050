package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsUnknownValues(t *testing.T) {
	_, err := ParseItemStatus("Lost")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = ParseRefundStatus("Maybe")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = ParseRefundAction("foo")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = ParsePaymentMethod("Bitcoin")
	assert.ErrorIs(t, err, ErrUnknownValue)
	_, err = ParsePaymentStatus("Refunded")
	assert.ErrorIs(t, err, ErrUnknownValue)

	st, err := ParseRefundStatus("Not Applicable")
	require.NoError(t, err)
	assert.Equal(t, RefundNotApplicable, st)
}

func TestOrderJSONRejectsUnknownStatuses(t *testing.T) {
	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"paymentMethod":"UPI","paymentStatus":"Paid","items":[{"status":"Placed","refundStatus":"Pending"}]}`), &o))
	assert.Equal(t, PaymentPaid, o.PaymentStatus)
	assert.Equal(t, RefundPending, o.Items[0].RefundStatus)

	err := json.Unmarshal([]byte(`{"paymentStatus":"Refunded"}`), &o)
	assert.ErrorIs(t, err, ErrUnknownValue)

	err = json.Unmarshal([]byte(`{"items":[{"refundStatus":"Maybe"}]}`), &o)
	assert.ErrorIs(t, err, ErrUnknownValue)
}

func TestRevisionGrowsWithEveryWrite(t *testing.T) {
	o := Order{
		PaymentStatus: PaymentPending,
		Items:         []OrderItem{{Version: 1}, {Version: 1}},
	}
	start := o.Revision()

	o.Items[1].Version++
	afterItem := o.Revision()
	assert.Greater(t, afterItem, start)

	o.PaymentStatus = PaymentPaid
	assert.Greater(t, o.Revision(), afterItem)
}

func TestItemsInStatus(t *testing.T) {
	o := Order{Items: []OrderItem{{Status: ItemPlaced}, {Status: ItemShipped}, {Status: ItemPlaced}}}

	placed := o.ItemsInStatus(ItemPlaced)
	assert.Len(t, placed.Items, 2)
	assert.Len(t, o.Items, 3)
}
