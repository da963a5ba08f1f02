package payments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"savora-api/models"
)

const testSecret = "test_key_secret"

func TestVerifySignature(t *testing.T) {
	sig := ComputeSignature("order_abc", "pay_xyz", testSecret)

	assert.True(t, VerifySignature("order_abc", "pay_xyz", sig, testSecret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", sig, "other_secret"))
	assert.False(t, VerifySignature("order_abc", "pay_other", sig, testSecret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "deadbeef", testSecret))
	assert.False(t, VerifySignature("order_abc", "pay_xyz", "", testSecret))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(49900), ToPaise(499))
	assert.Equal(t, int64(12550), ToPaise(125.50))
}

func pendingOrder() *models.Order {
	return &models.Order{
		Status:        models.OrderStatusPendingPayment,
		PaymentStatus: models.PaymentStatusPending,
		PaymentDetails: models.PaymentDetails{
			RazorpayOrderID: "order_abc",
		},
	}
}

func TestApplyCapture(t *testing.T) {
	o := pendingOrder()
	now := time.Now()

	changed, err := ApplyCapture(o, "pay_xyz", "sig1", now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, models.OrderStatusPlaced, o.Status)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, "pay_xyz", o.PaymentDetails.PaymentID)
	assert.Equal(t, "sig1", o.PaymentDetails.Signature)
	require.NotNil(t, o.PaidAt)
	assert.Len(t, o.StatusHistory, 1)
}

func TestApplyCaptureIdempotent(t *testing.T) {
	o := pendingOrder()
	now := time.Now()

	_, err := ApplyCapture(o, "pay_xyz", "sig1", now)
	require.NoError(t, err)
	paidAt := *o.PaidAt

	// identical replay: no error, no change, no duplicate history
	changed, err := ApplyCapture(o, "pay_xyz", "sig1", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, paidAt, *o.PaidAt)
	assert.Len(t, o.StatusHistory, 1)
}

func TestApplyCaptureConflictingPayment(t *testing.T) {
	o := pendingOrder()
	_, err := ApplyCapture(o, "pay_xyz", "sig1", time.Now())
	require.NoError(t, err)

	_, err = ApplyCapture(o, "pay_other", "sig2", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyCaptured)
	assert.Equal(t, "pay_xyz", o.PaymentDetails.PaymentID)
}

func TestApplyCaptureStaleReplay(t *testing.T) {
	o := pendingOrder()
	_, err := ApplyCapture(o, "pay_xyz", "sig1", time.Now())
	require.NoError(t, err)

	// order moved on; even the original capture is now stale
	o.Status = models.OrderStatusDelivered

	_, err = ApplyCapture(o, "pay_xyz", "sig1", time.Now())
	assert.ErrorIs(t, err, ErrStaleCapture)
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
}

func TestApplyCaptureFromCancelled(t *testing.T) {
	o := pendingOrder()
	o.Status = models.OrderStatusCancelled

	_, err := ApplyCapture(o, "pay_xyz", "sig1", time.Now())
	assert.ErrorIs(t, err, ErrStaleCapture)
}
