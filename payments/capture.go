package payments

import (
	"errors"
	"time"

	"savora-api/models"
)

var (
	// ErrAlreadyCaptured means the order is paid with different payment
	// details than the ones supplied — a conflicting capture attempt.
	ErrAlreadyCaptured = errors.New("order already captured with different payment details")

	// ErrStaleCapture means a valid signature was replayed against an order
	// that has moved past the placed stage.
	ErrStaleCapture = errors.New("order has advanced past payment capture")
)

// ApplyCapture transitions an order to placed/paid after a verified payment,
// mutating it in place. It reports whether the order changed.
//
// Replaying the identical capture against an already-placed order is a no-op
// (changed=false, nil error): the client may legitimately resubmit after a
// redirect hiccup. A capture against an order past placed, or one that is
// paid under a different payment id, is rejected.
func ApplyCapture(order *models.Order, paymentID, signature string, now time.Time) (bool, error) {
	if order.Status == models.OrderStatusPlaced && order.PaymentStatus == models.PaymentStatusPaid {
		if order.PaymentDetails.PaymentID == paymentID && order.PaymentDetails.Signature == signature {
			return false, nil
		}
		return false, ErrAlreadyCaptured
	}

	if order.Status != models.OrderStatusPendingPayment {
		return false, ErrStaleCapture
	}

	order.Status = models.OrderStatusPlaced
	order.PaymentStatus = models.PaymentStatusPaid
	order.PaymentDetails.PaymentID = paymentID
	order.PaymentDetails.Signature = signature
	order.PaidAt = &now
	order.UpdatedAt = now
	order.StatusHistory = append(order.StatusHistory, models.StatusChange{
		Status:    models.OrderStatusPlaced,
		ChangedBy: "payment-verification",
		Note:      "payment captured",
		ChangedAt: now,
	})
	return true, nil
}
