// Package payments holds the gateway-independent pieces of the Razorpay
// reconciliation flow: signature verification, minor-unit conversion and the
// order capture transition. Handlers stay thin; everything here is unit
// testable without a database or gateway.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex HMAC-SHA256 of "orderId|paymentId" under
// the gateway key secret, the scheme Razorpay signs checkout callbacks with.
func ComputeSignature(razorpayOrderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(razorpayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySignature checks a client-supplied signature in constant time. All
// three inputs are attacker-controlled; only the secret is trusted.
func VerifySignature(razorpayOrderID, paymentID, signature, secret string) bool {
	expected := ComputeSignature(razorpayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ToPaise converts a rupee amount to the gateway's minor unit.
func ToPaise(amount float64) int64 {
	return int64(amount * 100)
}
