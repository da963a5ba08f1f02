package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order status values. Status only moves forward through this set; cancelled
// is reachable from the early states. Admin edits are free transitions.
const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPlaced         = "placed"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPacked         = "packed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

const (
	PaymentMethodRazorpay = "razorpay"
	PaymentMethodCOD      = "cod"
)

// OrderItem represents a single line in an order.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Name      string             `json:"name" bson:"name"`
	Variant   string             `json:"variant,omitempty" bson:"variant,omitempty"`
	UnitPrice float64            `json:"unitPrice" bson:"unitPrice"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// ShippingInfo is a denormalized copy of the delivery address at checkout time.
type ShippingInfo struct {
	Name          string `json:"name" bson:"name"`
	StreetAddress string `json:"streetAddress" bson:"streetAddress"`
	City          string `json:"city" bson:"city"`
	State         string `json:"state" bson:"state"`
	ZipCode       string `json:"zipCode" bson:"zipCode"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// PaymentDetails links an order to its gateway-side order object.
// RazorpayOrderID is set at creation; PaymentID and Signature only after a
// verified capture.
type PaymentDetails struct {
	RazorpayOrderID string `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	PaymentID       string `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	Signature       string `json:"signature,omitempty" bson:"signature,omitempty"`
}

// StatusChange is one entry in an order's append-only status history.
type StatusChange struct {
	Status    string    `json:"status" bson:"status"`
	ChangedBy string    `json:"changedBy" bson:"changedBy"`
	Note      string    `json:"note,omitempty" bson:"note,omitempty"`
	ChangedAt time.Time `json:"changedAt" bson:"changedAt"`
}

// Order represents one checkout attempt and its lifecycle. Orders are never
// deleted.
type Order struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	OrderNumber    string             `json:"orderNumber" bson:"orderNumber"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId"`
	Items          []OrderItem        `json:"items" bson:"items"`
	ShippingInfo   ShippingInfo       `json:"shippingInfo" bson:"shippingInfo"`
	Subtotal       float64            `json:"subtotal" bson:"subtotal"`
	Shipping       float64            `json:"shipping" bson:"shipping"`
	TotalAmount    float64            `json:"totalAmount" bson:"totalAmount"`
	PaymentMethod  string             `json:"paymentMethod" bson:"paymentMethod"`
	Status         string             `json:"status" bson:"status"`
	PaymentStatus  string             `json:"paymentStatus" bson:"paymentStatus"`
	PaymentDetails PaymentDetails     `json:"paymentDetails" bson:"paymentDetails"`
	StatusHistory  []StatusChange     `json:"statusHistory" bson:"statusHistory"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
	PaidAt         *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}
