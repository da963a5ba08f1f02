package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	VendorStatusPending  = "pending"
	VendorStatusApproved = "approved"
	VendorStatusRejected = "rejected"
)

// BulkDiscountTier maps a quantity threshold to an override discount
// percentage. Tiers are a floor, not additive: the best matching tier wins
// only when it beats the base discount.
type BulkDiscountTier struct {
	MinQuantity int     `bson:"minQuantity" json:"minQuantity" validate:"required,min=1"`
	Discount    float64 `bson:"discount" json:"discount" validate:"min=0,max=100"`
}

// Vendor is an approved wholesale reseller entitled to discounted pricing.
// ProductDiscounts is keyed by product hex id.
type Vendor struct {
	Id               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserId           primitive.ObjectID `bson:"userId" json:"userId"`
	VendorNumber     string             `bson:"vendorNumber" json:"vendorNumber"`
	BusinessName     string             `bson:"businessName" json:"businessName" validate:"required"`
	ContactEmail     string             `bson:"contactEmail" json:"contactEmail" validate:"required,email"`
	DefaultDiscount  float64            `bson:"defaultDiscount" json:"defaultDiscount"`
	ProductDiscounts map[string]float64 `bson:"productDiscounts,omitempty" json:"productDiscounts,omitempty"`
	BulkTiers        []BulkDiscountTier `bson:"bulkDiscountTiers,omitempty" json:"bulkDiscountTiers,omitempty"`
	Status           string             `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Discount change types recorded in the audit trail.
const (
	DiscountChangeDefault = "default_discount"
	DiscountChangeProduct = "product_discount"
	DiscountChangeTiers   = "bulk_tiers"
	DiscountChangeStatus  = "status"
)

// VendorDiscountHistory is an append-only audit record; documents are never
// updated or removed once written.
type VendorDiscountHistory struct {
	Id            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EntryId       string             `bson:"entryId" json:"entryId"`
	VendorId      primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	ChangeType    string             `bson:"changeType" json:"changeType"`
	ProductId     string             `bson:"productId,omitempty" json:"productId,omitempty"`
	PreviousValue interface{}        `bson:"previousValue" json:"previousValue"`
	NewValue      interface{}        `bson:"newValue" json:"newValue"`
	ChangedBy     string             `bson:"changedBy" json:"changedBy"`
	ChangedAt     time.Time          `bson:"changedAt" json:"changedAt"`
}
