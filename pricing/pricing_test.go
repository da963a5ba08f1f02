package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"savora-api/models"
)

func TestDefaultPlusProductOverride(t *testing.T) {
	v := &models.Vendor{
		DefaultDiscount:  10,
		ProductDiscounts: map[string]float64{"p1": 5},
	}

	assert.Equal(t, 15.0, GetVendorDiscount(v, "p1"))
	assert.Equal(t, 10.0, GetVendorDiscount(v, "p2"))
}

func TestNilVendorIsZeroDiscount(t *testing.T) {
	assert.Equal(t, 0.0, GetVendorDiscount(nil, "p1"))
	assert.Equal(t, 100.0, CalculateVendorPrice(100, nil, "p1"))
}

func TestMissingFieldsIsZeroDiscount(t *testing.T) {
	v := &models.Vendor{}
	assert.Equal(t, 0.0, GetVendorDiscount(v, "p1", 500))
}

func TestBulkTierSelection(t *testing.T) {
	v := &models.Vendor{
		DefaultDiscount: 5,
		BulkTiers: []models.BulkDiscountTier{
			{MinQuantity: 100, Discount: 25},
			{MinQuantity: 10, Discount: 12},
			{MinQuantity: 50, Discount: 18},
		},
	}

	// below every threshold: base only
	assert.Equal(t, 5.0, GetVendorDiscount(v, "p1", 9))
	// highest threshold <= quantity wins
	assert.Equal(t, 12.0, GetVendorDiscount(v, "p1", 10))
	assert.Equal(t, 18.0, GetVendorDiscount(v, "p1", 99))
	assert.Equal(t, 25.0, GetVendorDiscount(v, "p1", 100))
	assert.Equal(t, 25.0, GetVendorDiscount(v, "p1", 10000))
}

func TestBulkTierIsFloorNotAdditive(t *testing.T) {
	v := &models.Vendor{
		DefaultDiscount:  20,
		ProductDiscounts: map[string]float64{"p1": 10},
		BulkTiers: []models.BulkDiscountTier{
			{MinQuantity: 10, Discount: 15},
		},
	}

	// base 30 beats the 15% tier: tier ignored, never added
	assert.Equal(t, 30.0, GetVendorDiscount(v, "p1", 50))

	// tier beats base: tier replaces, not 30+40
	v.BulkTiers[0].Discount = 40
	assert.Equal(t, 40.0, GetVendorDiscount(v, "p1", 50))
}

func TestNoQuantityIgnoresTiers(t *testing.T) {
	v := &models.Vendor{
		DefaultDiscount: 5,
		BulkTiers:       []models.BulkDiscountTier{{MinQuantity: 1, Discount: 50}},
	}
	assert.Equal(t, 5.0, GetVendorDiscount(v, "p1"))
}

func TestDiscountClamped(t *testing.T) {
	v := &models.Vendor{
		DefaultDiscount:  80,
		ProductDiscounts: map[string]float64{"p1": 50},
	}
	assert.Equal(t, 100.0, GetVendorDiscount(v, "p1"))

	v = &models.Vendor{DefaultDiscount: -10}
	assert.Equal(t, 0.0, GetVendorDiscount(v, "p1"))
}

func TestCalculateVendorPrice(t *testing.T) {
	v := &models.Vendor{DefaultDiscount: 20}
	assert.InDelta(t, 80.0, CalculateVendorPrice(100, v, "p1", 5), 1e-9)
}
