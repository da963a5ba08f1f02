// Package pricing computes effective wholesale prices for approved vendors.
// Everything here is pure arithmetic over in-memory vendor data; missing or
// malformed vendor fields silently resolve to a 0% discount.
package pricing

import "savora-api/models"

// GetVendorDiscount returns the effective discount percentage for a vendor
// buying the given product, optionally at a quantity.
//
// The base discount is the vendor default plus any per-product override.
// When a quantity is supplied and bulk tiers exist, the tier with the highest
// MinQuantity not exceeding the quantity acts as a floor: it replaces the
// base when larger, and is ignored otherwise. The result is clamped to
// [0, 100].
func GetVendorDiscount(vendor *models.Vendor, productID string, quantity ...int) float64 {
	if vendor == nil {
		return 0
	}

	discount := vendor.DefaultDiscount
	if vendor.ProductDiscounts != nil {
		if override, ok := vendor.ProductDiscounts[productID]; ok {
			discount += override
		}
	}

	if len(quantity) > 0 && len(vendor.BulkTiers) > 0 {
		if tier, ok := bestTier(vendor.BulkTiers, quantity[0]); ok && tier.Discount > discount {
			discount = tier.Discount
		}
	}

	if discount < 0 {
		return 0
	}
	if discount > 100 {
		return 100
	}
	return discount
}

// bestTier picks the tier with the highest MinQuantity that the quantity
// still satisfies. Tier order in the slice does not matter.
func bestTier(tiers []models.BulkDiscountTier, qty int) (models.BulkDiscountTier, bool) {
	var best models.BulkDiscountTier
	found := false
	for _, t := range tiers {
		if t.MinQuantity <= qty && (!found || t.MinQuantity > best.MinQuantity) {
			best = t
			found = true
		}
	}
	return best, found
}

// CalculateVendorPrice applies the effective discount to a unit sale price.
func CalculateVendorPrice(salePrice float64, vendor *models.Vendor, productID string, quantity ...int) float64 {
	discount := GetVendorDiscount(vendor, productID, quantity...)
	return salePrice * (1 - discount/100)
}
