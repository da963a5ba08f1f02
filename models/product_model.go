package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProductVariant is one pack size of a product (e.g. 250g jar, 1kg tub).
type ProductVariant struct {
	Name  string  `bson:"name" json:"name" validate:"required"`
	Price float64 `bson:"price" json:"price" validate:"required,gt=0"`
	Stock int     `bson:"stock" json:"stock" validate:"min=0"`
}

type Product struct {
	ID           primitive.ObjectID `json:"productId,omitempty" bson:"_id,omitempty"`
	Slug         string             `bson:"slug" json:"slug" validate:"required"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Category     string             `bson:"category" json:"category" validate:"required"`
	Images       []string           `bson:"images" json:"images" validate:"required,min=1,dive"`
	DefaultPrice float64            `bson:"defaultPrice" json:"defaultPrice" validate:"required,gt=0"`
	SalePrice    float64            `bson:"salePrice,omitempty" json:"salePrice,omitempty" validate:"omitempty,gt=0"`
	Variants     []ProductVariant   `bson:"variants,omitempty" json:"variants,omitempty" validate:"omitempty,dive"`
	Stock        int                `bson:"stock" json:"stock" validate:"min=0"`
}

// EffectivePrice is the price checkout uses: sale price when set, else default.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 {
		return p.SalePrice
	}
	return p.DefaultPrice
}
