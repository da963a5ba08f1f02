package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	Id       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name" validate:"required"`
	Email    string             `bson:"email" json:"email" validate:"required,email"`
	ImageUrl string             `bson:"profileImage" json:"profileImage,omitempty"`
	Password string             `bson:"password" json:"-"`
	Type     string             `bson:"type,omitempty" json:"type,omitempty" validate:"required,oneof=user admin"`
	Cart     []CartItem         `bson:"cart" json:"cart"`
}

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId" validate:"required"`
	Name      string             `bson:"name" json:"name"`
	Variant   string             `bson:"variant,omitempty" json:"variant,omitempty"`
	UnitPrice float64            `bson:"unitPrice" json:"unitPrice"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,min=1"`
}
