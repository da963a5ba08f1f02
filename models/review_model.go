package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Review struct {
	Id        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ProductId primitive.ObjectID `bson:"productId" json:"productId"`
	UserId    primitive.ObjectID `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	Rating    int                `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Comment   string             `bson:"comment" json:"comment" validate:"required"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
