package structs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MyListItem is a wish-list entry owned by a user.
type MyListItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	ProductID    string             `bson:"product_id" json:"productId"`
	ProductTitle string             `bson:"product_title" json:"productTitle"`
	Image        string             `bson:"image" json:"image"`
	Rating       float64            `bson:"rating" json:"rating"`
	Price        float64            `bson:"price" json:"price"`
	OldPrice     float64            `bson:"old_price" json:"oldPrice"`
	Discount     float64            `bson:"discount" json:"discount"`
	Brand        string             `bson:"brand" json:"brand"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// AddMyListRequest adds a product to the wish-list.
type AddMyListRequest struct {
	ProductID    string  `json:"productId" binding:"required"`
	ProductTitle string  `json:"productTitle" binding:"required"`
	Image        string  `json:"image" binding:"required"`
	Rating       float64 `json:"rating"`
	Price        float64 `json:"price" binding:"required"`
	OldPrice     float64 `json:"oldPrice"`
	Discount     float64 `json:"discount"`
	Brand        string  `json:"brand" binding:"required"`
}
