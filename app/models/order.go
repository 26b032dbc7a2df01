package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order records one completed Stripe checkout session. TotalAmount is kept
// as a decimal string to avoid floating-point drift on money values.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StripeID    string             `bson:"stripe_id" json:"stripe_id"`
	TotalAmount string             `bson:"total_amount" json:"total_amount"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	Event       primitive.ObjectID `bson:"event" json:"event"`
	Buyer       primitive.ObjectID `bson:"buyer" json:"buyer"`
}
