package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a flat lookup table; names are matched case-insensitively.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
}
