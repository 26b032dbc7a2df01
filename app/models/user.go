package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User bridges a Clerk identity to a local record. Profile fields mirror
// whatever Clerk last sent; they are never null, only possibly blank.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID   string             `bson:"clerk_id" json:"clerk_id"`
	Email     string             `bson:"email" json:"email"`
	Username  string             `bson:"username" json:"username"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Photo     string             `bson:"photo" json:"photo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// FullName returns the display name used in order listings.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
