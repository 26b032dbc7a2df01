package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title" validate:"required,min=3,max=150"`
	Description   string             `bson:"description" json:"description" validate:"max=2000"`
	Location      string             `bson:"location" json:"location" validate:"max=400"`
	ImageURL      string             `bson:"image_url" json:"image_url" validate:"omitempty,url"`
	StartDateTime time.Time          `bson:"start_date_time" json:"start_date_time"`
	EndDateTime   time.Time          `bson:"end_date_time" json:"end_date_time"`
	Price         string             `bson:"price" json:"price" validate:"omitempty,numeric"`
	IsFree        bool               `bson:"is_free" json:"is_free"`
	URL           string             `bson:"url" json:"url" validate:"omitempty,url"`
	Category      primitive.ObjectID `bson:"category" json:"category"`
	Organizer     primitive.ObjectID `bson:"organizer" json:"organizer"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Validate checks the user-supplied fields. Start/end ordering is deliberately
// not checked here; the form is the place to complain about that.
func (e *Event) Validate() error {
	v := validator.New()

	return v.Struct(e)
}
