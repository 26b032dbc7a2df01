package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/eventlyhq/evently/app/models"
)

// UserRepository defines user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	UpdateByClerkID(ctx context.Context, clerkID string, update UserProfileUpdate) (*models.User, error)
	DeleteByClerkID(ctx context.Context, clerkID string) error
}

// CategoryRepository defines category-related database operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// EventRepository defines event-related database operations. Reads that can
// legitimately find nothing return (nil, nil); absence is not an error there.
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetRaw(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*EventItem, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	List(ctx context.Context, params ListEventsParams) (*PagedEvents, error)
	ListByOrganizer(ctx context.Context, organizerID primitive.ObjectID, page, limit int64) (*PagedEvents, error)
	ListRelatedByCategory(ctx context.Context, categoryID, excludeEventID primitive.ObjectID, page, limit int64) (*PagedEvents, error)
}

// OrderRepository defines order-related database operations.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	ListByEvent(ctx context.Context, eventID primitive.ObjectID, search string) ([]OrderRow, error)
	ListByBuyer(ctx context.Context, buyerID primitive.ObjectID, page, limit int64) (*PagedOrders, error)
}

// UserProfileUpdate carries the mutable profile fields a Clerk user.updated
// webhook overwrites.
type UserProfileUpdate struct {
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

// ListEventsParams filters the public event listing.
type ListEventsParams struct {
	Query    string // case-insensitive substring match on title
	Category string // case-insensitive category name, empty for all
	Page     int64
	Limit    int64
}

// OrganizerRef is the slim organizer projection joined into event reads.
type OrganizerRef struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
}

// CategoryRef is the slim category projection joined into event reads.
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

// EventItem is an event with its organizer and category populated.
type EventItem struct {
	Event     models.Event `json:"event"`
	Organizer OrganizerRef `json:"organizer"`
	Category  CategoryRef  `json:"category"`
}

// PagedEvents is one page of events plus the page count for the whole match.
type PagedEvents struct {
	Data       []EventItem `json:"data"`
	TotalPages int64       `json:"total_pages"`
}

// OrderRow is the denormalized projection used by the per-event order
// listing: one row per ticket sold, with the buyer flattened to a name.
type OrderRow struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	TotalAmount string             `bson:"total_amount" json:"total_amount"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	EventTitle  string             `bson:"event_title" json:"event_title"`
	EventID     primitive.ObjectID `bson:"event_id" json:"event_id"`
	Buyer       string             `bson:"buyer" json:"buyer"`
}

// OrderItem is an order with its event (and that event's organizer) populated.
type OrderItem struct {
	Order models.Order `json:"order"`
	Event EventItem    `json:"event"`
}

// PagedOrders is one page of a buyer's orders plus the total page count.
type PagedOrders struct {
	Data       []OrderItem `json:"data"`
	TotalPages int64       `json:"total_pages"`
}

// totalPages computes ceil(count/limit) for offset pagination.
func totalPages(count, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}

// skipAmount converts a 1-based page number to a query offset.
func skipAmount(page, limit int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
