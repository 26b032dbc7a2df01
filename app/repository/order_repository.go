package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventlyhq/evently/app/models"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db *mongo.Database
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) collection() *mongo.Collection {
	return r.db.Collection("orders")
}

// Create inserts a new order. A redelivered checkout session hits the unique
// stripe_id index and comes back as ErrDuplicate.
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	res, err := r.collection().InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// ListByEvent returns the denormalized order rows for one event, optionally
// filtered by a case-insensitive substring of the buyer's name. The match
// stage runs after the projection, so the buyer regex sees the concatenated
// full name and event_id refers to the projected field.
func (r *orderRepository) ListByEvent(ctx context.Context, eventID primitive.ObjectID, search string) ([]OrderRow, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "buyer",
			"foreignField": "_id",
			"as":           "buyer",
		}}},
		{{Key: "$unwind", Value: "$buyer"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "events",
			"localField":   "event",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$unwind", Value: "$event"}},
		{{Key: "$project", Value: bson.M{
			"_id":          1,
			"total_amount": 1,
			"created_at":   1,
			"event_title":  "$event.title",
			"event_id":     "$event._id",
			"buyer":        bson.M{"$concat": bson.A{"$buyer.first_name", " ", "$buyer.last_name"}},
		}}},
		{{Key: "$match", Value: orderSearchMatch(eventID, search)}},
		{{Key: "$sort", Value: bson.M{"created_at": -1}}},
	}

	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	rows := []OrderRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByBuyer returns one page of a buyer's orders, newest first, with each
// order's event and that event's organizer populated.
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID primitive.ObjectID, page, limit int64) (*PagedOrders, error) {
	filter := bson.M{"buyer": buyerID}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skipAmount(page, limit)).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	count, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]primitive.ObjectID, 0, len(orders))
	for _, o := range orders {
		eventIDs = append(eventIDs, o.Event)
	}

	eventsByID := map[primitive.ObjectID]EventItem{}
	if len(eventIDs) > 0 {
		eventsCursor, err := r.db.Collection("events").Find(ctx, bson.M{"_id": bson.M{"$in": eventIDs}})
		if err != nil {
			return nil, err
		}
		var events []models.Event
		if err := eventsCursor.All(ctx, &events); err != nil {
			return nil, err
		}
		eventsRepo := &eventRepository{db: r.db}
		items, err := eventsRepo.populate(ctx, events)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			eventsByID[item.Event.ID] = item
		}
	}

	data := make([]OrderItem, 0, len(orders))
	for _, o := range orders {
		data = append(data, OrderItem{Order: o, Event: eventsByID[o.Event]})
	}

	return &PagedOrders{Data: data, TotalPages: totalPages(count, limit)}, nil
}

// orderSearchMatch builds the post-projection match for the per-event order
// listing.
func orderSearchMatch(eventID primitive.ObjectID, search string) bson.M {
	match := bson.M{"event_id": eventID}
	if search != "" {
		match["buyer"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}
	return match
}
