package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventlyhq/evently/app/models"
)

// eventRepository implements the EventRepository interface
type eventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new event repository instance
func NewEventRepository(db *mongo.Database) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) collection() *mongo.Collection {
	return r.db.Collection("events")
}

// Create inserts a new event and fills in the generated id.
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	res, err := r.collection().InsertOne(ctx, event)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		event.ID = id
	}
	return nil
}

// GetRaw fetches an event without populating its references. Used where only
// the stored document matters, e.g. ownership checks before an update.
func (r *eventRepository) GetRaw(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// GetByID fetches an event with organizer and category populated. An absent
// event yields (nil, nil); callers render the not-found state themselves.
func (r *eventRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*EventItem, error) {
	event, err := r.GetRaw(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	items, err := r.populate(ctx, []models.Event{*event})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// Update replaces the mutable fields of a stored event.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	res, err := r.collection().UpdateByID(ctx, event.ID, bson.M{"$set": bson.M{
		"title":           event.Title,
		"description":     event.Description,
		"location":        event.Location,
		"image_url":       event.ImageURL,
		"start_date_time": event.StartDateTime,
		"end_date_time":   event.EndDateTime,
		"price":           event.Price,
		"is_free":         event.IsFree,
		"url":             event.URL,
		"category":        event.Category,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an event and reports whether a document was actually
// deleted. Deleting an absent event is a no-op, not an error.
func (r *eventRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// List returns one page of events matching the public listing filter.
func (r *eventRepository) List(ctx context.Context, params ListEventsParams) (*PagedEvents, error) {
	var categoryID *primitive.ObjectID
	if params.Category != "" {
		var category models.Category
		err := r.db.Collection("categories").FindOne(ctx, bson.M{
			"name": primitive.Regex{Pattern: regexp.QuoteMeta(params.Category), Options: "i"},
		}).Decode(&category)
		switch {
		case err == nil:
			categoryID = &category.ID
		case errors.Is(err, mongo.ErrNoDocuments):
			// An unknown category filters nothing, matching the reference
			// behavior of a failed lookup.
		default:
			return nil, err
		}
	}

	return r.page(ctx, eventListFilter(params.Query, categoryID), params.Page, params.Limit)
}

// ListByOrganizer returns one page of the events a user organizes.
func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID primitive.ObjectID, page, limit int64) (*PagedEvents, error) {
	return r.page(ctx, bson.M{"organizer": organizerID}, page, limit)
}

// ListRelatedByCategory returns one page of same-category events, excluding
// the event being viewed.
func (r *eventRepository) ListRelatedByCategory(ctx context.Context, categoryID, excludeEventID primitive.ObjectID, page, limit int64) (*PagedEvents, error) {
	filter := bson.M{
		"category": categoryID,
		"_id":      bson.M{"$ne": excludeEventID},
	}
	return r.page(ctx, filter, page, limit)
}

// page runs the shared paged query: newest first, offset pagination, and a
// count over the same filter for the page total.
func (r *eventRepository) page(ctx context.Context, filter bson.M, page, limit int64) (*PagedEvents, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skipAmount(page, limit)).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	count, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := r.populate(ctx, events)
	if err != nil {
		return nil, err
	}

	return &PagedEvents{Data: items, TotalPages: totalPages(count, limit)}, nil
}

// populate resolves organizer and category references for a batch of events
// with one query per collection.
func (r *eventRepository) populate(ctx context.Context, events []models.Event) ([]EventItem, error) {
	if len(events) == 0 {
		return []EventItem{}, nil
	}

	organizerIDs := make([]primitive.ObjectID, 0, len(events))
	categoryIDs := make([]primitive.ObjectID, 0, len(events))
	for _, e := range events {
		organizerIDs = append(organizerIDs, e.Organizer)
		categoryIDs = append(categoryIDs, e.Category)
	}

	organizers := map[primitive.ObjectID]OrganizerRef{}
	cursor, err := r.db.Collection("users").Find(ctx, bson.M{"_id": bson.M{"$in": organizerIDs}})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		organizers[u.ID] = OrganizerRef{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
	}

	categories := map[primitive.ObjectID]CategoryRef{}
	cursor, err = r.db.Collection("categories").Find(ctx, bson.M{"_id": bson.M{"$in": categoryIDs}})
	if err != nil {
		return nil, err
	}
	var cats []models.Category
	if err := cursor.All(ctx, &cats); err != nil {
		return nil, err
	}
	for _, c := range cats {
		categories[c.ID] = CategoryRef{ID: c.ID, Name: c.Name}
	}

	items := make([]EventItem, 0, len(events))
	for _, e := range events {
		items = append(items, EventItem{
			Event:     e,
			Organizer: organizers[e.Organizer],
			Category:  categories[e.Category],
		})
	}
	return items, nil
}

// eventListFilter builds the public listing filter: case-insensitive
// substring match on title, optionally restricted to one category.
func eventListFilter(query string, categoryID *primitive.ObjectID) bson.M {
	filter := bson.M{}
	if query != "" {
		filter["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	}
	if categoryID != nil {
		filter["category"] = *categoryID
	}
	return filter
}
