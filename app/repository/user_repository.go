package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventlyhq/evently/app/models"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *mongo.Database
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) collection() *mongo.Collection {
	return r.db.Collection("users")
}

// Create inserts a new user and fills in the generated id.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	res, err := r.collection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// GetByID retrieves a user by their database id.
func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByClerkID retrieves a user by their Clerk identity.
func (r *userRepository) GetByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	err := r.collection().FindOne(ctx, bson.M{"clerk_id": clerkID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateByClerkID overwrites the mutable profile fields and returns the
// updated record.
func (r *userRepository) UpdateByClerkID(ctx context.Context, clerkID string, update UserProfileUpdate) (*models.User, error) {
	after := options.After
	var user models.User
	err := r.collection().FindOneAndUpdate(ctx,
		bson.M{"clerk_id": clerkID},
		bson.M{"$set": bson.M{
			"username":   update.Username,
			"first_name": update.FirstName,
			"last_name":  update.LastName,
			"photo":      update.Photo,
		}},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteByClerkID removes the user for a Clerk identity. Deleting an already
// absent user is a no-op.
func (r *userRepository) DeleteByClerkID(ctx context.Context, clerkID string) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"clerk_id": clerkID})
	return err
}
