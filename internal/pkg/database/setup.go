package database

import (
	"context"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

const connectTimeout = 10 * time.Second

var (
	client  *mongo.Client
	db      *mongo.Database
	initErr error
	once    sync.Once
)

// SetupDatabase connects to MongoDB exactly once per process. Concurrent
// first callers share the same in-flight connection attempt; later callers
// reuse the memoized client.
func SetupDatabase() error {
	once.Do(func() {
		uri := env.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
		name := env.GetEnv("MONGODB_NAME", "evently")

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		client, initErr = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if initErr != nil {
			log.Printf("Failed to connect to MongoDB: %v", initErr)
			return
		}

		if initErr = client.Ping(ctx, nil); initErr != nil {
			log.Printf("Failed to ping MongoDB: %v", initErr)
			return
		}

		db = client.Database(name)
		if initErr = ensureIndexes(ctx, db); initErr != nil {
			// Webhook dedup and the one-mirror-per-clerk-id invariant depend
			// on these unique indexes; refuse to start without them.
			log.Printf("Failed to ensure indexes: %v", initErr)
			return
		}

		log.Printf("Connected to MongoDB database %q", name)
	})

	return initErr
}

// GetDB returns the shared database handle, connecting lazily if needed.
func GetDB() *mongo.Database {
	if err := SetupDatabase(); err != nil {
		panic(err)
	}
	return db
}

// GetClient returns the shared mongo client, connecting lazily if needed.
func GetClient() *mongo.Client {
	if err := SetupDatabase(); err != nil {
		panic(err)
	}
	return client
}

// ensureIndexes creates the unique indexes the data model relies on:
// one user per Clerk identity, one category per name, one order per
// completed Stripe checkout session.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "clerk_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "stripe_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
