package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the catalog database.
const (
	productsCollection   = "products"
	categoriesCollection = "categories"
	bannersCollection    = "banners"
	usersCollection      = "users"
)

// Database wraps the mongo client and the catalog database handle.
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// New connects to MongoDB using the provided URI and database name.
func New(ctx context.Context, uri, name string) (*Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Database{
		Client: client,
		DB:     client.Database(name),
	}, nil
}

// Close disconnects the underlying client.
func (db *Database) Close(ctx context.Context) error {
	if db == nil || db.Client == nil {
		return nil
	}
	return db.Client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the catalog relies on. Schemas are
// defined once at process start; there is no teardown.
func (db *Database) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := db.DB.Collection(productsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return err
	}

	_, err = db.DB.Collection(categoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = db.DB.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
