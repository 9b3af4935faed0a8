package mongodb

import (
	"context"
	"errors"
	"time"

	domain "storefront/backend/internal/domain/banner"
	"storefront/backend/internal/domain/product"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BannerRepository persists banners in MongoDB.
type BannerRepository struct {
	coll *mongo.Collection
}

// NewBannerRepository constructs a repository.
func NewBannerRepository(db *Database) *BannerRepository {
	return &BannerRepository{coll: db.DB.Collection(bannersCollection)}
}

type bannerDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Image     product.Image      `bson:"image"`
	Link      string             `bson:"link"`
	Order     int                `bson:"order"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d bannerDoc) toDomain() *domain.Banner {
	return &domain.Banner{
		ID:        d.ID.Hex(),
		Image:     d.Image,
		Link:      d.Link,
		Order:     d.Order,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create inserts a new banner and assigns its identifier.
func (r *BannerRepository) Create(ctx context.Context, b *domain.Banner) error {
	doc := bannerDoc{
		ID:        primitive.NewObjectID(),
		Image:     b.Image,
		Link:      b.Link,
		Order:     b.Order,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	b.ID = doc.ID.Hex()
	return nil
}

// GetByID fetches a banner by its identifier.
func (r *BannerRepository) GetByID(ctx context.Context, id string) (*domain.Banner, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc bannerDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns all banners sorted by display order ascending.
func (r *BannerRepository) List(ctx context.Context) ([]*domain.Banner, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bannerDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	banners := make([]*domain.Banner, 0, len(docs))
	for _, doc := range docs {
		banners = append(banners, doc.toDomain())
	}
	return banners, nil
}

// Delete removes a banner by id.
func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
