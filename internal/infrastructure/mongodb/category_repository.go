package mongodb

import (
	"context"
	"time"

	domain "storefront/backend/internal/domain/category"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CategoryRepository persists categories in MongoDB.
type CategoryRepository struct {
	coll *mongo.Collection
}

// NewCategoryRepository constructs a repository.
func NewCategoryRepository(db *Database) *CategoryRepository {
	return &CategoryRepository{coll: db.DB.Collection(categoriesCollection)}
}

type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d categoryDoc) toDomain() *domain.Category {
	return &domain.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create inserts a new category and assigns its identifier.
// A duplicate name surfaces as domain.ErrAlreadyExists.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	doc := categoryDoc{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	c.ID = doc.ID.Hex()
	return nil
}

// List returns all categories sorted by name ascending.
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "name", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []categoryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	categories := make([]*domain.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, doc.toDomain())
	}
	return categories, nil
}

// Delete removes a category by id.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
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
