package mongodb

import (
	"context"
	"errors"
	"time"

	domain "storefront/backend/internal/domain/product"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductRepository persists products in MongoDB.
type ProductRepository struct {
	coll *mongo.Collection
}

// NewProductRepository constructs a repository.
func NewProductRepository(db *Database) *ProductRepository {
	return &ProductRepository{coll: db.DB.Collection(productsCollection)}
}

type productDoc struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	Slug          string               `bson:"slug"`
	Description   string               `bson:"description,omitempty"`
	Price         float64              `bson:"price"`
	OldPrice      *float64             `bson:"oldPrice,omitempty"`
	Images        []domain.Image       `bson:"images"`
	Sizes         []domain.SizeVariant `bson:"sizes,omitempty"`
	Colors        []string             `bson:"colors,omitempty"`
	Category      []string             `bson:"category,omitempty"`
	IsBestSeller  bool                 `bson:"isBestSeller"`
	IsMostPopular bool                 `bson:"isMostPopular"`
	IsListed      bool                 `bson:"isListed"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func productToDoc(p *domain.Product) (productDoc, error) {
	doc := productDoc{
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		OldPrice:      p.OldPrice,
		Images:        p.Images,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		Category:      p.Category,
		IsBestSeller:  p.IsBestSeller,
		IsMostPopular: p.IsMostPopular,
		IsListed:      p.IsListed,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return productDoc{}, domain.ErrNotFound
		}
		doc.ID = oid
	}
	return doc, nil
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Slug:          d.Slug,
		Description:   d.Description,
		Price:         d.Price,
		OldPrice:      d.OldPrice,
		Images:        d.Images,
		Sizes:         d.Sizes,
		Colors:        d.Colors,
		Category:      d.Category,
		IsBestSeller:  d.IsBestSeller,
		IsMostPopular: d.IsMostPopular,
		IsListed:      d.IsListed,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Create inserts a new product and assigns its identifier.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	doc, err := productToDoc(p)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

// GetByID fetches a product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// GetBySlug fetches a product using its slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// List returns a filtered, sorted page of products plus the total match count.
func (r *ProductRepository) List(ctx context.Context, query domain.ListQuery) ([]*domain.Product, int64, error) {
	filter := buildListFilter(query)

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(buildListSort(query.Sort)).
		SetSkip(int64(query.Offset())).
		SetLimit(int64(query.Limit))

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toDomain())
	}
	return products, total, nil
}

// ListAll returns every product, newest first, regardless of listed state.
func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, doc.toDomain())
	}
	return products, nil
}

// Replace overwrites the full product record identified by its id.
func (r *ProductRepository) Replace(ctx context.Context, p *domain.Product) error {
	doc, err := productToDoc(p)
	if err != nil {
		return err
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a product by id.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
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
