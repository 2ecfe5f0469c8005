package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/princinho/sahomattress/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is the catalog persistence contract shared by the mongo
// store and its cache decorator.
type ProductRepository interface {
	List(ctx context.Context, category *models.Category) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, fields models.ProductFields) (*models.Product, error)
	Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ProductStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewProductStore(db *mongo.Database) *ProductStore {
	return &ProductStore{
		col: db.Collection(ProductsCollection),
		now: func() time.Time { return time.Now().UTC() },
	}
}

func listFilter(category *models.Category) bson.M {
	if category == nil {
		return bson.M{}
	}
	return bson.M{"category": *category}
}

func (s *ProductStore) List(ctx context.Context, category *models.Category) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, listFilter(category))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetByID returns nil, nil when the id is malformed or unknown.
func (s *ProductStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var p models.Product
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, fields models.ProductFields) (*models.Product, error) {
	now := s.now()
	p := models.Product{
		Id:        bson.NewObjectID(),
		Name:      fields.Name,
		Slug:      fields.Slug,
		Price:     fields.Price,
		Category:  fields.Category,
		Sizes:     fields.Sizes,
		Images:    fields.Images,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return &p, nil
}

func buildProductUpdate(patch models.ProductPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Slug != nil {
		set["slug"] = *patch.Slug
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Sizes != nil {
		set["sizes"] = patch.Sizes
	}
	return bson.M{"$set": set}
}

// Update merges patch into the stored document and returns the result. It never
// upserts; an unknown id yields ErrProductNotFound.
func (s *ProductStore) Update(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After).SetUpsert(false)
	var p models.Product
	err = s.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, buildProductUpdate(patch, s.now()), opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	return &p, nil
}

// Delete reports whether a document was removed.
func (s *ProductStore) Delete(ctx context.Context, id string) (bool, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete product %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}
