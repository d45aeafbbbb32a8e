package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/BarkinBalci/storefront-analytics/internal/catalog"
	"github.com/BarkinBalci/storefront-analytics/internal/domain"
)

var _ catalog.Reader = (*Reader)(nil)

// productDocument is the subset of the storefront product document we read
type productDocument struct {
	ID     any      `bson:"_id"`
	Name   string   `bson:"name"`
	Slug   string   `bson:"slug"`
	Price  float64  `bson:"price"`
	Images []string `bson:"images"`
}

// Reader reads products from the storefront's MongoDB products collection
type Reader struct {
	collection *mongo.Collection
}

// NewReader creates a catalog reader over the given collection
func NewReader(db *mongo.Database, collection string) *Reader {
	return &Reader{collection: db.Collection(collection)}
}

// idFilter matches either an ObjectID or a plain string _id. Storefront
// products use ObjectIDs, but events may carry any opaque id.
func idFilter(id string) bson.D {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		return bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: bson.A{oid, id}}}}}
	}
	return bson.D{{Key: "_id", Value: id}}
}

var projection = bson.D{
	{Key: "name", Value: 1},
	{Key: "slug", Value: 1},
	{Key: "price", Value: 1},
	{Key: "images", Value: bson.D{{Key: "$slice", Value: 1}}},
}

// FindProduct returns the first product matching id, or nil if none does
func (r *Reader) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	var doc productDocument

	err := r.collection.FindOne(ctx, idFilter(id), options.FindOne().SetProjection(projection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product %q: %w", id, err)
	}

	return toProduct(id, &doc), nil
}

func toProduct(id string, doc *productDocument) *domain.Product {
	p := &domain.Product{
		ID:    id,
		Name:  doc.Name,
		Slug:  doc.Slug,
		Price: doc.Price,
	}
	if len(doc.Images) > 0 {
		p.Image = doc.Images[0]
	}
	return p
}
