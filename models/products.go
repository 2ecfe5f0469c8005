package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Product struct {
	Id        bson.ObjectID `bson:"_id" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Slug      string        `bson:"slug" json:"slug"`
	Price     float64       `bson:"price" json:"price"`
	Category  Category      `bson:"category" json:"category"`
	Sizes     []string      `bson:"sizes" json:"sizes"`
	Images    []string      `bson:"images" json:"images"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ProductFields are the validated attributes of a product about to be created.
type ProductFields struct {
	Name     string
	Slug     string
	Price    float64
	Category Category
	Sizes    []string
	Images   []string
}

// ProductPatch holds the mutable attributes; nil means unchanged.
// Images are fixed at creation and have no patch field.
type ProductPatch struct {
	Name     *string
	Slug     *string
	Price    *float64
	Category *Category
	Sizes    []string
}

func (p ProductPatch) IsEmpty() bool {
	return p.Name == nil && p.Slug == nil && p.Price == nil && p.Category == nil && p.Sizes == nil
}
