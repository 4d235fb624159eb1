package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductState is the catalog lifecycle of a product. Only ACTIVE products are
// visible to listing and search; any state is reachable by id.
type ProductState string

const (
	ProductStateActive   ProductState = "ACTIVE"
	ProductStateInactive ProductState = "INACTIVE"
)

// StateFor maps the API's active flag onto the lifecycle.
func StateFor(active bool) ProductState {
	if active {
		return ProductStateActive
	}
	return ProductStateInactive
}

type Dimensions struct {
	Length float64 `bson:"length" json:"length"`
	Width  float64 `bson:"width" json:"width"`
	Height float64 `bson:"height" json:"height"`
}

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         Money              `bson:"price" json:"price"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	Brand         string             `bson:"brand,omitempty" json:"brand,omitempty"`
	SKU           string             `bson:"sku,omitempty" json:"sku,omitempty"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	ImageURLs     StringList         `bson:"imageUrls" json:"imageUrls"`
	Tags          StringList         `bson:"tags" json:"tags"`
	Rating        float64            `bson:"rating" json:"rating"`
	ReviewCount   int                `bson:"reviewCount" json:"reviewCount"`
	Dimensions    *Dimensions        `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Weight        float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	State         ProductState       `bson:"state" json:"state"`
	Active        bool               `bson:"-" json:"active"`
	Featured      bool               `bson:"featured" json:"featured"`
	DeletedAt     *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NewProduct stamps creation timestamps on an active product.
func NewProduct(name string, price Money) *Product {
	now := time.Now().UTC()
	p := &Product{
		Name:      name,
		Price:     price,
		State:     ProductStateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	p.SyncDerived()
	return p
}

func (p *Product) IsActive() bool {
	return p.State == ProductStateActive
}

// SyncDerived refreshes fields computed from stored state. Call after decode.
func (p *Product) SyncDerived() {
	if p.State == "" {
		p.State = ProductStateActive
	}
	p.Active = p.IsActive()
}

// ReplaceFrom overwrites every client-editable field with the values in src.
// Identity, creation time, review aggregates and deletedAt are kept.
func (p *Product) ReplaceFrom(src *Product) {
	p.Name = src.Name
	p.Description = src.Description
	p.Price = src.Price
	p.Category = src.Category
	p.Brand = src.Brand
	p.SKU = src.SKU
	p.StockQuantity = src.StockQuantity
	p.ImageURLs = src.ImageURLs
	p.Tags = src.Tags
	p.Dimensions = src.Dimensions
	p.Weight = src.Weight
	p.State = src.State
	p.Featured = src.Featured
	if p.IsActive() {
		p.DeletedAt = nil
	}
	p.UpdatedAt = time.Now().UTC()
	p.SyncDerived()
}

// MarkDeleted is the soft delete: the record stays, it just leaves the catalog.
// It returns the stored fields it touched, ready for a $set.
func (p *Product) MarkDeleted(at time.Time) bson.M {
	p.State = ProductStateInactive
	p.DeletedAt = &at
	p.UpdatedAt = at
	p.SyncDerived()
	return bson.M{
		"state":     p.State,
		"deletedAt": p.DeletedAt,
		"updatedAt": p.UpdatedAt,
	}
}
