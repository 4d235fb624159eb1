package repository

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

var productSortFields = map[string]struct{}{
	"createdAt":     {},
	"updatedAt":     {},
	"name":          {},
	"price":         {},
	"rating":        {},
	"reviewCount":   {},
	"stockQuantity": {},
}

type CatalogStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewCatalogStore(db *mongo.Database, timeout time.Duration) *CatalogStore {
	return &CatalogStore{coll: db.Collection(database.ProductsCollection), timeout: timeout}
}

// activeOnly restricts filter to products still in the catalog. Documents
// written before the state field existed count as active.
func activeOnly(filter bson.M) bson.M {
	out := bson.M{}
	for k, v := range filter {
		out[k] = v
	}
	out["state"] = bson.M{"$ne": models.ProductStateInactive}
	return out
}

func nameSearchFilter(name string) bson.M {
	return activeOnly(bson.M{
		"name": bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(name)), "$options": "i"},
	})
}

func categoryFilter(category string) bson.M {
	return activeOnly(bson.M{"category": category})
}

func brandFilter(brand string) bson.M {
	return activeOnly(bson.M{"brand": brand})
}

func priceRangeFilter(minPrice, maxPrice models.Money) (bson.M, error) {
	if minPrice.IsNegative() {
		return nil, invalidArgument("minPrice", "minPrice must not be negative")
	}
	if !minPrice.Storable() {
		return nil, invalidArgument("minPrice", "minPrice has too many significant digits")
	}
	if !maxPrice.Storable() {
		return nil, invalidArgument("maxPrice", "maxPrice has too many significant digits")
	}
	if minPrice.GreaterThan(maxPrice.Decimal) {
		return nil, invalidArgument("minPrice", "minPrice %s exceeds maxPrice %s", minPrice, maxPrice)
	}
	return activeOnly(bson.M{"price": bson.M{"$gte": minPrice, "$lte": maxPrice}}), nil
}

func featuredFilter() bson.M {
	return activeOnly(bson.M{"featured": true})
}

// productSort resolves the client's sort request; _id breaks ties so pages
// do not overlap.
func productSort(sortBy, sortDir string) (bson.D, error) {
	if sortBy == "" {
		sortBy = "createdAt"
	}
	if _, ok := productSortFields[sortBy]; !ok {
		return nil, invalidArgument("sortBy", "unsupported sort field %q", sortBy)
	}
	dir := -1
	switch strings.ToLower(sortDir) {
	case "", "desc":
	case "asc":
		dir = 1
	default:
		return nil, invalidArgument("sortDir", "unsupported sort direction %q", sortDir)
	}
	return bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}, nil
}

func (s *CatalogStore) ListActive(ctx context.Context, req PageRequest) (Page[models.Product], error) {
	return s.findPage(ctx, activeOnly(bson.M{}), req)
}

func (s *CatalogStore) SearchByName(ctx context.Context, name string, req PageRequest) (Page[models.Product], error) {
	return s.findPage(ctx, nameSearchFilter(name), req)
}

func (s *CatalogStore) ListByCategory(ctx context.Context, category string, req PageRequest) (Page[models.Product], error) {
	return s.findPage(ctx, categoryFilter(category), req)
}

func (s *CatalogStore) ListByBrand(ctx context.Context, brand string, req PageRequest) (Page[models.Product], error) {
	return s.findPage(ctx, brandFilter(brand), req)
}

func (s *CatalogStore) ListByPriceRange(ctx context.Context, minPrice, maxPrice models.Money, req PageRequest) (Page[models.Product], error) {
	filter, err := priceRangeFilter(minPrice, maxPrice)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return s.findPage(ctx, filter, req)
}

func (s *CatalogStore) ListFeatured(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.coll.Find(ctx, featuredFilter(), opts)
	if err != nil {
		return nil, errors.Wrap(err, "find featured products")
	}
	defer cursor.Close(ctx)

	return decodeProducts(ctx, cursor)
}

func (s *CatalogStore) ListCategories(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "category")
}

func (s *CatalogStore) ListBrands(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, "brand")
}

// GetByID returns the product whatever its state.
func (s *CatalogStore) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "product %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var p models.Product
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(ErrNotFound, "product %s", id)
		}
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	p.SyncDerived()
	return &p, nil
}

func (s *CatalogStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.DeletedAt = nil
	p.SyncDerived()

	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		return nil, errors.Wrap(err, "insert product")
	}
	return p, nil
}

// Update replaces the editable fields of an existing product. Two concurrent
// updates race; the last ReplaceOne wins.
func (s *CatalogStore) Update(ctx context.Context, id string, fields *models.Product) (*models.Product, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	current.ReplaceFrom(fields)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": current.ID}, current)
	if err != nil {
		return nil, errors.Wrapf(err, "replace product %s", id)
	}
	if res.MatchedCount == 0 {
		return nil, errors.Wrapf(ErrNotFound, "product %s", id)
	}
	return current, nil
}

func (s *CatalogStore) SoftDelete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "product %q", id)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var tombstone models.Product
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": tombstone.MarkDeleted(time.Now().UTC())})
	if err != nil {
		return errors.Wrapf(err, "soft delete product %s", id)
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(ErrNotFound, "product %s", id)
	}
	return nil
}

func (s *CatalogStore) findPage(ctx context.Context, filter bson.M, req PageRequest) (Page[models.Product], error) {
	req = req.Normalize()
	sortSpec, err := productSort(req.SortBy, req.SortDir)
	if err != nil {
		return Page[models.Product]{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return Page[models.Product]{}, errors.Wrap(err, "count products")
	}

	opts := options.Find().
		SetSort(sortSpec).
		SetSkip(req.skip()).
		SetLimit(int64(req.Size))

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return Page[models.Product]{}, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return Page[models.Product]{}, err
	}
	return NewPage(products, req, total), nil
}

func (s *CatalogStore) distinct(ctx context.Context, field string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	values, err := s.coll.Distinct(ctx, field, activeOnly(bson.M{}))
	if err != nil {
		return nil, errors.Wrapf(err, "distinct %s", field)
	}
	return distinctStrings(values), nil
}

// distinctStrings keeps the non-blank string values, sorted.
func distinctStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)

	for cursor.Next(ctx) {
		var p models.Product
		if err := cursor.Decode(&p); err != nil {
			return nil, errors.Wrap(err, "decode product")
		}
		p.SyncDerived()
		products = append(products, p)
	}

	if err := cursor.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate products")
	}

	return products, nil
}
