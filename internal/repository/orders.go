package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/database"
	"storefront/internal/models"
)

var newestOrdersFirst = bson.D{{Key: "orderDate", Value: -1}, {Key: "_id", Value: -1}}

// OrderStore is read-only; orders are written by the checkout flow elsewhere.
type OrderStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewOrderStore(db *mongo.Database, timeout time.Duration) *OrderStore {
	return &OrderStore{coll: db.Collection(database.OrdersCollection), timeout: timeout}
}

func (s *OrderStore) ListByUser(ctx context.Context, userID primitive.ObjectID, req PageRequest) (Page[models.Order], error) {
	req = req.Normalize()
	filter := bson.M{"userId": userID}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return Page[models.Order]{}, errors.Wrap(err, "count orders")
	}

	opts := options.Find().
		SetSort(newestOrdersFirst).
		SetSkip(req.skip()).
		SetLimit(int64(req.Size))
	orders, err := s.find(ctx, filter, opts)
	if err != nil {
		return Page[models.Order]{}, err
	}
	return NewPage(orders, req, total), nil
}

func (s *OrderStore) ListAllByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(newestOrdersFirst))
}

func (s *OrderStore) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, invalidArgument("status", "unknown order status %q", status)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.find(ctx, bson.M{"status": parsed}, options.Find().SetSort(newestOrdersFirst))
}

func (s *OrderStore) FindByOrderNumber(ctx context.Context, number string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var order models.Order
	if err := s.coll.FindOne(ctx, bson.M{"orderNumber": number}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrapf(ErrNotFound, "order %s", number)
		}
		return nil, errors.Wrapf(err, "find order %s", number)
	}
	return &order, nil
}

func (s *OrderStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find orders")
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, errors.Wrap(err, "decode orders")
	}
	return orders, nil
}
