package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Unique index names. The repository layer matches duplicate-key errors on these.
const (
	UsernameUniqueIndex = "username_unique"
	EmailUniqueIndex    = "email_unique"
)

func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(UsernameUniqueIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(EmailUniqueIndex).SetUnique(true),
		},
	}
}

func ProductIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("state_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetName("state_category"),
		},
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "brand", Value: 1}},
			Options: options.Index().SetName("state_brand"),
		},
		{
			Keys:    bson.D{{Key: "state", Value: 1}, {Key: "price", Value: 1}},
			Options: options.Index().SetName("state_price"),
		},
		{
			Keys: bson.D{{Key: "featured", Value: 1}},
			Options: options.Index().
				SetName("featured_partial").
				SetPartialFilterExpression(bson.M{"featured": true}),
		},
	}
}

func OrderIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "orderDate", Value: -1}},
			Options: options.Index().SetName("userId_orderDate"),
		},
		{
			Keys:    bson.D{{Key: "orderNumber", Value: 1}},
			Options: options.Index().SetName("orderNumber_index"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		},
	}
}

func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexes(ctx, db.Collection(UsersCollection), UserIndexes())
}

func EnsureProductIndexes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexes(ctx, db.Collection(ProductsCollection), ProductIndexes())
}

func EnsureOrderIndexes(ctx context.Context, db *mongo.Database) error {
	return ensureIndexes(ctx, db.Collection(OrdersCollection), OrderIndexes())
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	logger := zap.L().With(zap.String("collection", coll.Name()))
	logger.Info("creating indexes", zap.Int("count", len(models)))
	names, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		logger.Error("index creation failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ready", zap.Strings("names", names))
	return nil
}
