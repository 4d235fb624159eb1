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

type AccountStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewAccountStore(db *mongo.Database, timeout time.Duration) *AccountStore {
	return &AccountStore{coll: db.Collection(database.UsersCollection), timeout: timeout}
}

func (s *AccountStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username}, "username "+username)
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": email}, "email "+email)
}

// FindActiveByUsername skips deactivated accounts so they cannot sign in.
func (s *AccountStore) FindActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"username": username, "active": true}, "active username "+username)
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "user %q", id)
	}
	return s.findOne(ctx, bson.M{"_id": oid}, "user "+id)
}

func (s *AccountStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, bson.M{"username": username})
}

func (s *AccountStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": email})
}

// Create inserts the user and assigns its id. A lost race on username or
// email surfaces as ErrDuplicateUsername or ErrDuplicateEmail.
func (s *AccountStore) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mapped, ok := duplicateKey(err); ok {
			return mapped
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (s *AccountStore) findOne(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var user models.User
	if err := s.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.Wrap(ErrNotFound, what)
		}
		return nil, errors.Wrapf(err, "find %s", what)
	}
	return &user, nil
}

func (s *AccountStore) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "count users")
	}
	return n > 0, nil
}
