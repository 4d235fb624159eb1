package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type Authenticator interface {
	Register(ctx context.Context, in auth.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*auth.Session, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
}

type ProductCatalog interface {
	ListActive(ctx context.Context, req repository.PageRequest) (repository.Page[models.Product], error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	SearchByName(ctx context.Context, name string, req repository.PageRequest) (repository.Page[models.Product], error)
	ListByCategory(ctx context.Context, category string, req repository.PageRequest) (repository.Page[models.Product], error)
	ListByBrand(ctx context.Context, brand string, req repository.PageRequest) (repository.Page[models.Product], error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice models.Money, req repository.PageRequest) (repository.Page[models.Product], error)
	ListFeatured(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	ListBrands(ctx context.Context) ([]string, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, id string, fields *models.Product) (*models.Product, error)
	SoftDelete(ctx context.Context, id string) error
}

type OrderBook interface {
	ListByUser(ctx context.Context, userID primitive.ObjectID, req repository.PageRequest) (repository.Page[models.Order], error)
	ListAllByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
	FindByOrderNumber(ctx context.Context, number string) (*models.Order, error)
}
