package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/repository"
)

type memoryAccounts struct {
	mu    sync.Mutex
	users []*models.User
}

func (m *memoryAccounts) find(match func(*models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccounts) FindActiveByUsername(_ context.Context, username string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.Username == username && u.Active })
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*models.User, error) {
	return m.find(func(u *models.User) bool { return u.ID.Hex() == id })
}

func (m *memoryAccounts) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, err := m.find(func(u *models.User) bool { return u.Username == username })
	return err == nil, nil
}

func (m *memoryAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := m.find(func(u *models.User) bool { return u.Email == email })
	return err == nil, nil
}

func (m *memoryAccounts) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users = append(m.users, user)
	return nil
}

type memoryCatalog struct {
	mu       sync.Mutex
	products []*models.Product
}

func (m *memoryCatalog) page(req repository.PageRequest, match func(*models.Product) bool) repository.Page[models.Product] {
	m.mu.Lock()
	defer m.mu.Unlock()
	req = req.Normalize()

	matched := make([]models.Product, 0)
	for _, p := range m.products {
		if p.IsActive() && match(p) {
			matched = append(matched, *p)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start := req.Page * req.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + req.Size
	if end > len(matched) {
		end = len(matched)
	}
	return repository.NewPage(matched[start:end], req, int64(len(matched)))
}

func (m *memoryCatalog) ListActive(_ context.Context, req repository.PageRequest) (repository.Page[models.Product], error) {
	return m.page(req, func(*models.Product) bool { return true }), nil
}

func (m *memoryCatalog) GetByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID.Hex() == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.Wrapf(repository.ErrNotFound, "product %s", id)
}

func (m *memoryCatalog) SearchByName(_ context.Context, name string, req repository.PageRequest) (repository.Page[models.Product], error) {
	needle := strings.ToLower(name)
	return m.page(req, func(p *models.Product) bool { return strings.Contains(strings.ToLower(p.Name), needle) }), nil
}

func (m *memoryCatalog) ListByCategory(_ context.Context, category string, req repository.PageRequest) (repository.Page[models.Product], error) {
	return m.page(req, func(p *models.Product) bool { return p.Category == category }), nil
}

func (m *memoryCatalog) ListByBrand(_ context.Context, brand string, req repository.PageRequest) (repository.Page[models.Product], error) {
	return m.page(req, func(p *models.Product) bool { return p.Brand == brand }), nil
}

func (m *memoryCatalog) ListByPriceRange(_ context.Context, minPrice, maxPrice models.Money, req repository.PageRequest) (repository.Page[models.Product], error) {
	if minPrice.GreaterThan(maxPrice.Decimal) {
		return repository.Page[models.Product]{}, errors.Wrap(repository.ErrInvalidArgument, "minPrice exceeds maxPrice")
	}
	return m.page(req, func(p *models.Product) bool {
		return p.Price.GreaterThanOrEqual(minPrice.Decimal) && p.Price.LessThanOrEqual(maxPrice.Decimal)
	}), nil
}

func (m *memoryCatalog) ListFeatured(ctx context.Context) ([]models.Product, error) {
	page := m.page(repository.PageRequest{Size: repository.MaxPageSize}, func(p *models.Product) bool { return p.Featured })
	return page.Content, nil
}

func (m *memoryCatalog) distinct(field func(*models.Product) string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, p := range m.products {
		v := field(p)
		if _, ok := seen[v]; ok || v == "" || !p.IsActive() {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (m *memoryCatalog) ListCategories(context.Context) ([]string, error) {
	return m.distinct(func(p *models.Product) string { return p.Category }), nil
}

func (m *memoryCatalog) ListBrands(context.Context) ([]string, error) {
	return m.distinct(func(p *models.Product) string { return p.Brand }), nil
}

func (m *memoryCatalog) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	// keep insertion order observable through createdAt ordering
	p.CreatedAt = time.Now().UTC().Add(time.Duration(len(m.products)) * time.Millisecond)
	p.UpdatedAt = p.CreatedAt
	p.SyncDerived()
	m.products = append(m.products, p)
	cp := *p
	return &cp, nil
}

func (m *memoryCatalog) Update(_ context.Context, id string, fields *models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID.Hex() == id {
			p.ReplaceFrom(fields)
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.Wrapf(repository.ErrNotFound, "product %s", id)
}

func (m *memoryCatalog) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ID.Hex() == id {
			p.MarkDeleted(time.Now().UTC())
			return nil
		}
	}
	return errors.Wrapf(repository.ErrNotFound, "product %s", id)
}

type memoryOrders struct {
	orders []*models.Order
}

func (m *memoryOrders) byUser(userID primitive.ObjectID) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out
}

func (m *memoryOrders) ListByUser(_ context.Context, userID primitive.ObjectID, req repository.PageRequest) (repository.Page[models.Order], error) {
	req = req.Normalize()
	all := m.byUser(userID)
	start := req.Page * req.Size
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	return repository.NewPage(all[start:end], req, int64(len(all))), nil
}

func (m *memoryOrders) ListAllByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.byUser(userID), nil
}

func (m *memoryOrders) ListByStatus(_ context.Context, status string) ([]models.Order, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, errors.Wrap(repository.ErrInvalidArgument, err.Error())
	}
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.Status == parsed {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *memoryOrders) FindByOrderNumber(_ context.Context, number string) (*models.Order, error) {
	for _, o := range m.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, errors.Wrapf(repository.ErrNotFound, "order %s", number)
}
