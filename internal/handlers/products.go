package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/models"
)

/* =======================
   REQUEST MODELS
======================= */

// ProductRequest is the full representation accepted by create and update.
// Update is a replace: omitted optional fields are cleared.
type ProductRequest struct {
	Name          string             `json:"name" binding:"required,max=200"`
	Description   string             `json:"description" binding:"max=2000"`
	Price         *models.Money      `json:"price" binding:"required"`
	Category      string             `json:"category" binding:"max=100"`
	Brand         string             `json:"brand" binding:"max=100"`
	SKU           string             `json:"sku" binding:"max=100"`
	StockQuantity *int               `json:"stockQuantity" binding:"omitempty,min=0"`
	ImageURLs     []string           `json:"imageUrls"`
	Tags          []string           `json:"tags"`
	Dimensions    *models.Dimensions `json:"dimensions"`
	Weight        float64            `json:"weight" binding:"min=0"`
	Active        *bool              `json:"active"`
	Featured      bool               `json:"featured"`
}

func (r ProductRequest) toProduct() (*models.Product, *apperrors.DomainError) {
	details := map[string]any{}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		details["name"] = "name must not be blank"
	}
	switch {
	case r.Price == nil:
	case r.Price.IsNegative():
		details["price"] = "price must not be negative"
	case !r.Price.Storable():
		details["price"] = "price has too many significant digits"
	}
	if len(details) > 0 {
		return nil, apperrors.Validation("validation failed", details)
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}
	stock := 0
	if r.StockQuantity != nil {
		stock = *r.StockQuantity
	}

	p := models.NewProduct(name, *r.Price)
	p.Description = strings.TrimSpace(r.Description)
	p.Category = strings.TrimSpace(r.Category)
	p.Brand = strings.TrimSpace(r.Brand)
	p.SKU = strings.TrimSpace(r.SKU)
	p.StockQuantity = stock
	p.ImageURLs = models.StringList(r.ImageURLs).Clean()
	p.Tags = models.StringList(r.Tags).Clean()
	p.Dimensions = r.Dimensions
	p.Weight = r.Weight
	p.State = models.StateFor(active)
	p.Featured = r.Featured
	p.SyncDerived()
	return p, nil
}

/* =======================
   PUBLIC CATALOG
======================= */

func ListProducts(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products"
		defer handlePanic(c, route)

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		page, err := catalog.ListActive(c.Request.Context(), req)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetProduct returns the product in any state, so soft-deleted records stay
// reachable by id.
func GetProduct(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/:id"
		defer handlePanic(c, route)

		product, err := catalog.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func SearchProducts(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/search"
		defer handlePanic(c, route)

		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			respondDomainError(c, apperrors.Validation("validation failed", map[string]any{"name": "name is required"}))
			return
		}

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		page, err := catalog.SearchByName(c.Request.Context(), name, req)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func ProductsByCategory(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/category/:category"
		defer handlePanic(c, route)

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		page, err := catalog.ListByCategory(c.Request.Context(), c.Param("category"), req)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func ProductsByBrand(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/brand/:brand"
		defer handlePanic(c, route)

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		page, err := catalog.ListByBrand(c.Request.Context(), c.Param("brand"), req)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func ProductsByPriceRange(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/price-range"
		defer handlePanic(c, route)

		details := map[string]any{}
		minPrice, err := models.MoneyFromString(c.Query("minPrice"))
		if err != nil {
			details["minPrice"] = "minPrice must be a decimal number"
		} else if !minPrice.Storable() {
			details["minPrice"] = "minPrice has too many significant digits"
		}
		maxPrice, err := models.MoneyFromString(c.Query("maxPrice"))
		if err != nil {
			details["maxPrice"] = "maxPrice must be a decimal number"
		} else if !maxPrice.Storable() {
			details["maxPrice"] = "maxPrice has too many significant digits"
		}
		if len(details) > 0 {
			respondDomainError(c, apperrors.Validation("validation failed", details))
			return
		}

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		page, err := catalog.ListByPriceRange(c.Request.Context(), minPrice, maxPrice, req)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func FeaturedProducts(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/featured"
		defer handlePanic(c, route)

		products, err := catalog.ListFeatured(c.Request.Context())
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func ProductCategories(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/categories"
		defer handlePanic(c, route)

		categories, err := catalog.ListCategories(c.Request.Context())
		if err != nil {
			respondWithError(c, route, "category", err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func ProductBrands(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/products/brands"
		defer handlePanic(c, route)

		brands, err := catalog.ListBrands(c.Request.Context())
		if err != nil {
			respondWithError(c, route, "brand", err)
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}

/* =======================
   ADMIN
======================= */

func CreateProduct(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"
		defer handlePanic(c, route)

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		product, domainErr := req.toProduct()
		if domainErr != nil {
			respondDomainError(c, domainErr)
			return
		}

		created, err := catalog.Create(c.Request.Context(), product)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		zap.L().Info("product created", zap.String("route", route), zap.String("productId", created.ID.Hex()))
		c.JSON(http.StatusOK, created)
	}
}

func UpdateProduct(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		defer handlePanic(c, route)

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		fields, domainErr := req.toProduct()
		if domainErr != nil {
			respondDomainError(c, domainErr)
			return
		}

		updated, err := catalog.Update(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		zap.L().Info("product updated", zap.String("route", route), zap.String("productId", updated.ID.Hex()))
		c.JSON(http.StatusOK, updated)
	}
}

// DeleteProduct is a soft delete; the product stays readable by id.
func DeleteProduct(catalog ProductCatalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/products/:id"
		defer handlePanic(c, route)

		id := c.Param("id")
		if err := catalog.SoftDelete(c.Request.Context(), id); err != nil {
			respondWithError(c, route, "product", err)
			return
		}

		zap.L().Info("product deactivated", zap.String("route", route), zap.String("productId", id))
		c.Status(http.StatusOK)
	}
}
