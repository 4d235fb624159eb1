package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/observability"
)

type Deps struct {
	Auth           Authenticator
	Tokens         middleware.TokenParser
	Catalog        ProductCatalog
	Orders         OrderBook
	Ping           func(ctx context.Context) error
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	AllowedOrigins []string
}

func NewRouter(d Deps) *gin.Engine {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.Use(middleware.CORS(d.AllowedOrigins))

	if d.Ping != nil {
		r.GET("/healthz", Health(d.Ping))
	}

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/signup", Signup(d.Auth))
		authGroup.POST("/signin", Signin(d.Auth))
		authGroup.GET("/me", middleware.UserAuth(d.Tokens), Me(d.Auth))
	}

	products := api.Group("/products")
	{
		products.GET("", ListProducts(d.Catalog))
		products.GET("/search", SearchProducts(d.Catalog))
		products.GET("/category/:category", ProductsByCategory(d.Catalog))
		products.GET("/brand/:brand", ProductsByBrand(d.Catalog))
		products.GET("/price-range", ProductsByPriceRange(d.Catalog))
		products.GET("/featured", FeaturedProducts(d.Catalog))
		products.GET("/categories", ProductCategories(d.Catalog))
		products.GET("/brands", ProductBrands(d.Catalog))
		products.GET("/:id", GetProduct(d.Catalog))

		admin := products.Group("", middleware.AdminAuth(d.Tokens))
		admin.POST("", CreateProduct(d.Catalog))
		admin.PUT("/:id", UpdateProduct(d.Catalog))
		admin.DELETE("/:id", DeleteProduct(d.Catalog))
	}

	orders := api.Group("/orders", middleware.UserAuth(d.Tokens))
	{
		orders.GET("/me", MyOrders(d.Orders))
		orders.GET("/number/:orderNumber", OrderByNumber(d.Orders))
		orders.GET("/status/:status",
			middleware.AuthGuard(d.Tokens, models.RoleAdmin, models.RoleModerator),
			OrdersByStatus(d.Orders),
		)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}
