package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperrors"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

/*
GET /api/orders/me
- page/size given → paged response
- neither given → every order of the caller
*/
func MyOrders(orders OrderBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/me"
		defer handlePanic(c, route)

		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			respondDomainError(c, apperrors.Unauthorized("unauthorized"))
			return
		}
		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			respondDomainError(c, apperrors.Unauthorized("unauthorized"))
			return
		}

		if !hasPaginationParams(c) {
			all, err := orders.ListAllByUser(c.Request.Context(), userID)
			if err != nil {
				respondWithError(c, route, "order", err)
				return
			}
			c.JSON(http.StatusOK, all)
			return
		}

		req, err := parsePageRequest(c)
		if err != nil {
			respondWithError(c, route, "order", err)
			return
		}
		page, err := orders.ListByUser(c.Request.Context(), userID, req)
		if err != nil {
			respondWithError(c, route, "order", err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// OrderByNumber lets owners read their own orders and admins read any.
func OrderByNumber(orders OrderBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/number/:orderNumber"
		defer handlePanic(c, route)

		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			respondDomainError(c, apperrors.Unauthorized("unauthorized"))
			return
		}

		order, err := orders.FindByOrderNumber(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			respondWithError(c, route, "order", err)
			return
		}
		if order.UserID.Hex() != claims.UserID && !claims.HasRole(models.RoleAdmin) {
			respondDomainError(c, apperrors.Forbidden("forbidden"))
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func OrdersByStatus(orders OrderBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/status/:status"
		defer handlePanic(c, route)

		list, err := orders.ListByStatus(c.Request.Context(), c.Param("status"))
		if err != nil {
			respondWithError(c, route, "order", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
