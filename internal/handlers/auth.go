package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/auth"
	"storefront/internal/middleware"
)

// RoleHints accepts "role": "admin" as well as "role": ["admin", "mod"].
type RoleHints []string

func (r *RoleHints) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*r = RoleHints{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*r = many
	return nil
}

type SignupRequest struct {
	Username  string    `json:"username" binding:"required,max=50"`
	Email     string    `json:"email" binding:"required,email,max=100"`
	Password  string    `json:"password" binding:"required,max=72"`
	Role      RoleHints `json:"role"`
	FirstName string    `json:"firstName" binding:"max=50"`
	LastName  string    `json:"lastName" binding:"max=50"`
}

type SigninRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type JWTResponse struct {
	Token    string   `json:"token"`
	Type     string   `json:"type"`
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}

func Signup(svc Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/signup"
		defer handlePanic(c, route)

		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		user, err := svc.Register(c.Request.Context(), auth.RegisterInput{
			Username:  req.Username,
			Email:     req.Email,
			Password:  req.Password,
			RoleHints: req.Role,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		})
		if err != nil {
			respondWithError(c, route, "user", err)
			return
		}

		zap.L().Info("signup succeeded", zap.String("route", route), zap.String("userId", user.ID.Hex()))
		c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
	}
}

func Signin(svc Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/auth/signin"
		defer handlePanic(c, route)

		var req SigninRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		session, err := svc.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondWithError(c, route, "user", err)
			return
		}

		c.JSON(http.StatusOK, JWTResponse{
			Token:    session.Token,
			Type:     "Bearer",
			ID:       session.User.ID.Hex(),
			Username: session.User.Username,
			Email:    session.User.Email,
			Roles:    session.User.Roles.Strings(),
		})
	}
}

// Me returns the profile behind the bearer token.
func Me(svc Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/auth/me"
		defer handlePanic(c, route)

		claims, ok := middleware.ClaimsFromContext(c)
		if !ok {
			respondDomainError(c, apperrors.Unauthorized("unauthorized"))
			return
		}

		user, err := svc.Profile(c.Request.Context(), claims.UserID)
		if err != nil {
			respondWithError(c, route, "user", err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
