package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"storefront/internal/apperrors"
	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/repository"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		zap.L().Error("panic recovered",
			zap.String("route", route),
			zap.Any("panic", r),
			zap.Stack("stack"),
		)
		respondDomainError(c, apperrors.Internal(fmt.Errorf("panic: %v", r)))
	}
}

// domainError translates store and service failures into the API taxonomy.
func domainError(err error, resource string) *apperrors.DomainError {
	var fieldErr *repository.FieldError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repository.ErrDuplicateUsername):
		return apperrors.DuplicateUsername()
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.DuplicateEmail()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.InvalidCredentials()
	case errors.Is(err, auth.ErrPasswordTooLong):
		return apperrors.Validation("validation failed", map[string]any{"password": err.Error()})
	case errors.As(err, &fieldErr):
		return apperrors.Validation("validation failed", map[string]any{fieldErr.Field: fieldErr.Error()})
	case errors.Is(err, repository.ErrInvalidArgument):
		return apperrors.Validation(err.Error(), nil)
	default:
		return apperrors.From(err)
	}
}

func respondWithError(c *gin.Context, route, resource string, err error) {
	domainErr := domainError(err, resource)
	fields := []zap.Field{
		zap.String("route", route),
		zap.Int("status", domainErr.HTTPStatus),
		zap.String("code", domainErr.Code),
		zap.String("requestId", middleware.RequestIDFromContext(c)),
		zap.Error(err),
	}
	if domainErr.HTTPStatus >= http.StatusInternalServerError {
		zap.L().Error("request failed", fields...)
	} else {
		zap.L().Debug("request rejected", fields...)
	}
	respondDomainError(c, domainErr)
}

// respondDomainError renders err. Duplicate account errors keep the plain
// {"message"} shape clients already parse; missing resources have no body.
func respondDomainError(c *gin.Context, err *apperrors.DomainError) {
	switch err.Code {
	case apperrors.CodeDuplicateUsername, apperrors.CodeDuplicateEmail:
		c.AbortWithStatusJSON(err.HTTPStatus, gin.H{"message": err.Message})
	case apperrors.CodeNotFound:
		c.AbortWithStatus(err.HTTPStatus)
	default:
		c.AbortWithStatusJSON(err.HTTPStatus, err.Body())
	}
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]any, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details[field] = fmt.Sprintf("%s is required", field)
			case "email":
				details[field] = fmt.Sprintf("%s must be a valid email", field)
			case "max":
				details[field] = fmt.Sprintf("%s must be at most %s characters", field, fieldError.Param())
			case "min":
				details[field] = fmt.Sprintf("%s must be at least %s", field, fieldError.Param())
			default:
				details[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
		respondDomainError(c, apperrors.Validation("validation failed", details))
		return
	}

	respondDomainError(c, apperrors.Validation("invalid body", map[string]any{"body": err.Error()}))
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
