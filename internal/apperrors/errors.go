// Package apperrors is the error taxonomy shared by the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeInternal           = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Body is the JSON error envelope.
func (e *DomainError) Body() map[string]any {
	body := map[string]any{
		"code":    e.Code,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		body["details"] = e.Details
	}
	return map[string]any{"error": body}
}

func New(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func Validation(message string, details map[string]any) *DomainError {
	return New(CodeValidation, message, http.StatusBadRequest, details)
}

func DuplicateUsername() *DomainError {
	return New(CodeDuplicateUsername, "Error: Username is already taken!", http.StatusBadRequest, nil)
}

func DuplicateEmail() *DomainError {
	return New(CodeDuplicateEmail, "Error: Email is already in use!", http.StatusBadRequest, nil)
}

// InvalidCredentials never says which of username or password was wrong.
func InvalidCredentials() *DomainError {
	return New(CodeInvalidCredentials, "invalid username or password", http.StatusUnauthorized, nil)
}

func NotFound(resource string) *DomainError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func Unauthorized(message string) *DomainError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func Forbidden(message string) *DomainError {
	return New(CodeForbidden, message, http.StatusForbidden, nil)
}

func Internal(err error) *DomainError {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// From returns err as a DomainError, treating anything unrecognised as internal.
func From(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return Internal(err)
}
