// Package repository holds the MongoDB-backed stores for accounts, the
// product catalog and orders.
package repository

import (
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/database"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// invalidArgument wraps ErrInvalidArgument with the field that was rejected.
func invalidArgument(field, format string, args ...any) error {
	return &FieldError{Field: field, err: errors.Wrapf(ErrInvalidArgument, format, args...)}
}

// FieldError carries the offending request field so callers can report it.
type FieldError struct {
	Field string
	err   error
}

func (e *FieldError) Error() string { return e.err.Error() }
func (e *FieldError) Unwrap() error { return e.err }

// duplicateKey maps a unique index violation on users to its sentinel.
func duplicateKey(err error) (error, bool) {
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, database.UsernameUniqueIndex):
		return errors.Wrap(ErrDuplicateUsername, "insert user"), true
	case strings.Contains(msg, database.EmailUniqueIndex):
		return errors.Wrap(ErrDuplicateEmail, "insert user"), true
	default:
		return nil, false
	}
}
