package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

func testUser() *models.User {
	u := models.NewUser("alice", "a@x.io", "hash")
	u.ID = primitive.NewObjectID()
	return u
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Generate(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Minute).Generate(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Minute).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		UserID: primitive.NewObjectID().Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Minute).Parse(token)
	assert.Error(t, err)
}

func TestRoleFromHint(t *testing.T) {
	tests := map[string]models.Role{
		"admin":   models.RoleAdmin,
		" ADMIN ": models.RoleAdmin,
		"mod":     models.RoleModerator,
		"user":    models.RoleUser,
		"wizard":  models.RoleUser,
		"":        models.RoleUser,
	}
	for hint, want := range tests {
		assert.Equal(t, want, RoleFromHint(hint), "hint %q", hint)
	}

	assert.Equal(t, models.Roles{models.RoleUser}, RolesFromHints(nil))
	assert.Equal(t, models.Roles{models.RoleAdmin, models.RoleModerator}, RolesFromHints([]string{"admin", "mod", "admin"}))
}
