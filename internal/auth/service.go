// Package auth registers accounts, verifies credentials and issues session
// tokens.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/repository"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AccountStore interface {
	FindActiveByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *models.User) error
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	RoleHints []string
	FirstName string
	LastName  string
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type Service struct {
	accounts   AccountStore
	tokens     *TokenManager
	bcryptCost int

	dummyOnce sync.Once
	dummyHash string
}

func NewService(accounts AccountStore, tokens *TokenManager, bcryptCost int) *Service {
	return &Service{accounts: accounts, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates an account. Username is checked before email, so a taken
// username wins regardless of the email supplied.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if len(in.Password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	taken, err := s.accounts.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrDuplicateUsername
	}

	taken, err = s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrDuplicateEmail
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(username, email, hash)
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.Roles = RolesFromHints(in.RoleHints)

	if err := s.accounts.Create(ctx, user); err != nil {
		return nil, err
	}

	zap.L().Info("user registered",
		zap.String("userId", user.ID.Hex()),
		zap.Strings("roles", user.Roles.Strings()),
	)
	return user, nil
}

// Authenticate verifies credentials. Unknown, inactive and wrong-password
// cases are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.accounts.FindActiveByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Burn the same bcrypt work a real account would cost.
			ComparePassword(s.fallbackHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !ComparePassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// fallbackHash is a throwaway hash at the configured cost, compared against
// when no account matches.
func (s *Service) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("storefront-no-such-account", s.bcryptCost)
		if err != nil {
			zap.L().Warn("fallback hash failed", zap.Error(err))
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.accounts.FindByID(ctx, userID)
}
