package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"taskquest/internal/domain"
	"taskquest/internal/logger"
	"taskquest/internal/repository"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 6
	maxUsernameLen = 64
)

// validate backs the checks that must hold outside HTTP binding too,
// e.g. accounts created from cmd/create_test_user.
var validate = validator.New()

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	store  repository.Store
	tokens *TokenManager
	cost   int
}

func NewAuthService(store repository.Store, tokens *TokenManager) *AuthService {
	return &AuthService{store: store, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, invalid("username must be 1-%d characters", maxUsernameLen)
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return nil, invalid("invalid email")
	}
	if len(password) < minPasswordLen {
		return nil, invalid("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email taken", ErrConflictDuplicate)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login returns a signed token for valid credentials. Unknown usernames and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Generate(domain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to an identity.
func (s *AuthService) Authenticate(token string) (domain.Identity, error) {
	return s.tokens.Parse(token)
}
