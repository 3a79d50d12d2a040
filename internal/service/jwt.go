package service

import (
	"errors"
	"fmt"
	"time"

	"taskquest/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Generate(id domain.Identity) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"user_id":  id.UserID,
		"username": id.Username,
		"exp":      now.Add(m.ttl).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates the signature and time claims and returns the caller's
// identity. All failures wrap ErrUnauthorized.
func (m *TokenManager) Parse(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: invalid claims", ErrUnauthorized)
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: user_id not found", ErrUnauthorized)
	}
	username, _ := claims["username"].(string)

	return domain.Identity{UserID: int64(userID), Username: username}, nil
}
