package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskquest/internal/domain"
	"taskquest/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	store := testutil.NewTestStore(t)
	s := NewAuthService(store, NewTokenManager("test-secret", time.Hour))
	s.cost = bcrypt.MinCost
	return s
}

func TestSignupAndLogin(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	user, err := auth.Signup(ctx, "alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.ID == 0 || user.TotalExp != 0 {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.PasswordHash == "hunter22" {
		t.Error("password stored in clear text")
	}

	token, logged, err := auth.Login(ctx, "alice", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login user = %d, want %d", logged.ID, user.ID)
	}

	id, err := auth.Authenticate(token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id != (domain.Identity{UserID: user.ID, Username: "alice"}) {
		t.Errorf("identity = %+v", id)
	}
}

func TestSignup_Errors(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()

	if _, err := auth.Signup(ctx, "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	tests := []struct {
		name                      string
		username, email, password string
		want                      error
	}{
		{"duplicate username", "alice", "other@example.com", "hunter22", ErrConflictDuplicate},
		{"duplicate email", "bob", "alice@example.com", "hunter22", ErrConflictDuplicate},
		{"blank username", "  ", "c@example.com", "hunter22", ErrValidation},
		{"bad email", "carol", "not-an-email", "hunter22", ErrValidation},
		{"email without domain", "carol", "carol@", "hunter22", ErrValidation},
		{"short password", "dave", "d@example.com", "123", ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Signup(ctx, tt.username, tt.email, tt.password)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	auth := newTestAuth(t)
	ctx := context.Background()
	if _, err := auth.Signup(ctx, "alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, _, err := auth.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := auth.Login(ctx, "nobody", "hunter22"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("unknown user err = %v", err)
	}
}
