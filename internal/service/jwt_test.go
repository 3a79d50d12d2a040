package service

import (
	"errors"
	"testing"
	"time"

	"taskquest/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	want := domain.Identity{UserID: 42, Username: "alice"}

	token, err := m.Generate(want)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got != want {
		t.Errorf("identity = %+v, want %+v", got, want)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Generate(domain.Identity{UserID: 1, Username: "a"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	other := NewTokenManager("another-secret", time.Hour)
	if _, err := other.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong secret err = %v", err)
	}

	expired := NewTokenManager("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := expired.Parse(token); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expired err = %v", err)
	}

	if _, err := m.Parse("garbage"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("garbage err = %v", err)
	}
}
