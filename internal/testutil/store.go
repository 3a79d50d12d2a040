package testutil

import (
	"context"
	"testing"

	"taskquest/internal/domain"
	"taskquest/internal/repository/sqlite"
)

// NewTestStore creates an in-memory SQLite store with all migrations applied.
// It is closed when the test completes.
func NewTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// CreateUser inserts a user with the given starting experience.
func CreateUser(t *testing.T, s *sqlite.Store, username string, totalExp int64) *domain.User {
	t.Helper()
	ctx := context.Background()

	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	if totalExp > 0 {
		if _, err := s.AddExp(ctx, u.ID, totalExp); err != nil {
			t.Fatalf("seeding exp for %s: %v", username, err)
		}
		u.TotalExp = totalExp
	}
	return u
}

// CreateTask inserts a task for the user due on the given day.
func CreateTask(t *testing.T, s *sqlite.Store, userID int64, name string, exp int64, due domain.Date) *domain.Task {
	t.Helper()

	task := &domain.Task{UserID: userID, Name: name, ExpValue: exp, DueDate: due}
	if err := s.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("creating task %s: %v", name, err)
	}
	return task
}
