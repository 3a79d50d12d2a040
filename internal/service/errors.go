package service

import (
	"errors"
	"fmt"

	"taskquest/internal/repository"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyCompleted  = errors.New("task already completed")
	ErrValidation        = errors.New("validation failed")
	ErrConflictDuplicate = errors.New("already exists")
	ErrJobInProgress     = errors.New("job already running")
)

// notFound converts a repository miss into ErrNotFound naming the resource;
// other errors are wrapped unchanged.
func notFound(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
