package repository

import (
	"context"
	"errors"

	"taskquest/internal/domain"
)

var (
	// ErrNotFound is returned when a row is absent or not owned by the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-constraint violations.
	ErrDuplicate = errors.New("duplicate record")
)

// Querier is the set of storage operations. It is satisfied both by a
// pool-backed store and by the handle passed into WithTx.
type Querier interface {
	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// AddExp atomically adds amount to total_exp and returns the new total.
	AddExp(ctx context.Context, userID, amount int64) (int64, error)
	// DeductExp atomically lowers total_exp by amount clamped at zero and
	// returns the amount actually removed.
	DeductExp(ctx context.Context, userID, amount int64) (int64, error)

	// Tasks
	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error)
	ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error)
	ListTasksDue(ctx context.Context, userID int64, due domain.Date) ([]*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
	// MarkTaskCompleted flips is_completed only if it was false; the bool
	// reports whether a row changed.
	MarkTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error)
	IncompleteTotals(ctx context.Context, due domain.Date) ([]domain.PenaltyDue, error)

	// Daily templates
	SetDaily(ctx context.Context, userID, taskID int64) error
	UnsetDaily(ctx context.Context, userID, taskID int64) error
	ListDailyTemplates(ctx context.Context) ([]*domain.DailyTemplate, error)

	// Daily records
	AddDailyGain(ctx context.Context, userID int64, day domain.Date, amount int64) error
	AddDailyLoss(ctx context.Context, userID int64, day domain.Date, amount int64) error
	GetDailyRecord(ctx context.Context, userID int64, day domain.Date) (*domain.DailyRecord, error)
	ListDailyRecords(ctx context.Context, userID int64, limit int) ([]*domain.DailyRecord, error)
	SumDailyRecords(ctx context.Context, userID int64) (gained, lost int64, err error)

	// Job idempotency
	// ClaimJobRun inserts the (job, user, day) key and reports false when it
	// was already present.
	ClaimJobRun(ctx context.Context, job string, userID int64, day domain.Date) (bool, error)

	// Catalog
	GetPredefinedTask(ctx context.Context, id int64) (*domain.PredefinedTask, error)
	ListPredefinedTasks(ctx context.Context) ([]*domain.PredefinedTask, error)
	// InsertPredefinedTask ignores entries whose name already exists and
	// reports whether a row was added.
	InsertPredefinedTask(ctx context.Context, p *domain.PredefinedTask) (bool, error)

	// Settings
	GetSettings(ctx context.Context, userID int64) (*domain.Settings, error)
	UpsertSettings(ctx context.Context, s *domain.Settings) error

	// Task requests
	CreateTaskRequest(ctx context.Context, r *domain.TaskRequest) error
}

// Store is a Querier that can also scope work to a single transaction.
type Store interface {
	Querier
	// WithTx runs fn inside one transaction, committing when fn returns nil
	// and rolling back otherwise.
	WithTx(ctx context.Context, fn func(q Querier) error) error
	Ping(ctx context.Context) error
	Close()
}
