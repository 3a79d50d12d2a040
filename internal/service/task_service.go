package service

import (
	"context"
	"fmt"
	"strings"

	"taskquest/internal/domain"
	"taskquest/internal/logger"
	"taskquest/internal/repository"
)

// TaskService owns task creation, listing, deletion and the daily marker.
type TaskService struct {
	store repository.Store
	clock Clock
}

func NewTaskService(store repository.Store, clock Clock) *TaskService {
	return &TaskService{store: store, clock: clock}
}

// CreateTaskInput carries either a catalog reference or a custom name.
type CreateTaskInput struct {
	PredefinedTaskID *int64
	Name             string
	Description      string
	// ExpValue of zero means "use the catalog default" for predefined tasks.
	ExpValue int64
	IsDaily  bool
	// DueDate is YYYY-MM-DD; empty means today.
	DueDate string
}

func (s *TaskService) CreateTask(ctx context.Context, id domain.Identity, in CreateTaskInput) (*domain.Task, error) {
	if in.ExpValue < 0 {
		return nil, invalid("exp_value must not be negative")
	}

	due := s.clock.Today()
	if in.DueDate != "" {
		d, err := domain.ParseDate(in.DueDate)
		if err != nil {
			return nil, invalid("due_date must be YYYY-MM-DD")
		}
		due = d
	}

	task := &domain.Task{
		UserID:      id.UserID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		ExpValue:    in.ExpValue,
		DueDate:     due,
	}
	if in.PredefinedTaskID == nil && task.Name == "" {
		return nil, invalid("task_name is required")
	}

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		if in.PredefinedTaskID != nil {
			p, err := q.GetPredefinedTask(ctx, *in.PredefinedTaskID)
			if err != nil {
				return notFound(err, "predefined task")
			}
			task.Name = p.Name
			task.PredefinedTaskID = &p.ID
			if task.ExpValue == 0 {
				task.ExpValue = p.DefaultExpValue
			}
		}

		if err := q.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		if in.IsDaily {
			if err := q.SetDaily(ctx, id.UserID, task.ID); err != nil {
				return fmt.Errorf("set daily: %w", err)
			}
			task.IsDaily = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("task created", "user_id", id.UserID, "task_id", task.ID, "daily", task.IsDaily)
	return task, nil
}

// ListTasks returns every task of the caller, or only those due on date
// (YYYY-MM-DD) ordered by exp value when date is non-empty.
func (s *TaskService) ListTasks(ctx context.Context, id domain.Identity, date string) ([]*domain.Task, error) {
	if date == "" {
		tasks, err := s.store.ListTasks(ctx, id.UserID)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		return tasks, nil
	}

	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, invalid("date must be YYYY-MM-DD")
	}
	return s.listDue(ctx, id.UserID, d)
}

// ListToday returns the caller's tasks due today, highest exp first.
func (s *TaskService) ListToday(ctx context.Context, id domain.Identity) ([]*domain.Task, error) {
	return s.listDue(ctx, id.UserID, s.clock.Today())
}

func (s *TaskService) listDue(ctx context.Context, userID int64, d domain.Date) ([]*domain.Task, error) {
	tasks, err := s.store.ListTasksDue(ctx, userID, d)
	if err != nil {
		return nil, fmt.Errorf("list tasks due %s: %w", d, err)
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id domain.Identity, taskID int64) (*domain.Task, error) {
	t, err := s.store.GetTask(ctx, id.UserID, taskID)
	if err != nil {
		return nil, notFound(err, "task")
	}
	return t, nil
}

// DeleteTask removes the daily marker before the task itself.
func (s *TaskService) DeleteTask(ctx context.Context, id domain.Identity, taskID int64) error {
	return s.store.WithTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetTask(ctx, id.UserID, taskID); err != nil {
			return notFound(err, "task")
		}
		if err := q.UnsetDaily(ctx, id.UserID, taskID); err != nil {
			return fmt.Errorf("unset daily: %w", err)
		}
		if err := q.DeleteTask(ctx, id.UserID, taskID); err != nil {
			return notFound(err, "task")
		}
		return nil
	})
}

func (s *TaskService) ToggleDaily(ctx context.Context, id domain.Identity, taskID int64, isDaily bool) error {
	return s.store.WithTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetTask(ctx, id.UserID, taskID); err != nil {
			return notFound(err, "task")
		}
		if isDaily {
			return q.SetDaily(ctx, id.UserID, taskID)
		}
		return q.UnsetDaily(ctx, id.UserID, taskID)
	})
}

// SubmitTaskRequest queues a suggestion for a new catalog entry.
func (s *TaskService) SubmitTaskRequest(ctx context.Context, id domain.Identity, name string, suggestedExp int64) (*domain.TaskRequest, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("task_name is required")
	}
	if suggestedExp < 0 {
		return nil, invalid("suggested_exp_value must not be negative")
	}

	req := &domain.TaskRequest{
		UserID:            id.UserID,
		Name:              name,
		SuggestedExpValue: suggestedExp,
		Status:            domain.TaskRequestPending,
	}
	if err := s.store.CreateTaskRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create task request: %w", err)
	}
	return req, nil
}
