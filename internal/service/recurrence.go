package service

import (
	"context"
	"fmt"
	"time"

	"taskquest/internal/domain"
	"taskquest/internal/lock"
	"taskquest/internal/logger"
	"taskquest/internal/metrics"
	"taskquest/internal/repository"
)

// RecurrenceEngine turns every daily template into a fresh task due today.
// The template marker moves from the source task to the new instance.
type RecurrenceEngine struct {
	store   repository.Store
	locker  lock.Locker
	clock   Clock
	LockTTL time.Duration
}

func NewRecurrenceEngine(store repository.Store, locker lock.Locker, clock Clock) *RecurrenceEngine {
	return &RecurrenceEngine{store: store, locker: locker, clock: clock, LockTTL: defaultJobLockTTL}
}

func (e *RecurrenceEngine) Run(ctx context.Context) (*JobResult, error) {
	today := e.clock.Today()
	res := &JobResult{Job: domain.JobRecurrence, Date: today}
	log := logger.With("job", domain.JobRecurrence, "date", today.String())

	err := withJobLock(ctx, e.locker, e.LockTTL, domain.JobRecurrence, today, func() error {
		templates, err := e.store.ListDailyTemplates(ctx)
		if err != nil {
			return fmt.Errorf("list daily templates: %w", err)
		}

		users, byUser := groupTemplates(templates)
		res.Users = len(users)

		for _, userID := range users {
			if err := ctx.Err(); err != nil {
				return err
			}

			created, claimed, err := e.refreshUser(ctx, userID, byUser[userID], today)
			if err != nil {
				res.Failed++
				metrics.JobUserFailures.WithLabelValues(domain.JobRecurrence).Inc()
				log.Error("daily refresh failed", "user_id", userID, "error", err)
				continue
			}
			if !claimed {
				res.Skipped++
				continue
			}
			res.Processed++
			res.TasksCreated += created
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DailyTasksCreated.Add(float64(res.TasksCreated))
	log.Info("daily refresh finished",
		"users", res.Users, "created", res.TasksCreated,
		"skipped", res.Skipped, "failed", res.Failed,
	)
	return res, nil
}

func (e *RecurrenceEngine) refreshUser(ctx context.Context, userID int64, templates []*domain.DailyTemplate, today domain.Date) (created int, claimed bool, err error) {
	err = e.store.WithTx(ctx, func(q repository.Querier) error {
		ok, err := q.ClaimJobRun(ctx, domain.JobRecurrence, userID, today)
		if err != nil {
			return fmt.Errorf("claim job run: %w", err)
		}
		if !ok {
			return nil
		}
		claimed = true

		for _, tmpl := range templates {
			next := &domain.Task{
				UserID:           userID,
				Name:             tmpl.Name,
				Description:      tmpl.Description,
				ExpValue:         tmpl.ExpValue,
				DueDate:          today,
				PredefinedTaskID: tmpl.PredefinedTaskID,
			}
			if err := q.CreateTask(ctx, next); err != nil {
				return fmt.Errorf("create instance of task %d: %w", tmpl.TaskID, err)
			}
			if err := q.SetDaily(ctx, userID, next.ID); err != nil {
				return fmt.Errorf("mark task %d daily: %w", next.ID, err)
			}
			if err := q.UnsetDaily(ctx, userID, tmpl.TaskID); err != nil {
				return fmt.Errorf("unmark task %d: %w", tmpl.TaskID, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return created, claimed, nil
}

// groupTemplates buckets templates per user, keeping first-seen user order.
func groupTemplates(templates []*domain.DailyTemplate) ([]int64, map[int64][]*domain.DailyTemplate) {
	var order []int64
	byUser := make(map[int64][]*domain.DailyTemplate)
	for _, t := range templates {
		if _, seen := byUser[t.UserID]; !seen {
			order = append(order, t.UserID)
		}
		byUser[t.UserID] = append(byUser[t.UserID], t)
	}
	return order, byUser
}
