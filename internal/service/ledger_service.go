package service

import (
	"context"
	"errors"
	"fmt"

	"taskquest/internal/domain"
	"taskquest/internal/logger"
	"taskquest/internal/metrics"
	"taskquest/internal/repository"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 366
)

// LedgerService moves experience points and keeps the per-day records in
// step with the running total.
type LedgerService struct {
	store repository.Store
	clock Clock
}

func NewLedgerService(store repository.Store, clock Clock) *LedgerService {
	return &LedgerService{store: store, clock: clock}
}

// CompleteTask marks the task done and credits its exp value to the user and
// to today's record. It returns the exp gained.
func (s *LedgerService) CompleteTask(ctx context.Context, id domain.Identity, taskID int64) (int64, error) {
	today := s.clock.Today()
	var gained int64

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		task, err := q.GetTask(ctx, id.UserID, taskID)
		if err != nil {
			return notFound(err, "task")
		}
		if task.IsCompleted {
			return ErrAlreadyCompleted
		}

		changed, err := q.MarkTaskCompleted(ctx, id.UserID, taskID)
		if err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}
		if !changed {
			// lost a race with a concurrent completion
			return ErrAlreadyCompleted
		}

		if _, err := q.AddExp(ctx, id.UserID, task.ExpValue); err != nil {
			return fmt.Errorf("add exp: %w", err)
		}
		if err := q.AddDailyGain(ctx, id.UserID, today, task.ExpValue); err != nil {
			return fmt.Errorf("record gain: %w", err)
		}
		gained = task.ExpValue
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.TasksCompleted.Inc()
	metrics.ExpAwarded.Add(float64(gained))
	logger.Info("task completed", "user_id", id.UserID, "task_id", taskID, "exp_gained", gained)
	return gained, nil
}

// ApplyPenalty deducts amount from the user's total, never below zero, and
// adds the amount actually removed to the record for day. Nothing is
// recorded when nothing was removed.
func (s *LedgerService) ApplyPenalty(ctx context.Context, userID, amount int64, day domain.Date) (int64, error) {
	if amount < 0 {
		return 0, invalid("penalty amount must not be negative")
	}

	var applied int64
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		var err error
		applied, err = applyPenalty(ctx, q, userID, amount, day)
		return err
	})
	if err != nil {
		return 0, err
	}
	metrics.ExpPenalized.Add(float64(applied))
	return applied, nil
}

func applyPenalty(ctx context.Context, q repository.Querier, userID, amount int64, day domain.Date) (int64, error) {
	applied, err := q.DeductExp(ctx, userID, amount)
	if err != nil {
		return 0, notFound(err, "user")
	}
	if applied == 0 {
		return 0, nil
	}
	if err := q.AddDailyLoss(ctx, userID, day, applied); err != nil {
		return 0, fmt.Errorf("record loss: %w", err)
	}
	return applied, nil
}

// History returns the caller's most recent daily records, newest first.
func (s *LedgerService) History(ctx context.Context, id domain.Identity, limit int) ([]*domain.DailyRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.store.ListDailyRecords(ctx, id.UserID, limit)
	if err != nil {
		return nil, fmt.Errorf("list daily records: %w", err)
	}
	return records, nil
}

// Reconcile compares total_exp with the sum of daily records. A non-zero
// drift means exp was changed outside the ledger.
func (s *LedgerService) Reconcile(ctx context.Context, id domain.Identity) (*domain.LedgerBalance, error) {
	var bal domain.LedgerBalance

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		user, err := q.GetUserByID(ctx, id.UserID)
		if err != nil {
			return notFound(err, "user")
		}
		gained, lost, err := q.SumDailyRecords(ctx, id.UserID)
		if err != nil {
			return fmt.Errorf("sum daily records: %w", err)
		}
		bal = domain.LedgerBalance{
			TotalExp:  user.TotalExp,
			SumGained: gained,
			SumLost:   lost,
			Drift:     user.TotalExp - (gained - lost),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if bal.Drift != 0 {
		logger.Warn("ledger drift detected", "user_id", id.UserID, "drift", bal.Drift)
	}
	return &bal, nil
}

// Profile returns the caller's account row.
func (s *LedgerService) Profile(ctx context.Context, id domain.Identity) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrUnauthorized)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
