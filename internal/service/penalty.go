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

// PenaltyEngine deducts the value of yesterday's unfinished tasks, once per
// user and day.
type PenaltyEngine struct {
	store   repository.Store
	locker  lock.Locker
	clock   Clock
	LockTTL time.Duration
}

func NewPenaltyEngine(store repository.Store, locker lock.Locker, clock Clock) *PenaltyEngine {
	return &PenaltyEngine{store: store, locker: locker, clock: clock, LockTTL: defaultJobLockTTL}
}

func (e *PenaltyEngine) Run(ctx context.Context) (*JobResult, error) {
	return e.RunFor(ctx, e.clock.Yesterday())
}

// RunFor penalizes tasks left incomplete on day.
func (e *PenaltyEngine) RunFor(ctx context.Context, day domain.Date) (*JobResult, error) {
	res := &JobResult{Job: domain.JobPenalty, Date: day}
	log := logger.With("job", domain.JobPenalty, "date", day.String())

	err := withJobLock(ctx, e.locker, e.LockTTL, domain.JobPenalty, day, func() error {
		dues, err := e.store.IncompleteTotals(ctx, day)
		if err != nil {
			return fmt.Errorf("incomplete totals: %w", err)
		}
		res.Users = len(dues)

		for _, due := range dues {
			if err := ctx.Err(); err != nil {
				return err
			}
			if due.Amount <= 0 {
				continue
			}

			applied, claimed, err := e.penalizeUser(ctx, due, day)
			if err != nil {
				res.Failed++
				metrics.JobUserFailures.WithLabelValues(domain.JobPenalty).Inc()
				log.Error("penalty failed", "user_id", due.UserID, "amount", due.Amount, "error", err)
				continue
			}
			if !claimed {
				res.Skipped++
				continue
			}
			res.Processed++
			res.ExpDeducted += applied
			metrics.ExpPenalized.Add(float64(applied))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("penalties applied",
		"users", res.Users, "deducted", res.ExpDeducted,
		"skipped", res.Skipped, "failed", res.Failed,
	)
	return res, nil
}

func (e *PenaltyEngine) penalizeUser(ctx context.Context, due domain.PenaltyDue, day domain.Date) (applied int64, claimed bool, err error) {
	err = e.store.WithTx(ctx, func(q repository.Querier) error {
		ok, err := q.ClaimJobRun(ctx, domain.JobPenalty, due.UserID, day)
		if err != nil {
			return fmt.Errorf("claim job run: %w", err)
		}
		if !ok {
			return nil
		}
		claimed = true

		applied, err = applyPenalty(ctx, q, due.UserID, due.Amount, day)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return applied, claimed, nil
}
