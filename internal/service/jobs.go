package service

import (
	"context"
	"errors"
	"time"

	"taskquest/internal/domain"
	"taskquest/internal/lock"
	"taskquest/internal/metrics"
)

const defaultJobLockTTL = 10 * time.Minute

// JobResult summarizes one batch run.
type JobResult struct {
	Job   string      `json:"job"`
	Date  domain.Date `json:"date"`
	Users int         `json:"users"`
	// Processed counts users whose idempotency key was claimed by this run.
	Processed int `json:"processed"`
	// Skipped counts users already handled for Date by an earlier run.
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`

	TasksCreated int   `json:"tasks_created,omitempty"`
	ExpDeducted  int64 `json:"exp_deducted,omitempty"`
}

// withJobLock runs fn while holding the (job, day) lock and records the
// outcome in the job counters.
func withJobLock(ctx context.Context, locker lock.Locker, ttl time.Duration, job string, day domain.Date, fn func() error) error {
	if ttl <= 0 {
		ttl = defaultJobLockTTL
	}

	release, ok, err := locker.Acquire(ctx, job+":"+day.String(), ttl)
	if err != nil {
		metrics.JobRuns.WithLabelValues(job, "error").Inc()
		return err
	}
	if !ok {
		metrics.JobRuns.WithLabelValues(job, "locked").Inc()
		return ErrJobInProgress
	}
	defer release()

	if err := fn(); err != nil {
		metrics.JobRuns.WithLabelValues(job, "error").Inc()
		return err
	}
	metrics.JobRuns.WithLabelValues(job, "ok").Inc()
	return nil
}

// DailyJobs runs the day-boundary batch: recurrence first, then penalties.
type DailyJobs struct {
	Recurrence *RecurrenceEngine
	Penalty    *PenaltyEngine
}

func (d *DailyJobs) Run(ctx context.Context) ([]*JobResult, error) {
	var results []*JobResult
	var errs []error

	if res, err := d.Recurrence.Run(ctx); err != nil {
		errs = append(errs, err)
	} else {
		results = append(results, res)
	}
	if res, err := d.Penalty.Run(ctx); err != nil {
		errs = append(errs, err)
	} else {
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}
