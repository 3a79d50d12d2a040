package postgres

import (
	"context"
	"time"

	"taskquest/internal/domain"
)

func (q *queries) SetDaily(ctx context.Context, userID, taskID int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO user_default_tasks (user_id, task_id, is_daily)
		 VALUES ($1, $2, true)
		 ON CONFLICT (user_id, task_id) DO UPDATE SET is_daily = true`,
		userID, taskID,
	)
	return mapErr(err)
}

func (q *queries) UnsetDaily(ctx context.Context, userID, taskID int64) error {
	_, err := q.db.Exec(ctx,
		`DELETE FROM user_default_tasks WHERE user_id = $1 AND task_id = $2`,
		userID, taskID,
	)
	return err
}

func (q *queries) ListDailyTemplates(ctx context.Context) ([]*domain.DailyTemplate, error) {
	rows, err := q.db.Query(ctx,
		`SELECT udt.user_id, t.task_id, t.task_name, t.task_description, t.exp_value,
				t.due_date, t.predefined_task_id
		 FROM user_default_tasks udt
		 JOIN tasks t ON t.task_id = udt.task_id AND t.user_id = udt.user_id
		 WHERE udt.is_daily = true
		 ORDER BY udt.user_id, t.task_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.DailyTemplate
	for rows.Next() {
		var (
			dt  domain.DailyTemplate
			due time.Time
		)
		if err := rows.Scan(&dt.UserID, &dt.TaskID, &dt.Name, &dt.Description, &dt.ExpValue,
			&due, &dt.PredefinedTaskID); err != nil {
			return nil, err
		}
		dt.DueDate = domain.DateOf(due)
		res = append(res, &dt)
	}
	return res, rows.Err()
}

func (q *queries) AddDailyGain(ctx context.Context, userID int64, day domain.Date, amount int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO daily_records (user_id, date, exp_gained)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET exp_gained = daily_records.exp_gained + EXCLUDED.exp_gained`,
		userID, day.Time(), amount,
	)
	return mapErr(err)
}

func (q *queries) AddDailyLoss(ctx context.Context, userID int64, day domain.Date, amount int64) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO daily_records (user_id, date, exp_lost)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, date)
		 DO UPDATE SET exp_lost = daily_records.exp_lost + EXCLUDED.exp_lost`,
		userID, day.Time(), amount,
	)
	return mapErr(err)
}

func (q *queries) GetDailyRecord(ctx context.Context, userID int64, day domain.Date) (*domain.DailyRecord, error) {
	r := domain.DailyRecord{UserID: userID, Date: day}
	err := q.db.QueryRow(ctx,
		`SELECT exp_gained, exp_lost FROM daily_records WHERE user_id = $1 AND date = $2`,
		userID, day.Time(),
	).Scan(&r.ExpGained, &r.ExpLost)
	if err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (q *queries) ListDailyRecords(ctx context.Context, userID int64, limit int) ([]*domain.DailyRecord, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := q.db.Query(ctx,
		`SELECT user_id, date, exp_gained, exp_lost
		 FROM daily_records
		 WHERE user_id = $1
		 ORDER BY date DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.DailyRecord
	for rows.Next() {
		var (
			r   domain.DailyRecord
			day time.Time
		)
		if err := rows.Scan(&r.UserID, &day, &r.ExpGained, &r.ExpLost); err != nil {
			return nil, err
		}
		r.Date = domain.DateOf(day)
		res = append(res, &r)
	}
	return res, rows.Err()
}

func (q *queries) SumDailyRecords(ctx context.Context, userID int64) (gained, lost int64, err error) {
	err = q.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(exp_gained), 0)::BIGINT, COALESCE(SUM(exp_lost), 0)::BIGINT
		 FROM daily_records WHERE user_id = $1`,
		userID,
	).Scan(&gained, &lost)
	return gained, lost, err
}

func (q *queries) ClaimJobRun(ctx context.Context, job string, userID int64, day domain.Date) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`INSERT INTO job_runs (job, user_id, run_date)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		job, userID, day.Time(),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
