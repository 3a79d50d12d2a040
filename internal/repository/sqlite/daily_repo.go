package sqlite

import (
	"context"
	"database/sql"

	"taskquest/internal/domain"

	"github.com/jmoiron/sqlx"
)

func (q *queries) SetDaily(ctx context.Context, userID, taskID int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO user_default_tasks (user_id, task_id, is_daily)
		 VALUES (?, ?, 1)
		 ON CONFLICT (user_id, task_id) DO UPDATE SET is_daily = 1`,
		userID, taskID,
	)
	return mapErr(err)
}

func (q *queries) UnsetDaily(ctx context.Context, userID, taskID int64) error {
	_, err := q.db.ExecContext(ctx,
		`DELETE FROM user_default_tasks WHERE user_id = ? AND task_id = ?`, userID, taskID)
	return err
}

func (q *queries) ListDailyTemplates(ctx context.Context) ([]*domain.DailyTemplate, error) {
	var rows []struct {
		UserID           int64         `db:"user_id"`
		TaskID           int64         `db:"task_id"`
		Name             string        `db:"task_name"`
		Description      string        `db:"task_description"`
		ExpValue         int64         `db:"exp_value"`
		DueDate          string        `db:"due_date"`
		PredefinedTaskID sql.NullInt64 `db:"predefined_task_id"`
	}
	err := sqlx.SelectContext(ctx, q.db, &rows,
		`SELECT udt.user_id, t.task_id, t.task_name, t.task_description, t.exp_value,
				t.due_date, t.predefined_task_id
		 FROM user_default_tasks udt
		 JOIN tasks t ON t.task_id = udt.task_id AND t.user_id = udt.user_id
		 WHERE udt.is_daily = 1
		 ORDER BY udt.user_id, t.task_id`,
	)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.DailyTemplate, 0, len(rows))
	for _, r := range rows {
		due, err := domain.ParseDate(r.DueDate)
		if err != nil {
			return nil, err
		}
		res = append(res, &domain.DailyTemplate{
			UserID:           r.UserID,
			TaskID:           r.TaskID,
			Name:             r.Name,
			Description:      r.Description,
			ExpValue:         r.ExpValue,
			DueDate:          due,
			PredefinedTaskID: nullableID(r.PredefinedTaskID),
		})
	}
	return res, nil
}

func (q *queries) AddDailyGain(ctx context.Context, userID int64, day domain.Date, amount int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO daily_records (user_id, date, exp_gained)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, date) DO UPDATE SET exp_gained = exp_gained + excluded.exp_gained`,
		userID, day.String(), amount,
	)
	return mapErr(err)
}

func (q *queries) AddDailyLoss(ctx context.Context, userID int64, day domain.Date, amount int64) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO daily_records (user_id, date, exp_lost)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id, date) DO UPDATE SET exp_lost = exp_lost + excluded.exp_lost`,
		userID, day.String(), amount,
	)
	return mapErr(err)
}

type recordRow struct {
	UserID    int64  `db:"user_id"`
	Date      string `db:"date"`
	ExpGained int64  `db:"exp_gained"`
	ExpLost   int64  `db:"exp_lost"`
}

func (r recordRow) toDomain() (*domain.DailyRecord, error) {
	day, err := domain.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &domain.DailyRecord{UserID: r.UserID, Date: day, ExpGained: r.ExpGained, ExpLost: r.ExpLost}, nil
}

func (q *queries) GetDailyRecord(ctx context.Context, userID int64, day domain.Date) (*domain.DailyRecord, error) {
	var row recordRow
	err := sqlx.GetContext(ctx, q.db, &row,
		`SELECT user_id, date, exp_gained, exp_lost FROM daily_records WHERE user_id = ? AND date = ?`,
		userID, day.String(),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return row.toDomain()
}

func (q *queries) ListDailyRecords(ctx context.Context, userID int64, limit int) ([]*domain.DailyRecord, error) {
	if limit <= 0 {
		limit = 30
	}

	var rows []recordRow
	err := sqlx.SelectContext(ctx, q.db, &rows,
		`SELECT user_id, date, exp_gained, exp_lost
		 FROM daily_records
		 WHERE user_id = ?
		 ORDER BY date DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}

	res := make([]*domain.DailyRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, nil
}

func (q *queries) SumDailyRecords(ctx context.Context, userID int64) (gained, lost int64, err error) {
	var row struct {
		Gained int64 `db:"gained"`
		Lost   int64 `db:"lost"`
	}
	err = sqlx.GetContext(ctx, q.db, &row,
		`SELECT COALESCE(SUM(exp_gained), 0) AS gained, COALESCE(SUM(exp_lost), 0) AS lost
		 FROM daily_records WHERE user_id = ?`,
		userID,
	)
	return row.Gained, row.Lost, err
}

func (q *queries) ClaimJobRun(ctx context.Context, job string, userID int64, day domain.Date) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO job_runs (job, user_id, run_date) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		job, userID, day.String(),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
