package postgres

import (
	"context"
	"time"

	"taskquest/internal/domain"
	"taskquest/internal/repository"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `t.task_id, t.user_id, t.task_name, t.task_description, t.exp_value,
	t.due_date, t.is_completed, t.predefined_task_id, t.created_at,
	(udt.task_id IS NOT NULL) AS is_daily`

const taskFrom = `FROM tasks t
	LEFT JOIN user_default_tasks udt
	  ON udt.task_id = t.task_id AND udt.user_id = t.user_id AND udt.is_daily = true`

func (q *queries) CreateTask(ctx context.Context, t *domain.Task) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO tasks (user_id, task_name, task_description, exp_value, due_date, predefined_task_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING task_id, is_completed, created_at`,
		t.UserID, t.Name, t.Description, t.ExpValue, t.DueDate.Time(), t.PredefinedTaskID,
	).Scan(&t.ID, &t.IsCompleted, &t.CreatedAt)
	return mapErr(err)
}

func (q *queries) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+taskColumns+` `+taskFrom+`
		 WHERE t.task_id = $1 AND t.user_id = $2`,
		taskID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, repository.ErrNotFound
	}
	return tasks[0], nil
}

func (q *queries) ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+taskColumns+` `+taskFrom+`
		 WHERE t.user_id = $1
		 ORDER BY t.due_date DESC, t.task_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (q *queries) ListTasksDue(ctx context.Context, userID int64, due domain.Date) ([]*domain.Task, error) {
	rows, err := q.db.Query(ctx,
		`SELECT `+taskColumns+` `+taskFrom+`
		 WHERE t.user_id = $1 AND t.due_date = $2
		 ORDER BY t.exp_value DESC, t.task_id`,
		userID, due.Time(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (q *queries) DeleteTask(ctx context.Context, userID, taskID int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1 AND user_id = $2`, taskID, userID)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (q *queries) MarkTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`UPDATE tasks SET is_completed = true
		 WHERE task_id = $1 AND user_id = $2 AND is_completed = false`,
		taskID, userID,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) IncompleteTotals(ctx context.Context, due domain.Date) ([]domain.PenaltyDue, error) {
	rows, err := q.db.Query(ctx,
		`SELECT user_id, SUM(exp_value)::BIGINT
		 FROM tasks
		 WHERE due_date = $1 AND is_completed = false
		 GROUP BY user_id
		 HAVING SUM(exp_value) > 0
		 ORDER BY user_id`,
		due.Time(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.PenaltyDue
	for rows.Next() {
		var p domain.PenaltyDue
		if err := rows.Scan(&p.UserID, &p.Amount); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var res []*domain.Task
	for rows.Next() {
		var (
			t   domain.Task
			due time.Time
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &t.ExpValue,
			&due, &t.IsCompleted, &t.PredefinedTaskID, &t.CreatedAt, &t.IsDaily); err != nil {
			return nil, err
		}
		t.DueDate = domain.DateOf(due)
		res = append(res, &t)
	}
	return res, rows.Err()
}
