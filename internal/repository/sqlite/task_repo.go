package sqlite

import (
	"context"
	"database/sql"

	"taskquest/internal/domain"
	"taskquest/internal/repository"

	"github.com/jmoiron/sqlx"
)

const taskSelect = `SELECT t.task_id, t.user_id, t.task_name, t.task_description, t.exp_value,
	t.due_date, t.is_completed, t.predefined_task_id, t.created_at,
	(udt.task_id IS NOT NULL) AS is_daily
	FROM tasks t
	LEFT JOIN user_default_tasks udt
	  ON udt.task_id = t.task_id AND udt.user_id = t.user_id AND udt.is_daily = 1`

type taskRow struct {
	ID               int64         `db:"task_id"`
	UserID           int64         `db:"user_id"`
	Name             string        `db:"task_name"`
	Description      string        `db:"task_description"`
	ExpValue         int64         `db:"exp_value"`
	DueDate          string        `db:"due_date"`
	IsCompleted      bool          `db:"is_completed"`
	PredefinedTaskID sql.NullInt64 `db:"predefined_task_id"`
	CreatedAt        timestamp     `db:"created_at"`
	IsDaily          bool          `db:"is_daily"`
}

func (r taskRow) toDomain() (*domain.Task, error) {
	due, err := domain.ParseDate(r.DueDate)
	if err != nil {
		return nil, err
	}
	return &domain.Task{
		ID:               r.ID,
		UserID:           r.UserID,
		Name:             r.Name,
		Description:      r.Description,
		ExpValue:         r.ExpValue,
		DueDate:          due,
		IsCompleted:      r.IsCompleted,
		PredefinedTaskID: nullableID(r.PredefinedTaskID),
		IsDaily:          r.IsDaily,
		CreatedAt:        r.CreatedAt.Time,
	}, nil
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}

func (q *queries) CreateTask(ctx context.Context, t *domain.Task) error {
	var row struct {
		ID        int64     `db:"task_id"`
		CreatedAt timestamp `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, q.db, &row,
		`INSERT INTO tasks (user_id, task_name, task_description, exp_value, due_date, predefined_task_id)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING task_id, created_at`,
		t.UserID, t.Name, t.Description, t.ExpValue, t.DueDate.String(), t.PredefinedTaskID,
	)
	if err != nil {
		return mapErr(err)
	}
	t.ID, t.CreatedAt, t.IsCompleted = row.ID, row.CreatedAt.Time, false
	return nil
}

func (q *queries) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	var row taskRow
	err := sqlx.GetContext(ctx, q.db, &row,
		taskSelect+` WHERE t.task_id = ? AND t.user_id = ?`, taskID, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return row.toDomain()
}

func (q *queries) ListTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return q.selectTasks(ctx,
		taskSelect+` WHERE t.user_id = ? ORDER BY t.due_date DESC, t.task_id`, userID)
}

func (q *queries) ListTasksDue(ctx context.Context, userID int64, due domain.Date) ([]*domain.Task, error) {
	return q.selectTasks(ctx,
		taskSelect+` WHERE t.user_id = ? AND t.due_date = ? ORDER BY t.exp_value DESC, t.task_id`,
		userID, due.String())
}

func (q *queries) selectTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	var rows []taskRow
	if err := sqlx.SelectContext(ctx, q.db, &rows, query, args...); err != nil {
		return nil, err
	}
	res := make([]*domain.Task, 0, len(rows))
	for _, r := range rows {
		t, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

func (q *queries) DeleteTask(ctx context.Context, userID, taskID int64) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM tasks WHERE task_id = ? AND user_id = ?`, taskID, userID)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (q *queries) MarkTaskCompleted(ctx context.Context, userID, taskID int64) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE tasks SET is_completed = 1
		 WHERE task_id = ? AND user_id = ? AND is_completed = 0`,
		taskID, userID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (q *queries) IncompleteTotals(ctx context.Context, due domain.Date) ([]domain.PenaltyDue, error) {
	var rows []struct {
		UserID int64 `db:"user_id"`
		Amount int64 `db:"amount"`
	}
	err := sqlx.SelectContext(ctx, q.db, &rows,
		`SELECT user_id, SUM(exp_value) AS amount
		 FROM tasks
		 WHERE due_date = ? AND is_completed = 0
		 GROUP BY user_id
		 HAVING SUM(exp_value) > 0
		 ORDER BY user_id`,
		due.String(),
	)
	if err != nil {
		return nil, err
	}
	res := make([]domain.PenaltyDue, 0, len(rows))
	for _, r := range rows {
		res = append(res, domain.PenaltyDue{UserID: r.UserID, Amount: r.Amount})
	}
	return res, nil
}
