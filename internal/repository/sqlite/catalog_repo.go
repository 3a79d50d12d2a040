package sqlite

import (
	"context"

	"taskquest/internal/domain"

	"github.com/jmoiron/sqlx"
)

type predefinedRow struct {
	ID              int64  `db:"predefined_task_id"`
	Name            string `db:"task_name"`
	DefaultExpValue int64  `db:"default_exp_value"`
	Category        string `db:"category"`
	IsDefault       bool   `db:"is_default"`
}

func (r predefinedRow) toDomain() *domain.PredefinedTask {
	return &domain.PredefinedTask{
		ID:              r.ID,
		Name:            r.Name,
		DefaultExpValue: r.DefaultExpValue,
		Category:        r.Category,
		IsDefault:       r.IsDefault,
	}
}

func (q *queries) GetPredefinedTask(ctx context.Context, id int64) (*domain.PredefinedTask, error) {
	var row predefinedRow
	err := sqlx.GetContext(ctx, q.db, &row,
		`SELECT predefined_task_id, task_name, default_exp_value, category, is_default
		 FROM predefined_tasks WHERE predefined_task_id = ?`, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return row.toDomain(), nil
}

func (q *queries) ListPredefinedTasks(ctx context.Context) ([]*domain.PredefinedTask, error) {
	var rows []predefinedRow
	err := sqlx.SelectContext(ctx, q.db, &rows,
		`SELECT predefined_task_id, task_name, default_exp_value, category, is_default
		 FROM predefined_tasks ORDER BY category, task_name`)
	if err != nil {
		return nil, err
	}
	res := make([]*domain.PredefinedTask, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.toDomain())
	}
	return res, nil
}

func (q *queries) InsertPredefinedTask(ctx context.Context, p *domain.PredefinedTask) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO predefined_tasks (task_name, default_exp_value, category, is_default)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (task_name) DO NOTHING`,
		p.Name, p.DefaultExpValue, p.Category, p.IsDefault,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (q *queries) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	var row struct {
		Theme               string `db:"theme"`
		NotificationEnabled bool   `db:"notification_enabled"`
	}
	err := sqlx.GetContext(ctx, q.db, &row,
		`SELECT theme, notification_enabled FROM user_settings WHERE user_id = ?`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &domain.Settings{UserID: userID, Theme: row.Theme, NotificationEnabled: row.NotificationEnabled}, nil
}

func (q *queries) UpsertSettings(ctx context.Context, s *domain.Settings) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO user_settings (user_id, theme, notification_enabled)
		 VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE
		 SET theme = excluded.theme,
		     notification_enabled = excluded.notification_enabled,
		     updated_at = CURRENT_TIMESTAMP`,
		s.UserID, s.Theme, s.NotificationEnabled,
	)
	return mapErr(err)
}

func (q *queries) CreateTaskRequest(ctx context.Context, r *domain.TaskRequest) error {
	var row struct {
		ID        int64     `db:"request_id"`
		Status    string    `db:"status"`
		CreatedAt timestamp `db:"created_at"`
	}
	err := sqlx.GetContext(ctx, q.db, &row,
		`INSERT INTO task_requests (user_id, task_name, suggested_exp_value)
		 VALUES (?, ?, ?)
		 RETURNING request_id, status, created_at`,
		r.UserID, r.Name, r.SuggestedExpValue,
	)
	if err != nil {
		return mapErr(err)
	}
	r.ID, r.Status, r.CreatedAt = row.ID, row.Status, row.CreatedAt.Time
	return nil
}
