package postgres

import (
	"context"

	"taskquest/internal/domain"
)

func (q *queries) GetPredefinedTask(ctx context.Context, id int64) (*domain.PredefinedTask, error) {
	var p domain.PredefinedTask
	err := q.db.QueryRow(ctx,
		`SELECT predefined_task_id, task_name, default_exp_value, category, is_default
		 FROM predefined_tasks WHERE predefined_task_id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.DefaultExpValue, &p.Category, &p.IsDefault)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (q *queries) ListPredefinedTasks(ctx context.Context) ([]*domain.PredefinedTask, error) {
	rows, err := q.db.Query(ctx,
		`SELECT predefined_task_id, task_name, default_exp_value, category, is_default
		 FROM predefined_tasks
		 ORDER BY category, task_name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.PredefinedTask
	for rows.Next() {
		var p domain.PredefinedTask
		if err := rows.Scan(&p.ID, &p.Name, &p.DefaultExpValue, &p.Category, &p.IsDefault); err != nil {
			return nil, err
		}
		res = append(res, &p)
	}
	return res, rows.Err()
}

func (q *queries) InsertPredefinedTask(ctx context.Context, p *domain.PredefinedTask) (bool, error) {
	tag, err := q.db.Exec(ctx,
		`INSERT INTO predefined_tasks (task_name, default_exp_value, category, is_default)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (task_name) DO NOTHING`,
		p.Name, p.DefaultExpValue, p.Category, p.IsDefault,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) GetSettings(ctx context.Context, userID int64) (*domain.Settings, error) {
	s := domain.Settings{UserID: userID}
	err := q.db.QueryRow(ctx,
		`SELECT theme, notification_enabled FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&s.Theme, &s.NotificationEnabled)
	if err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

func (q *queries) UpsertSettings(ctx context.Context, s *domain.Settings) error {
	_, err := q.db.Exec(ctx,
		`INSERT INTO user_settings (user_id, theme, notification_enabled)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id) DO UPDATE
		 SET theme = EXCLUDED.theme,
		     notification_enabled = EXCLUDED.notification_enabled,
		     updated_at = now()`,
		s.UserID, s.Theme, s.NotificationEnabled,
	)
	return mapErr(err)
}

func (q *queries) CreateTaskRequest(ctx context.Context, r *domain.TaskRequest) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO task_requests (user_id, task_name, suggested_exp_value)
		 VALUES ($1, $2, $3)
		 RETURNING request_id, status, created_at`,
		r.UserID, r.Name, r.SuggestedExpValue,
	).Scan(&r.ID, &r.Status, &r.CreatedAt)
	return mapErr(err)
}
