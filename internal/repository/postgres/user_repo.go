package postgres

import (
	"context"

	"taskquest/internal/domain"
)

func (q *queries) CreateUser(ctx context.Context, u *domain.User) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING user_id, total_exp, created_at`,
		u.Username, u.Email, u.PasswordHash,
	).Scan(&u.ID, &u.TotalExp, &u.CreatedAt)
	return mapErr(err)
}

func (q *queries) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return q.getUser(ctx, `WHERE user_id = $1`, id)
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return q.getUser(ctx, `WHERE username = $1`, username)
}

func (q *queries) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx,
		`SELECT user_id, username, email, password_hash, total_exp, created_at
		 FROM users `+where,
		arg,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.TotalExp, &u.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (q *queries) AddExp(ctx context.Context, userID, amount int64) (int64, error) {
	var total int64
	err := q.db.QueryRow(ctx,
		`UPDATE users SET total_exp = total_exp + $1 WHERE user_id = $2 RETURNING total_exp`,
		amount, userID,
	).Scan(&total)
	return total, mapErr(err)
}

func (q *queries) DeductExp(ctx context.Context, userID, amount int64) (int64, error) {
	var applied int64
	err := q.db.QueryRow(ctx,
		`WITH prev AS (
			SELECT total_exp FROM users WHERE user_id = $1 FOR UPDATE
		 )
		 UPDATE users u
		 SET total_exp = GREATEST(0, u.total_exp - $2)
		 FROM prev
		 WHERE u.user_id = $1
		 RETURNING prev.total_exp - u.total_exp`,
		userID, amount,
	).Scan(&applied)
	return applied, mapErr(err)
}
