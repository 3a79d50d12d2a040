package sqlite

import (
	"context"

	"taskquest/internal/domain"

	"github.com/jmoiron/sqlx"
)

type userRow struct {
	ID           int64     `db:"user_id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	TotalExp     int64     `db:"total_exp"`
	CreatedAt    timestamp `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		TotalExp:     r.TotalExp,
		CreatedAt:    r.CreatedAt.Time,
	}
}

func (q *queries) CreateUser(ctx context.Context, u *domain.User) error {
	var row userRow
	err := sqlx.GetContext(ctx, q.db, &row,
		`INSERT INTO users (username, email, password_hash)
		 VALUES (?, ?, ?)
		 RETURNING user_id, username, email, password_hash, total_exp, created_at`,
		u.Username, u.Email, u.PasswordHash,
	)
	if err != nil {
		return mapErr(err)
	}
	u.ID, u.TotalExp, u.CreatedAt = row.ID, row.TotalExp, row.CreatedAt.Time
	return nil
}

func (q *queries) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return q.getUser(ctx, `WHERE user_id = ?`, id)
}

func (q *queries) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return q.getUser(ctx, `WHERE username = ?`, username)
}

func (q *queries) getUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	var row userRow
	err := sqlx.GetContext(ctx, q.db, &row,
		`SELECT user_id, username, email, password_hash, total_exp, created_at FROM users `+where,
		arg,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	return row.toDomain(), nil
}

func (q *queries) AddExp(ctx context.Context, userID, amount int64) (int64, error) {
	var total int64
	err := sqlx.GetContext(ctx, q.db, &total,
		`UPDATE users SET total_exp = total_exp + ? WHERE user_id = ? RETURNING total_exp`,
		amount, userID,
	)
	return total, mapErr(err)
}

// DeductExp reads then writes; callers run it inside WithTx, where SQLite's
// single writer makes the pair atomic.
func (q *queries) DeductExp(ctx context.Context, userID, amount int64) (int64, error) {
	var total int64
	if err := sqlx.GetContext(ctx, q.db, &total,
		`SELECT total_exp FROM users WHERE user_id = ?`, userID); err != nil {
		return 0, mapErr(err)
	}

	applied := amount
	if total < applied {
		applied = total
	}
	if _, err := q.db.ExecContext(ctx,
		`UPDATE users SET total_exp = MAX(0, total_exp - ?) WHERE user_id = ?`,
		applied, userID); err != nil {
		return 0, err
	}
	return applied, nil
}
