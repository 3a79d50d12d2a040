package domain

import "time"

type User struct {
	ID           int64     `db:"user_id" json:"user_id"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	TotalExp     int64     `db:"total_exp" json:"total_exp"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the authenticated caller every core operation acts for.
type Identity struct {
	UserID   int64
	Username string
}
