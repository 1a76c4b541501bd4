package postgres

import "time"

type userTableModel struct {
	ID        string    `db:"id"`
	Alias     string    `db:"alias"`
	Role      string    `db:"role"`
	Tokens    int64     `db:"tokens"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
