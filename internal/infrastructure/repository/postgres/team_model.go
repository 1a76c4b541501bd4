package postgres

import "time"

type teamTableModel struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	CrestURL  string    `db:"crest_url"`
	Stadium   string    `db:"stadium"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
