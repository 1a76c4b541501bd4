package postgres

import (
	"time"

	"github.com/lib/pq"
)

type seasonTableModel struct {
	ID        string         `db:"id"`
	Year      int            `db:"year"`
	Name      string         `db:"name"`
	Rounds    int            `db:"rounds"`
	TeamIDs   pq.StringArray `db:"team_ids"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}
