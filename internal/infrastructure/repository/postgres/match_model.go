package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID            string         `db:"id"`
	SeasonID      string         `db:"season_id"`
	Round         int            `db:"round"`
	HomeTeamID    string         `db:"home_team_id"`
	AwayTeamID    string         `db:"away_team_id"`
	KickoffAt     sql.NullTime   `db:"kickoff_at"`
	Status        string         `db:"status"`
	HomeScore     sql.NullInt64  `db:"home_score"`
	AwayScore     sql.NullInt64  `db:"away_score"`
	Stadium       sql.NullString `db:"stadium"`
	SourceURL     sql.NullString `db:"source_url"`
	CurrentMinute sql.NullString `db:"current_minute"`
	UpdatedAt     time.Time      `db:"updated_at"`
}
