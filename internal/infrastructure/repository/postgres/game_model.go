package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type gameTableModel struct {
	ID           string         `db:"id"`
	Name         string         `db:"name"`
	SeasonID     string         `db:"season_id"`
	Status       string         `db:"status"`
	EntryPrice   int64          `db:"entry_price"`
	Pot          int64          `db:"pot"`
	CurrentRound int            `db:"current_round"`
	WinnerUserID sql.NullString `db:"winner_user_id"`
	Version      int64          `db:"version"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type entryTableModel struct {
	ID           string         `db:"id"`
	GameID       string         `db:"game_id"`
	UserID       string         `db:"user_id"`
	PlayerNumber int            `db:"player_number"`
	IsAlive      bool           `db:"is_alive"`
	UsedTeams    pq.StringArray `db:"used_teams"`
	Version      int64          `db:"version"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type pickTableModel struct {
	EntryID      string         `db:"entry_id"`
	Round        int            `db:"round"`
	MainTeamID   sql.NullString `db:"main_team_id"`
	BackupTeamID sql.NullString `db:"backup_team_id"`
	Result       string         `db:"result"`
	UsedBackup   bool           `db:"used_backup"`
}
