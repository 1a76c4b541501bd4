package postgres

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/memory"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// BootstrapSeed loads the reference teams, seasons and the demo users into an empty
// database. It does nothing once a season exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM seasons`); err != nil {
		return fmt.Errorf("count seasons for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		if err := seedExec(ctx, tx, `
INSERT INTO teams (id, name, crest_url, stadium)
VALUES (:id, :name, :crest_url, :stadium)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":        t.ID,
			"name":      t.Name,
			"crest_url": t.CrestURL,
			"stadium":   t.Stadium,
		}); err != nil {
			return fmt.Errorf("seed team %s: %w", t.ID, err)
		}
	}

	for _, s := range memory.SeedSeasons() {
		if err := seedExec(ctx, tx, `
INSERT INTO seasons (id, year, name, rounds, team_ids)
VALUES (:id, :year, :name, :rounds, :team_ids)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":       s.ID,
			"year":     s.Year,
			"name":     s.Name,
			"rounds":   s.Rounds,
			"team_ids": pq.StringArray(s.TeamIDs),
		}); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}

	for _, u := range memory.SeedUsers() {
		if err := seedExec(ctx, tx, `
INSERT INTO users (id, alias, role, tokens)
VALUES (:id, :alias, :role, :tokens)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":     u.ID,
			"alias":  u.Alias,
			"role":   string(u.Role),
			"tokens": u.Tokens,
		}); err != nil {
			return fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func seedExec(ctx context.Context, tx *sqlx.Tx, query string, arg map[string]any) error {
	sqlQuery, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("bind query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
		return err
	}
	return nil
}
