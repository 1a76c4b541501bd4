package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	qb "github.com/brunobenavent/api-futbol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

// upsertBatchSize keeps a multi-row insert under the postgres parameter limit.
const upsertBatchSize = 500

const upsertMatchSuffix = `ON CONFLICT (id) DO UPDATE SET
	season_id = EXCLUDED.season_id,
	round = EXCLUDED.round,
	home_team_id = EXCLUDED.home_team_id,
	away_team_id = EXCLUDED.away_team_id,
	kickoff_at = EXCLUDED.kickoff_at,
	status = EXCLUDED.status,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	stadium = EXCLUDED.stadium,
	source_url = EXCLUDED.source_url,
	current_minute = EXCLUDED.current_minute,
	updated_at = EXCLUDED.updated_at`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListBySeasonAndRound(ctx context.Context, seasonID string, round int) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("season_id", seasonID),
			qb.Eq("round", round),
		).
		OrderBy("kickoff_at NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by round query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListBySeason(ctx context.Context, seasonID string) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("round", "kickoff_at NULLS LAST", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by season query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by id: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) UpsertMany(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert matches: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	columns := qb.Columns(matchTableModel{})
	for start := 0; start < len(items); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(items))

		insert := qb.InsertInto("matches").Columns(columns...)
		for _, item := range items[start:end] {
			row := matchToRow(item)
			insert.Values(
				row.ID, row.SeasonID, row.Round, row.HomeTeamID, row.AwayTeamID, row.KickoffAt, row.Status,
				row.HomeScore, row.AwayScore, row.Stadium, row.SourceURL, row.CurrentMinute, row.UpdatedAt,
			)
		}
		query, args, err := insert.Suffix(upsertMatchSuffix).ToSQL()
		if err != nil {
			return fmt.Errorf("build upsert matches query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert matches: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert matches tx: %w", err)
	}
	return nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchToRow(item match.Match) matchTableModel {
	row := matchTableModel{
		ID:            strings.TrimSpace(item.ID),
		SeasonID:      item.SeasonID,
		Round:         item.Round,
		HomeTeamID:    item.HomeTeamID,
		AwayTeamID:    item.AwayTeamID,
		Status:        string(item.Status),
		HomeScore:     nullInt(item.HomeScore),
		AwayScore:     nullInt(item.AwayScore),
		Stadium:       nullString(item.Stadium),
		SourceURL:     nullString(item.SourceURL),
		CurrentMinute: nullString(item.CurrentMinute),
		UpdatedAt:     item.UpdatedAt,
	}
	if item.KickoffAt != nil {
		row.KickoffAt = sql.NullTime{Time: item.KickoffAt.UTC(), Valid: true}
	}
	return row
}

func matchFromRow(row matchTableModel) match.Match {
	out := match.Match{
		ID:            row.ID,
		SeasonID:      row.SeasonID,
		Round:         row.Round,
		HomeTeamID:    row.HomeTeamID,
		AwayTeamID:    row.AwayTeamID,
		Status:        match.Status(row.Status),
		HomeScore:     intFromNull(row.HomeScore),
		AwayScore:     intFromNull(row.AwayScore),
		Stadium:       row.Stadium.String,
		SourceURL:     row.SourceURL.String,
		CurrentMinute: row.CurrentMinute.String,
		UpdatedAt:     row.UpdatedAt,
	}
	if row.KickoffAt.Valid {
		kickoff := row.KickoffAt.Time.UTC()
		out.KickoffAt = &kickoff
	}
	return out
}
