package postgres

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/domain/season"
	qb "github.com/brunobenavent/api-futbol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type SeasonRepository struct {
	db *sqlx.DB
}

func NewSeasonRepository(db *sqlx.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	query, args, err := qb.Select("*").From("seasons").OrderBy("year").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select seasons: %w", err)
	}

	out := make([]season.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("id", seasonID))
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	return r.getOne(ctx, qb.Eq("year", year))
}

func (r *SeasonRepository) getOne(ctx context.Context, cond qb.Condition) (season.Season, bool, error) {
	query, args, err := qb.Select("*").From("seasons").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return season.Season{}, false, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return season.Season{}, false, nil
		}
		return season.Season{}, false, fmt.Errorf("select season: %w", err)
	}
	return seasonFromRow(row), true, nil
}

func seasonFromRow(row seasonTableModel) season.Season {
	return season.Season{
		ID:      row.ID,
		Year:    row.Year,
		Name:    row.Name,
		Rounds:  row.Rounds,
		TeamIDs: append([]string(nil), row.TeamIDs...),
	}
}
