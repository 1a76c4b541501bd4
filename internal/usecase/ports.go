package usecase

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
)

// ActiveRoundResolver reports which round of a season is currently open for picks.
type ActiveRoundResolver interface {
	ActiveRound(ctx context.Context, seasonID string) (int, error)
}

// MatchFeed pulls normalized match records for one round from the acquisition pipeline.
type MatchFeed interface {
	FetchRound(ctx context.Context, seasonID string, round int) ([]match.Match, error)
}

func loadRoundView(ctx context.Context, matches match.Repository, seasonID string, round int) (survivor.RoundView, error) {
	items, err := matches.ListBySeasonAndRound(ctx, seasonID, round)
	if err != nil {
		return survivor.RoundView{}, fmt.Errorf("list matches: %w", err)
	}
	return survivor.NewRoundView(round, items), nil
}
