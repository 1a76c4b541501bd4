package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
)

type ReferenceService struct {
	teams   team.Repository
	seasons season.Repository
}

func NewReferenceService(teams team.Repository, seasons season.Repository) *ReferenceService {
	return &ReferenceService{teams: teams, seasons: seasons}
}

func (s *ReferenceService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.ListTeams")
	defer span.End()

	items, err := s.teams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func (s *ReferenceService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.ListSeasons")
	defer span.End()

	items, err := s.seasons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Year > items[j].Year })
	return items, nil
}

func (s *ReferenceService) GetTeam(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReferenceService.GetTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	item, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return team.Team{}, notFound("team", teamID)
	}
	return item, nil
}
