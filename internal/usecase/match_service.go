package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/jonboulle/clockwork"
)

// MatchService is the write side of the match store plus round listing.
type MatchService struct {
	matches match.Repository
	seasons season.Repository
	logger  *logging.Logger
	clock   clockwork.Clock
}

func NewMatchService(matches match.Repository, seasons season.Repository, logger *logging.Logger) *MatchService {
	return &MatchService{
		matches: matches,
		seasons: seasons,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
	}
}

func (s *MatchService) ListByRound(ctx context.Context, seasonID string, round int) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByRound")
	defer span.End()

	ssn, err := s.season(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	if !ssn.ValidRound(round) {
		return nil, fmt.Errorf("%w: round must be within 1..%d", ErrInvalidInput, ssn.Rounds)
	}

	items, err := s.matches.ListBySeasonAndRound(ctx, ssn.ID, round)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if ki, kj := items[i].KickoffAt, items[j].KickoffAt; ki != nil && kj != nil && !ki.Equal(*kj) {
			return ki.Before(*kj)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// Ingest validates and upserts a batch of normalized match records. One bad record rejects the batch.
func (s *MatchService) Ingest(ctx context.Context, items []match.Match) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Ingest")
	defer span.End()

	if len(items) == 0 {
		return 0, fmt.Errorf("%w: at least one match is required", ErrInvalidInput)
	}

	seasons := make(map[string]season.Season)
	now := s.clock.Now().UTC()
	normalized := make([]match.Match, 0, len(items))
	for i, item := range items {
		item.ID = strings.TrimSpace(item.ID)
		item.SeasonID = strings.TrimSpace(item.SeasonID)
		item.HomeTeamID = strings.TrimSpace(item.HomeTeamID)
		item.AwayTeamID = strings.TrimSpace(item.AwayTeamID)

		status, err := match.ParseStatus(string(item.Status))
		if err != nil {
			return 0, fmt.Errorf("%w: matches[%d]: %v", ErrInvalidInput, i, err)
		}
		item.Status = status
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("%w: matches[%d]: %v", ErrInvalidInput, i, err)
		}

		ssn, ok := seasons[item.SeasonID]
		if !ok {
			ssn, err = s.season(ctx, item.SeasonID)
			if err != nil {
				return 0, err
			}
			seasons[item.SeasonID] = ssn
		}
		if !ssn.ValidRound(item.Round) {
			return 0, fmt.Errorf("%w: matches[%d]: round %d outside season", ErrInvalidInput, i, item.Round)
		}
		if len(ssn.TeamIDs) > 0 && (!ssn.HasTeam(item.HomeTeamID) || !ssn.HasTeam(item.AwayTeamID)) {
			return 0, fmt.Errorf("%w: matches[%d]: team not registered in season %s", ErrInvalidInput, i, ssn.ID)
		}

		item.UpdatedAt = now
		normalized = append(normalized, item)
	}

	if err := s.matches.UpsertMany(ctx, normalized); err != nil {
		return 0, fmt.Errorf("upsert matches: %w", err)
	}

	s.logger.InfoContext(ctx, "matches ingested", "count", len(normalized))
	return len(normalized), nil
}

func (s *MatchService) season(ctx context.Context, seasonID string) (season.Season, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Season{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	ssn, exists, err := s.seasons.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, notFound("season", seasonID)
	}
	return ssn, nil
}
