package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/jonboulle/clockwork"
)

type PickInput struct {
	UserID       string
	GameID       string
	Round        int
	MainTeamID   string
	BackupTeamID string
}

type DeletePickInput struct {
	UserID string
	GameID string
	Round  int
}

// PickService accepts, changes and withdraws a player's pick for the game's current round.
type PickService struct {
	games   survivor.Repository
	teams   team.Repository
	matches match.Repository
	rules   survivor.Rules
	logger  *logging.Logger
	clock   clockwork.Clock
}

func NewPickService(
	games survivor.Repository,
	teams team.Repository,
	matches match.Repository,
	rules survivor.Rules,
	logger *logging.Logger,
) *PickService {
	return &PickService{
		games:   games,
		teams:   teams,
		matches: matches,
		rules:   rules,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
	}
}

func (s *PickService) Submit(ctx context.Context, input PickInput) (survivor.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit", gameAttr(input.GameID), roundAttr(input.Round), userAttr(input.UserID))
	defer span.End()

	return s.save(ctx, input, false)
}

// Update replaces an existing pending pick. Unlike Submit it fails when the round has no pick yet.
func (s *PickService) Update(ctx context.Context, input PickInput) (survivor.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Update", gameAttr(input.GameID), roundAttr(input.Round), userAttr(input.UserID))
	defer span.End()

	return s.save(ctx, input, true)
}

func (s *PickService) Delete(ctx context.Context, input DeletePickInput) (survivor.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Delete", gameAttr(input.GameID), roundAttr(input.Round), userAttr(input.UserID))
	defer span.End()

	if input.Round < 1 {
		return survivor.Entry{}, fmt.Errorf("%w: round must be >= 1", ErrInvalidInput)
	}

	game, entry, err := s.loadEntry(ctx, input.GameID, input.UserID)
	if err != nil {
		return survivor.Entry{}, err
	}
	view, err := loadRoundView(ctx, s.matches, game.SeasonID, input.Round)
	if err != nil {
		return survivor.Entry{}, err
	}
	if err := survivor.CheckPickWindow(game, entry, input.Round, view, s.rules.PickDeadlineLead, s.clock.Now()); err != nil {
		return survivor.Entry{}, err
	}
	if !entry.RemovePick(input.Round) {
		return survivor.Entry{}, fmt.Errorf("%w: no pick for round=%d", ErrNotFound, input.Round)
	}

	entry.UpdatedAt = s.clock.Now().UTC()
	saved, err := s.games.UpdateEntry(ctx, entry)
	if err != nil {
		return survivor.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	s.logger.InfoContext(ctx, "pick deleted", "game_id", game.ID, "entry_id", saved.ID, "round", input.Round)
	return saved, nil
}

func (s *PickService) save(ctx context.Context, input PickInput, mustExist bool) (survivor.Entry, error) {
	req, err := s.normalize(ctx, input)
	if err != nil {
		return survivor.Entry{}, err
	}

	game, entry, err := s.loadEntry(ctx, input.GameID, input.UserID)
	if err != nil {
		return survivor.Entry{}, err
	}
	if mustExist {
		if _, ok := entry.PickFor(req.Round); !ok {
			return survivor.Entry{}, fmt.Errorf("%w: no pick for round=%d", ErrNotFound, req.Round)
		}
	}

	view, err := loadRoundView(ctx, s.matches, game.SeasonID, req.Round)
	if err != nil {
		return survivor.Entry{}, err
	}
	if err := survivor.ValidatePick(game, entry, req, view, s.rules.PickDeadlineLead, s.clock.Now()); err != nil {
		return survivor.Entry{}, err
	}

	entry.SetPick(survivor.NewPendingPick(req))
	entry.UpdatedAt = s.clock.Now().UTC()
	saved, err := s.games.UpdateEntry(ctx, entry)
	if err != nil {
		return survivor.Entry{}, fmt.Errorf("update entry: %w", err)
	}

	s.logger.InfoContext(ctx, "pick saved",
		"game_id", game.ID,
		"entry_id", saved.ID,
		"round", req.Round,
		"main_team_id", req.MainTeamID,
		"backup_team_id", req.BackupTeamID,
	)
	return saved, nil
}

func (s *PickService) normalize(ctx context.Context, input PickInput) (survivor.PickRequest, error) {
	req := survivor.PickRequest{
		Round:        input.Round,
		MainTeamID:   strings.TrimSpace(input.MainTeamID),
		BackupTeamID: strings.TrimSpace(input.BackupTeamID),
	}
	if req.Round < 1 {
		return survivor.PickRequest{}, fmt.Errorf("%w: round must be >= 1", ErrInvalidInput)
	}
	if req.MainTeamID == "" || req.BackupTeamID == "" {
		return survivor.PickRequest{}, fmt.Errorf("%w: main and backup team are required", ErrInvalidInput)
	}
	if req.MainTeamID == req.BackupTeamID {
		return survivor.PickRequest{}, fmt.Errorf("%w: main and backup team must differ", ErrInvalidInput)
	}

	for _, teamID := range []string{req.MainTeamID, req.BackupTeamID} {
		_, exists, err := s.teams.GetByID(ctx, teamID)
		if err != nil {
			return survivor.PickRequest{}, fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return survivor.PickRequest{}, notFound("team", teamID)
		}
	}
	return req, nil
}

func (s *PickService) loadEntry(ctx context.Context, gameID, userID string) (survivor.Game, survivor.Entry, error) {
	gameID = strings.TrimSpace(gameID)
	userID = strings.TrimSpace(userID)
	if gameID == "" || userID == "" {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("%w: game id and user id are required", ErrInvalidInput)
	}

	game, exists, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return survivor.Game{}, survivor.Entry{}, notFound("game", gameID)
	}

	entry, exists, err := s.games.GetEntryByUser(ctx, gameID, userID)
	if err != nil {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("get entry by user: %w", err)
	}
	if !exists {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("%w: user=%s has no entry in game=%s", ErrNotFound, userID, gameID)
	}
	return game, entry, nil
}
