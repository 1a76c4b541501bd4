package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	idgen "github.com/brunobenavent/api-futbol/internal/platform/id"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/platform/resilience"
	"github.com/jonboulle/clockwork"
)

type CreateGameInput struct {
	Actor      user.Principal
	Name       string
	SeasonYear int
	EntryPrice int64
}

type JoinGameInput struct {
	GameID string
	UserID string
}

type GameActionInput struct {
	Actor  user.Principal
	GameID string
}

type ResurrectInput struct {
	Actor   user.Principal
	GameID  string
	EntryID string
}

type GameDetails struct {
	Game    survivor.Game
	Entries []survivor.Entry
	Alive   int
}

// GameService runs the pool lifecycle: create, join, start, resurrect, close resurrection.
// Every mutation holds the per-game lock shared with EvaluationService.
type GameService struct {
	games   survivor.Repository
	seasons season.Repository
	matches match.Repository
	users   user.Repository
	rounds  ActiveRoundResolver
	locks   *resilience.KeyedMutex
	rules   survivor.Rules
	idGen   idgen.Generator
	logger  *logging.Logger
	clock   clockwork.Clock
}

func NewGameService(
	games survivor.Repository,
	seasons season.Repository,
	matches match.Repository,
	users user.Repository,
	rounds ActiveRoundResolver,
	locks *resilience.KeyedMutex,
	rules survivor.Rules,
	idGen idgen.Generator,
	logger *logging.Logger,
) *GameService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	return &GameService{
		games:   games,
		seasons: seasons,
		matches: matches,
		users:   users,
		rounds:  rounds,
		locks:   locks,
		rules:   rules,
		idGen:   idGen,
		logger:  logger,
		clock:   clockwork.NewRealClock(),
	}
}

func (s *GameService) CreateGame(ctx context.Context, input CreateGameInput) (survivor.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CreateGame")
	defer span.End()

	if !input.Actor.IsAdmin() {
		return survivor.Game{}, adminOnly("create games")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return survivor.Game{}, fmt.Errorf("%w: game name is required", ErrInvalidInput)
	}
	if input.SeasonYear <= 0 {
		return survivor.Game{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}
	if input.EntryPrice < 0 {
		return survivor.Game{}, fmt.Errorf("%w: entry price must be >= 0", ErrInvalidInput)
	}

	ssn, exists, err := s.seasons.GetByYear(ctx, input.SeasonYear)
	if err != nil {
		return survivor.Game{}, fmt.Errorf("get season by year: %w", err)
	}
	if !exists {
		return survivor.Game{}, fmt.Errorf("%w: season year=%d", ErrNotFound, input.SeasonYear)
	}

	gameID, err := s.idGen.NewID()
	if err != nil {
		return survivor.Game{}, fmt.Errorf("generate game id: %w", err)
	}

	now := s.clock.Now().UTC()
	created, err := s.games.CreateGame(ctx, survivor.Game{
		ID:           gameID,
		Name:         name,
		SeasonID:     ssn.ID,
		Status:       survivor.GameStatusOpen,
		EntryPrice:   input.EntryPrice,
		CurrentRound: 1,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return survivor.Game{}, fmt.Errorf("create game: %w", err)
	}

	s.logger.InfoContext(ctx, "game created", "game_id", created.ID, "season_id", ssn.ID, "entry_price", created.EntryPrice)
	return created, nil
}

func (s *GameService) ListGames(ctx context.Context, status string) ([]survivor.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.ListGames")
	defer span.End()

	filter := survivor.GameStatus(strings.ToUpper(strings.TrimSpace(status)))
	if filter != "" && !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown game status %q", ErrInvalidInput, status)
	}

	items, err := s.games.ListGames(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return items, nil
}

func (s *GameService) GetGameDetails(ctx context.Context, gameID string) (GameDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.GetGameDetails")
	defer span.End()

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return GameDetails{}, err
	}
	entries, err := s.games.ListEntries(ctx, game.ID)
	if err != nil {
		return GameDetails{}, fmt.Errorf("list entries: %w", err)
	}
	survivor.SortForStanding(entries)

	return GameDetails{Game: game, Entries: entries, Alive: survivor.CountAlive(entries)}, nil
}

func (s *GameService) Join(ctx context.Context, input JoinGameInput) (survivor.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Join", gameAttr(input.GameID), userAttr(input.UserID))
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return survivor.Entry{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var joined survivor.Entry
	err := s.withGameLock(ctx, input.GameID, func(ctx context.Context, game survivor.Game) error {
		if game.Status != survivor.GameStatusOpen {
			return survivor.ErrGameNotOpen
		}

		member, exists, err := s.users.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !exists {
			return notFound("user", userID)
		}
		if _, already, err := s.games.GetEntryByUser(ctx, game.ID, userID); err != nil {
			return fmt.Errorf("get entry by user: %w", err)
		} else if already {
			return survivor.ErrAlreadyJoined
		}
		if !member.CanAfford(game.EntryPrice) {
			return fmt.Errorf("%w: balance=%d price=%d", survivor.ErrBalanceTooLow, member.Tokens, game.EntryPrice)
		}

		entryID, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate entry id: %w", err)
		}
		now := s.clock.Now().UTC()
		_, joined, err = s.games.Join(ctx, survivor.JoinCommit{
			GameID:      game.ID,
			GameVersion: game.Version,
			Price:       game.EntryPrice,
			Entry: survivor.Entry{
				ID:        entryID,
				GameID:    game.ID,
				UserID:    userID,
				IsAlive:   true,
				Version:   1,
				CreatedAt: now,
				UpdatedAt: now,
			},
		})
		if err != nil {
			return fmt.Errorf("join game: %w", err)
		}
		return nil
	})
	if err != nil {
		return survivor.Entry{}, err
	}

	s.logger.InfoContext(ctx, "user joined game", "game_id", joined.GameID, "user_id", userID, "player_number", joined.PlayerNumber)
	return joined, nil
}

func (s *GameService) Start(ctx context.Context, input GameActionInput) (survivor.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Start", gameAttr(input.GameID))
	defer span.End()

	if !input.Actor.IsAdmin() {
		return survivor.Game{}, adminOnly("start games")
	}

	var started survivor.Game
	err := s.withGameLock(ctx, input.GameID, func(ctx context.Context, game survivor.Game) error {
		if game.Status != survivor.GameStatusOpen {
			return survivor.ErrGameNotOpen
		}

		entries, err := s.games.ListEntries(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}
		if len(entries) < s.rules.MinPlayersToStart {
			return fmt.Errorf("%w: players=%d required=%d", survivor.ErrNotEnoughPlayers, len(entries), s.rules.MinPlayersToStart)
		}

		active, err := s.activeRound(ctx, game.SeasonID)
		if err != nil {
			return err
		}
		view, err := loadRoundView(ctx, s.matches, game.SeasonID, active)
		if err != nil {
			return err
		}
		if view.Started() {
			return fmt.Errorf("%w: round=%d", survivor.ErrRoundAlreadyStarted, active)
		}

		game.Status = survivor.GameStatusInProgress
		game.CurrentRound = active
		game.UpdatedAt = s.clock.Now().UTC()
		started, err = s.games.UpdateGame(ctx, game)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		return nil
	})
	if err != nil {
		return survivor.Game{}, err
	}

	s.logger.InfoContext(ctx, "game started", "game_id", started.ID, "round", started.CurrentRound)
	return started, nil
}

func (s *GameService) Resurrect(ctx context.Context, input ResurrectInput) (survivor.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Resurrect", gameAttr(input.GameID))
	defer span.End()

	entryID := strings.TrimSpace(input.EntryID)
	if entryID == "" {
		return survivor.Entry{}, fmt.Errorf("%w: entry id is required", ErrInvalidInput)
	}

	var revived survivor.Entry
	err := s.withGameLock(ctx, input.GameID, func(ctx context.Context, game survivor.Game) error {
		if game.Status != survivor.GameStatusWaitingResurrection {
			return survivor.ErrNotWaitingResurrection
		}

		entry, exists, err := s.games.GetEntry(ctx, entryID)
		if err != nil {
			return fmt.Errorf("get entry: %w", err)
		}
		if !exists || entry.GameID != game.ID {
			return notFound("entry", entryID)
		}
		if entry.UserID != input.Actor.UserID && !input.Actor.IsAdmin() {
			return fmt.Errorf("%w: entry belongs to another user", ErrForbidden)
		}
		if entry.IsAlive {
			return survivor.ErrEntryAlive
		}

		payer, exists, err := s.users.GetByID(ctx, entry.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		if !exists {
			return notFound("user", entry.UserID)
		}
		if !payer.CanAfford(s.rules.ResurrectionFee) {
			return fmt.Errorf("%w: balance=%d fee=%d", survivor.ErrBalanceTooLow, payer.Tokens, s.rules.ResurrectionFee)
		}

		entry.IsAlive = true
		entry.UsedTeams = nil
		entry.UpdatedAt = s.clock.Now().UTC()
		_, revived, err = s.games.Resurrect(ctx, survivor.ResurrectionCommit{
			GameID:      game.ID,
			GameVersion: game.Version,
			Entry:       entry,
			PayerUserID: payer.ID,
			Fee:         s.rules.ResurrectionFee,
		})
		if err != nil {
			return fmt.Errorf("resurrect entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return survivor.Entry{}, err
	}

	s.logger.InfoContext(ctx, "entry resurrected", "game_id", revived.GameID, "entry_id", revived.ID, "actor", input.Actor.UserID)
	return revived, nil
}

// CloseResurrection reopens play at max(current+1, active round). With nobody alive the game ends without a winner.
func (s *GameService) CloseResurrection(ctx context.Context, input GameActionInput) (survivor.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.CloseResurrection", gameAttr(input.GameID))
	defer span.End()

	if !input.Actor.IsAdmin() {
		return survivor.Game{}, adminOnly("close resurrection")
	}

	var closed survivor.Game
	err := s.withGameLock(ctx, input.GameID, func(ctx context.Context, game survivor.Game) error {
		if game.Status != survivor.GameStatusWaitingResurrection {
			return survivor.ErrNotWaitingResurrection
		}

		entries, err := s.games.ListEntries(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("list entries: %w", err)
		}

		if survivor.CountAlive(entries) == 0 {
			game.Status = survivor.GameStatusFinished
		} else {
			active, err := s.activeRound(ctx, game.SeasonID)
			if err != nil {
				return err
			}
			game.Status = survivor.GameStatusInProgress
			game.CurrentRound = max(game.CurrentRound+1, active)
		}
		game.UpdatedAt = s.clock.Now().UTC()

		closed, err = s.games.UpdateGame(ctx, game)
		if err != nil {
			return fmt.Errorf("update game: %w", err)
		}
		return nil
	})
	if err != nil {
		return survivor.Game{}, err
	}

	s.logger.InfoContext(ctx, "resurrection closed", "game_id", closed.ID, "status", closed.Status, "round", closed.CurrentRound)
	return closed, nil
}

func (s *GameService) withGameLock(ctx context.Context, gameID string, fn func(ctx context.Context, game survivor.Game) error) error {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}

	unlock, err := s.locks.Lock(ctx, gameID)
	if err != nil {
		return fmt.Errorf("acquire game lock: %w", err)
	}
	defer unlock()

	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return err
	}
	return fn(ctx, game)
}

func (s *GameService) loadGame(ctx context.Context, gameID string) (survivor.Game, error) {
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return survivor.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	game, exists, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return survivor.Game{}, fmt.Errorf("get game: %w", err)
	}
	if !exists {
		return survivor.Game{}, notFound("game", gameID)
	}
	return game, nil
}

func (s *GameService) activeRound(ctx context.Context, seasonID string) (int, error) {
	active, err := s.rounds.ActiveRound(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("resolve active round: %w", err)
	}
	if active < 1 {
		return 0, fmt.Errorf("%w: active round for season=%s is %d", ErrDependencyUnavailable, seasonID, active)
	}
	return active, nil
}
