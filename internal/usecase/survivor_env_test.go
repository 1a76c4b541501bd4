package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/memory"
	idgen "github.com/brunobenavent/api-futbol/internal/platform/id"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/platform/resilience"
	"github.com/jonboulle/clockwork"
)

var adminPrincipal = user.Principal{UserID: memory.UserIDAdmin, Role: user.RoleAdmin}

type staticRounds map[string]int

func (s staticRounds) ActiveRound(_ context.Context, seasonID string) (int, error) {
	round, ok := s[seasonID]
	if !ok {
		return 0, fmt.Errorf("no active round for season %s", seasonID)
	}
	return round, nil
}

// survivorEnv wires the survivor use cases over the in-memory stores with a fake clock.
type survivorEnv struct {
	ledger  *memory.Ledger
	teams   *memory.TeamRepository
	seasons *memory.SeasonRepository
	matches *memory.MatchRepository
	rounds  staticRounds
	locks   *resilience.KeyedMutex
	clock   *clockwork.FakeClock
	rules   survivor.Rules
}

func newSurvivorEnv(t *testing.T, accounts ...user.User) *survivorEnv {
	t.Helper()

	users := append([]user.User{{ID: memory.UserIDAdmin, Role: user.RoleAdmin, Tokens: 1000}}, accounts...)
	rules := survivor.DefaultRules()
	rules.MinPlayersToStart = 2

	return &survivorEnv{
		ledger:  memory.NewLedger(users),
		teams:   memory.NewTeamRepository(memory.SeedTeams()),
		seasons: memory.NewSeasonRepository(memory.SeedSeasons()),
		matches: memory.NewMatchRepository(nil),
		rounds:  staticRounds{memory.SeasonIDLaLiga2025: 1},
		locks:   resilience.NewKeyedMutex(),
		clock:   clockwork.NewFakeClockAt(time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)),
		rules:   rules,
	}
}

func testPlayers(n int, tokens int64) []user.User {
	out := make([]user.User, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, user.User{ID: fmt.Sprintf("p%02d", i), Role: user.RoleUser, Tokens: tokens})
	}
	return out
}

func (e *survivorEnv) gameService() *GameService {
	svc := NewGameService(
		e.ledger.Games(),
		e.seasons,
		e.matches,
		e.ledger.Users(),
		e.rounds,
		e.locks,
		e.rules,
		idgen.NewRandomGenerator(),
		logging.NewNop(),
	)
	svc.clock = e.clock
	return svc
}

func (e *survivorEnv) pickService() *PickService {
	svc := NewPickService(e.ledger.Games(), e.teams, e.matches, e.rules, logging.NewNop())
	svc.clock = e.clock
	return svc
}

func (e *survivorEnv) evaluationService() *EvaluationService {
	svc := NewEvaluationService(e.ledger.Games(), e.seasons, e.matches, e.locks, 2, logging.NewNop())
	svc.clock = e.clock
	return svc
}

func matchID(round int, home, away string) string {
	return fmt.Sprintf("r%d-%s-%s", round, home, away)
}

// schedule stores fixtures for round kicking off two days from the fake now.
func (e *survivorEnv) schedule(t *testing.T, round int, fixtures ...[2]string) {
	t.Helper()

	kickoff := e.clock.Now().Add(48 * time.Hour)
	items := make([]match.Match, 0, len(fixtures))
	for _, f := range fixtures {
		items = append(items, match.Match{
			ID:         matchID(round, f[0], f[1]),
			SeasonID:   memory.SeasonIDLaLiga2025,
			Round:      round,
			HomeTeamID: f[0],
			AwayTeamID: f[1],
			KickoffAt:  &kickoff,
			Status:     match.StatusScheduled,
		})
	}
	if err := e.matches.UpsertMany(context.Background(), items); err != nil {
		t.Fatalf("schedule round %d: %v", round, err)
	}
}

func (e *survivorEnv) setStatus(t *testing.T, round int, home, away string, status match.Status) {
	t.Helper()
	e.update(t, matchID(round, home, away), func(m *match.Match) {
		m.Status = status
		m.HomeScore, m.AwayScore = nil, nil
	})
}

func (e *survivorEnv) finish(t *testing.T, round int, home, away string, homeScore, awayScore int) {
	t.Helper()
	e.update(t, matchID(round, home, away), func(m *match.Match) {
		m.Status = match.StatusFinished
		m.HomeScore, m.AwayScore = &homeScore, &awayScore
	})
}

func (e *survivorEnv) update(t *testing.T, id string, mutate func(*match.Match)) {
	t.Helper()

	ctx := context.Background()
	item, ok, err := e.matches.GetByID(ctx, id)
	if err != nil || !ok {
		t.Fatalf("get match %s: ok=%v err=%v", id, ok, err)
	}
	mutate(&item)
	if err := e.matches.UpsertMany(ctx, []match.Match{item}); err != nil {
		t.Fatalf("update match %s: %v", id, err)
	}
}

// startGame creates a game, joins every user in userIDs and starts it at the active round.
func (e *survivorEnv) startGame(t *testing.T, price int64, userIDs ...string) survivor.Game {
	t.Helper()

	ctx := context.Background()
	svc := e.gameService()
	game, err := svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: "Test pool", SeasonYear: 2025, EntryPrice: price})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	for _, userID := range userIDs {
		if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: userID}); err != nil {
			t.Fatalf("join %s: %v", userID, err)
		}
	}
	started, err := svc.Start(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID})
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return started
}

func (e *survivorEnv) pick(t *testing.T, gameID, userID string, round int, main, backup string) {
	t.Helper()

	_, err := e.pickService().Submit(context.Background(), PickInput{
		UserID:       userID,
		GameID:       gameID,
		Round:        round,
		MainTeamID:   main,
		BackupTeamID: backup,
	})
	if err != nil {
		t.Fatalf("submit pick for %s: %v", userID, err)
	}
}

func (e *survivorEnv) entryOf(t *testing.T, gameID, userID string) survivor.Entry {
	t.Helper()

	entry, ok, err := e.ledger.Games().GetEntryByUser(context.Background(), gameID, userID)
	if err != nil || !ok {
		t.Fatalf("get entry of %s: ok=%v err=%v", userID, ok, err)
	}
	return entry
}

func (e *survivorEnv) game(t *testing.T, gameID string) survivor.Game {
	t.Helper()

	game, ok, err := e.ledger.Games().GetGame(context.Background(), gameID)
	if err != nil || !ok {
		t.Fatalf("get game %s: ok=%v err=%v", gameID, ok, err)
	}
	return game
}

func (e *survivorEnv) tokens(t *testing.T, userID string) int64 {
	t.Helper()

	u, ok, err := e.ledger.Users().GetByID(context.Background(), userID)
	if err != nil || !ok {
		t.Fatalf("get user %s: ok=%v err=%v", userID, ok, err)
	}
	return u.Tokens
}
