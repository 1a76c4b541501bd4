package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/memory"
)

var laLigaFixtures = [][2]string{
	{"real-madrid", "barcelona"},
	{"atletico", "sevilla"},
	{"betis", "valencia"},
	{"villarreal", "athletic"},
	{"real-sociedad", "girona"},
	{"celta", "osasuna"},
	{"mallorca", "getafe"},
	{"rayo", "alaves"},
	{"espanyol", "elche"},
	{"levante", "oviedo"},
}

func TestGameService_CreateGame(t *testing.T) {
	env := newSurvivorEnv(t)
	svc := env.gameService()
	ctx := context.Background()

	_, err := svc.CreateGame(ctx, CreateGameInput{
		Actor:      user.Principal{UserID: "p01", Role: user.RoleUser},
		Name:       "Pool",
		SeasonYear: 2025,
		EntryPrice: 10,
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	_, err = svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: "Pool", SeasonYear: 1999, EntryPrice: 10})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown season, got %v", err)
	}

	game, err := svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: " Pool ", SeasonYear: 2025, EntryPrice: 10})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if game.Status != survivor.GameStatusOpen || game.CurrentRound != 1 || game.Pot != 0 {
		t.Fatalf("unexpected new game: %+v", game)
	}
	if game.Name != "Pool" || game.SeasonID != memory.SeasonIDLaLiga2025 {
		t.Fatalf("unexpected game identity: name=%q season=%s", game.Name, game.SeasonID)
	}
}

// Scenario F: a balance below the entry price rejects the join without touching the pot.
func TestGameService_Join_InsufficientFunds(t *testing.T) {
	env := newSurvivorEnv(t, user.User{ID: "poor", Role: user.RoleUser, Tokens: 8})
	svc := env.gameService()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: "Pool", SeasonYear: 2025, EntryPrice: 10})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	_, err = svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "poor"})
	if !errors.Is(err, survivor.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := env.game(t, game.ID).Pot; got != 0 {
		t.Fatalf("pot changed: %d", got)
	}
	if got := env.tokens(t, "poor"); got != 8 {
		t.Fatalf("balance changed: %d", got)
	}
	if _, ok, _ := env.ledger.Games().GetEntryByUser(ctx, game.ID, "poor"); ok {
		t.Fatalf("entry must not be created")
	}
}

func TestGameService_Join(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	svc := env.gameService()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: "Pool", SeasonYear: 2025, EntryPrice: 10})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}

	first, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p01"})
	if err != nil {
		t.Fatalf("join p01: %v", err)
	}
	second, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p02"})
	if err != nil {
		t.Fatalf("join p02: %v", err)
	}
	if first.PlayerNumber != 1 || second.PlayerNumber != 2 {
		t.Fatalf("unexpected player numbers: %d %d", first.PlayerNumber, second.PlayerNumber)
	}
	if !first.IsAlive || len(first.UsedTeams) != 0 {
		t.Fatalf("new entry must be alive with no used teams: %+v", first)
	}
	if got := env.game(t, game.ID).Pot; got != 20 {
		t.Fatalf("unexpected pot: %d", got)
	}
	if got := env.tokens(t, "p01"); got != 90 {
		t.Fatalf("unexpected balance: %d", got)
	}

	if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p01"}); !errors.Is(err, survivor.ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
	if _, err := svc.Join(ctx, JoinGameInput{GameID: "missing", UserID: "p01"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown game, got %v", err)
	}
}

func TestGameService_Start(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.rounds[memory.SeasonIDLaLiga2025] = 3
	svc := env.gameService()
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameInput{Actor: adminPrincipal, Name: "Pool", SeasonYear: 2025, EntryPrice: 10})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p01"}); err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := svc.Start(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID}); !errors.Is(err, survivor.ErrNotEnoughPlayers) {
		t.Fatalf("expected ErrNotEnoughPlayers, got %v", err)
	}
	if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p02"}); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.Start(ctx, GameActionInput{Actor: user.Principal{UserID: "p01"}, GameID: game.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	env.schedule(t, 3, laLigaFixtures[:2]...)
	env.setStatus(t, 3, "real-madrid", "barcelona", match.StatusLive)
	if _, err := svc.Start(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID}); !errors.Is(err, survivor.ErrRoundAlreadyStarted) {
		t.Fatalf("expected ErrRoundAlreadyStarted, got %v", err)
	}

	env.setStatus(t, 3, "real-madrid", "barcelona", match.StatusScheduled)
	started, err := svc.Start(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != survivor.GameStatusInProgress || started.CurrentRound != 3 {
		t.Fatalf("unexpected started game: status=%s round=%d", started.Status, started.CurrentRound)
	}

	if _, err := svc.Join(ctx, JoinGameInput{GameID: game.ID, UserID: "p01"}); !errors.Is(err, survivor.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase after start, got %v", err)
	}
}

// Scenario E plus the resurrection window that follows it.
func TestGameService_AllLoseThenResurrection(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(20, 100)...)
	env.rules.MinPlayersToStart = 20
	env.rounds[memory.SeasonIDLaLiga2025] = 5
	env.schedule(t, 5, laLigaFixtures...)
	ctx := context.Background()

	userIDs := make([]string, 0, 20)
	for _, p := range testPlayers(20, 0) {
		userIDs = append(userIDs, p.ID)
	}
	game := env.startGame(t, 10, userIDs...)
	if game.CurrentRound != 5 {
		t.Fatalf("unexpected start round: %d", game.CurrentRound)
	}

	for i, userID := range userIDs {
		f := laLigaFixtures[i%len(laLigaFixtures)]
		env.pick(t, game.ID, userID, 5, f[0], f[1])
	}
	for _, f := range laLigaFixtures {
		env.finish(t, 5, f[0], f[1], 1, 1)
	}

	report, err := env.evaluationService().EvaluateRound(ctx, game.ID, 5)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if report.Outcome != survivor.OutcomeResurrection || report.EliminatedCount != 20 {
		t.Fatalf("unexpected report: %+v", report)
	}
	game = env.game(t, game.ID)
	if game.Status != survivor.GameStatusWaitingResurrection || game.CurrentRound != 5 {
		t.Fatalf("unexpected game after round: status=%s round=%d", game.Status, game.CurrentRound)
	}

	svc := env.gameService()
	target := env.entryOf(t, game.ID, "p03")
	_, err = svc.Resurrect(ctx, ResurrectInput{Actor: user.Principal{UserID: "p02", Role: user.RoleUser}, GameID: game.ID, EntryID: target.ID})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign entry, got %v", err)
	}

	own := env.entryOf(t, game.ID, "p01")
	revived, err := svc.Resurrect(ctx, ResurrectInput{Actor: user.Principal{UserID: "p01", Role: user.RoleUser}, GameID: game.ID, EntryID: own.ID})
	if err != nil {
		t.Fatalf("resurrect: %v", err)
	}
	if !revived.IsAlive || len(revived.UsedTeams) != 0 {
		t.Fatalf("unexpected revived entry: %+v", revived)
	}
	if got := env.tokens(t, "p01"); got != 80 {
		t.Fatalf("unexpected balance after fee: %d", got)
	}
	if got := env.game(t, game.ID).Pot; got != 210 {
		t.Fatalf("unexpected pot after fee: %d", got)
	}
	if _, err := svc.Resurrect(ctx, ResurrectInput{Actor: adminPrincipal, GameID: game.ID, EntryID: own.ID}); !errors.Is(err, survivor.ErrEntryAlive) {
		t.Fatalf("expected ErrEntryAlive, got %v", err)
	}

	closed, err := svc.CloseResurrection(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID})
	if err != nil {
		t.Fatalf("close resurrection: %v", err)
	}
	if closed.Status != survivor.GameStatusInProgress || closed.CurrentRound != 6 {
		t.Fatalf("unexpected game after close: status=%s round=%d", closed.Status, closed.CurrentRound)
	}
	if _, err := svc.Resurrect(ctx, ResurrectInput{Actor: adminPrincipal, GameID: game.ID, EntryID: target.ID}); !errors.Is(err, survivor.ErrInvalidPhase) {
		t.Fatalf("expected ErrInvalidPhase once the window closed, got %v", err)
	}
}

func TestGameService_CloseResurrection_NobodyAliveFinishesWithoutWinner(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	ctx := context.Background()

	game := env.startGame(t, 10, "p01", "p02")
	env.pick(t, game.ID, "p01", 1, "real-madrid", "atletico")
	env.pick(t, game.ID, "p02", 1, "barcelona", "sevilla")
	env.finish(t, 1, "real-madrid", "barcelona", 0, 0)
	env.finish(t, 1, "atletico", "sevilla", 2, 2)

	if _, err := env.evaluationService().EvaluateRound(ctx, game.ID, 1); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	closed, err := env.gameService().CloseResurrection(ctx, GameActionInput{Actor: adminPrincipal, GameID: game.ID})
	if err != nil {
		t.Fatalf("close resurrection: %v", err)
	}
	if closed.Status != survivor.GameStatusFinished || closed.HasWinner() {
		t.Fatalf("expected finished game without winner, got %+v", closed)
	}
}

func TestGameService_GetGameDetails_AliveFirst(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(3, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	ctx := context.Background()

	game := env.startGame(t, 10, "p01", "p02", "p03")
	env.pick(t, game.ID, "p01", 1, "barcelona", "sevilla")
	env.pick(t, game.ID, "p02", 1, "real-madrid", "atletico")
	env.pick(t, game.ID, "p03", 1, "atletico", "barcelona")
	env.finish(t, 1, "real-madrid", "barcelona", 2, 0)
	env.finish(t, 1, "atletico", "sevilla", 1, 0)

	if _, err := env.evaluationService().EvaluateRound(ctx, game.ID, 1); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	details, err := env.gameService().GetGameDetails(ctx, game.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Alive != 2 || len(details.Entries) != 3 {
		t.Fatalf("unexpected details: alive=%d entries=%d", details.Alive, len(details.Entries))
	}
	if details.Entries[0].UserID != "p02" || details.Entries[1].UserID != "p03" || details.Entries[2].UserID != "p01" {
		t.Fatalf("unexpected standing order: %s %s %s", details.Entries[0].UserID, details.Entries[1].UserID, details.Entries[2].UserID)
	}
}
