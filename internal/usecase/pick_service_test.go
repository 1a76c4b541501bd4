package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
)

func TestPickService_Submit(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:3]...)
	game := env.startGame(t, 10, "p01", "p02")
	svc := env.pickService()
	ctx := context.Background()

	tests := []struct {
		name    string
		input   PickInput
		wantErr error
	}{
		{
			name:    "same main and backup",
			input:   PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "betis", BackupTeamID: "betis"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing backup",
			input:   PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "betis"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown team",
			input:   PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "betis", BackupTeamID: "chelsea"},
			wantErr: ErrNotFound,
		},
		{
			name:    "user without entry",
			input:   PickInput{UserID: "ghost", GameID: game.ID, Round: 1, MainTeamID: "betis", BackupTeamID: "valencia"},
			wantErr: ErrNotFound,
		},
		{
			name:    "future round",
			input:   PickInput{UserID: "p01", GameID: game.ID, Round: 2, MainTeamID: "betis", BackupTeamID: "valencia"},
			wantErr: survivor.ErrIneligible,
		},
		{
			name:    "team without fixture",
			input:   PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "betis", BackupTeamID: "oviedo"},
			wantErr: survivor.ErrTeamNotPlaying,
		},
		{
			name:  "accepted",
			input: PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: " betis ", BackupTeamID: "valencia"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entry, err := svc.Submit(ctx, tc.input)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			pick, ok := entry.PickFor(1)
			if !ok {
				t.Fatalf("pick not stored")
			}
			if pick.MainTeamID != "betis" || pick.Result != survivor.PickResultPending || pick.UsedBackup {
				t.Fatalf("unexpected pick: %+v", pick)
			}
		})
	}
}

// Scenario D: a team already used to win cannot be picked again and nothing changes.
func TestPickService_Submit_UsedTeamRejected(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	game := env.startGame(t, 10, "p01", "p02")
	ctx := context.Background()

	env.pick(t, game.ID, "p01", 1, "real-madrid", "atletico")
	env.pick(t, game.ID, "p02", 1, "atletico", "real-madrid")
	env.finish(t, 1, "real-madrid", "barcelona", 3, 0)
	env.finish(t, 1, "atletico", "sevilla", 2, 1)
	if _, err := env.evaluationService().EvaluateRound(ctx, game.ID, 1); err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	env.schedule(t, 2, [2]string{"barcelona", "real-madrid"}, [2]string{"sevilla", "betis"})
	before := env.entryOf(t, game.ID, "p01")

	_, err := env.pickService().Submit(ctx, PickInput{UserID: "p01", GameID: game.ID, Round: 2, MainTeamID: "sevilla", BackupTeamID: "real-madrid"})
	if !errors.Is(err, survivor.ErrTeamAlreadyUsed) {
		t.Fatalf("expected ErrTeamAlreadyUsed, got %v", err)
	}

	after := env.entryOf(t, game.ID, "p01")
	if after.Version != before.Version || len(after.Picks) != len(before.Picks) {
		t.Fatalf("entry changed on rejection: before=%+v after=%+v", before, after)
	}
}

func TestPickService_DeadlinePassed(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	game := env.startGame(t, 10, "p01", "p02")
	ctx := context.Background()

	env.pick(t, game.ID, "p01", 1, "real-madrid", "atletico")

	// Kickoff is 48h ahead, so the deadline is 47h ahead.
	env.clock.Advance(47*time.Hour + time.Minute)

	_, err := env.pickService().Update(ctx, PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "sevilla", BackupTeamID: "barcelona"})
	if !errors.Is(err, survivor.ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed on update, got %v", err)
	}
	_, err = env.pickService().Delete(ctx, DeletePickInput{UserID: "p01", GameID: game.ID, Round: 1})
	if !errors.Is(err, survivor.ErrDeadlinePassed) {
		t.Fatalf("expected ErrDeadlinePassed on delete, got %v", err)
	}
}

func TestPickService_UpdateAndDelete(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	game := env.startGame(t, 10, "p01", "p02")
	svc := env.pickService()
	ctx := context.Background()

	_, err := svc.Update(ctx, PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "sevilla", BackupTeamID: "barcelona"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when updating a missing pick, got %v", err)
	}
	_, err = svc.Delete(ctx, DeletePickInput{UserID: "p01", GameID: game.ID, Round: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound when deleting a missing pick, got %v", err)
	}

	env.pick(t, game.ID, "p01", 1, "real-madrid", "atletico")
	updated, err := svc.Update(ctx, PickInput{UserID: "p01", GameID: game.ID, Round: 1, MainTeamID: "sevilla", BackupTeamID: "barcelona"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Picks) != 1 || updated.Picks[0].MainTeamID != "sevilla" || updated.Picks[0].BackupTeamID != "barcelona" {
		t.Fatalf("unexpected picks after update: %+v", updated.Picks)
	}

	deleted, err := svc.Delete(ctx, DeletePickInput{UserID: "p01", GameID: game.ID, Round: 1})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(deleted.Picks) != 0 {
		t.Fatalf("pick not removed: %+v", deleted.Picks)
	}
}

func TestPickService_StaleEntryIsConflict(t *testing.T) {
	env := newSurvivorEnv(t, testPlayers(2, 100)...)
	env.schedule(t, 1, laLigaFixtures[:2]...)
	game := env.startGame(t, 10, "p01", "p02")

	stale := env.entryOf(t, game.ID, "p01")
	env.pick(t, game.ID, "p01", 1, "real-madrid", "atletico")

	stale.SetPick(survivor.Pick{Round: 1, MainTeamID: "sevilla", BackupTeamID: "barcelona", Result: survivor.PickResultPending})
	_, err := env.ledger.Games().UpdateEntry(context.Background(), stale)
	if !errors.Is(err, survivor.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}
