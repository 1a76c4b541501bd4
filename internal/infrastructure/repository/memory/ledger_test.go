package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, survivor.Game) {
	t.Helper()

	ledger := NewLedger([]user.User{
		{ID: "u1", Role: user.RoleUser, Tokens: 50},
		{ID: "u2", Role: user.RoleUser, Tokens: 5},
	})
	game, err := ledger.Games().CreateGame(context.Background(), survivor.Game{
		ID:           "g1",
		SeasonID:     SeasonIDLaLiga2025,
		Status:       survivor.GameStatusOpen,
		EntryPrice:   10,
		CurrentRound: 1,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, game.Version)
	return ledger, game
}

func TestLedger_JoinMovesTokensIntoPot(t *testing.T) {
	ctx := context.Background()
	ledger, game := newTestLedger(t)
	games := ledger.Games()

	updated, entry, err := games.Join(ctx, survivor.JoinCommit{
		GameID:      game.ID,
		GameVersion: game.Version,
		Price:       game.EntryPrice,
		Entry:       survivor.Entry{ID: "e1", UserID: "u1", IsAlive: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, entry.PlayerNumber)
	assert.EqualValues(t, 10, updated.Pot)
	assert.EqualValues(t, 2, updated.Version)

	payer, _, _ := ledger.Users().GetByID(ctx, "u1")
	assert.EqualValues(t, 40, payer.Tokens)

	_, _, err = games.Join(ctx, survivor.JoinCommit{
		GameID:      game.ID,
		GameVersion: updated.Version,
		Price:       game.EntryPrice,
		Entry:       survivor.Entry{ID: "e2", UserID: "u1", IsAlive: true},
	})
	assert.ErrorIs(t, err, survivor.ErrAlreadyJoined)
}

func TestLedger_JoinRejectsStaleVersionAndLowBalance(t *testing.T) {
	ctx := context.Background()
	ledger, game := newTestLedger(t)
	games := ledger.Games()

	_, _, err := games.Join(ctx, survivor.JoinCommit{
		GameID:      game.ID,
		GameVersion: game.Version + 1,
		Price:       game.EntryPrice,
		Entry:       survivor.Entry{ID: "e1", UserID: "u1"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, survivor.ErrVersionConflict))

	_, _, err = games.Join(ctx, survivor.JoinCommit{
		GameID:      game.ID,
		GameVersion: game.Version,
		Price:       game.EntryPrice,
		Entry:       survivor.Entry{ID: "e2", UserID: "u2"},
	})
	assert.ErrorIs(t, err, survivor.ErrInsufficientFunds)

	stored, _, _ := games.GetGame(ctx, game.ID)
	assert.Zero(t, stored.Pot)
	poor, _, _ := ledger.Users().GetByID(ctx, "u2")
	assert.EqualValues(t, 5, poor.Tokens)
}

func TestLedger_SaveSettlementIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	ledger, game := newTestLedger(t)
	games := ledger.Games()

	game, entry, err := games.Join(ctx, survivor.JoinCommit{
		GameID:      game.ID,
		GameVersion: game.Version,
		Price:       game.EntryPrice,
		Entry:       survivor.Entry{ID: "e1", UserID: "u1", IsAlive: true},
	})
	require.NoError(t, err)

	finished := game
	finished.Status = survivor.GameStatusFinished
	finished.WinnerUserID = "u1"
	stale := entry
	stale.Version = 99

	err = games.SaveSettlement(ctx, survivor.Settlement{
		Game:    &finished,
		Entries: []survivor.Entry{stale},
		Payout:  &survivor.Payout{UserID: "u1", Amount: finished.Pot},
	})
	require.ErrorIs(t, err, survivor.ErrStaleEntry)

	stored, _, _ := games.GetGame(ctx, game.ID)
	assert.Equal(t, survivor.GameStatusOpen, stored.Status)

	err = games.SaveSettlement(ctx, survivor.Settlement{
		Game:    &finished,
		Entries: []survivor.Entry{entry},
		Payout:  &survivor.Payout{UserID: "u1", Amount: finished.Pot},
	})
	require.NoError(t, err)

	stored, _, _ = games.GetGame(ctx, game.ID)
	assert.Equal(t, survivor.GameStatusFinished, stored.Status)
	assert.Equal(t, finished.Version+1, stored.Version)
	winner, _, _ := ledger.Users().GetByID(ctx, "u1")
	assert.EqualValues(t, 50, winner.Tokens)
}

func TestUserRepository_AdjustTokensFloorsAtZero(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger([]user.User{{ID: "u1", Tokens: 7}})

	got, err := ledger.Users().AdjustTokens(ctx, "u1", user.TokenOperationSubtract, 20)
	require.NoError(t, err)
	assert.Zero(t, got.Tokens)

	got, err = ledger.Users().AdjustTokens(ctx, "u1", user.TokenOperationAdd, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Tokens)
}
