package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
)

// Ledger keeps users, games and entries behind one lock so that join, resurrection
// and settlement move tokens and game state together.
type Ledger struct {
	mu      sync.RWMutex
	users   map[string]user.User
	games   map[string]survivor.Game
	entries map[string]survivor.Entry
}

func NewLedger(users []user.User) *Ledger {
	byID := make(map[string]user.User, len(users))
	for _, item := range users {
		byID[item.ID] = item
	}
	return &Ledger{
		users:   byID,
		games:   make(map[string]survivor.Game),
		entries: make(map[string]survivor.Entry),
	}
}

func (l *Ledger) Users() *UserRepository {
	return &UserRepository{ledger: l}
}

func (l *Ledger) Games() *GameRepository {
	return &GameRepository{ledger: l}
}

type UserRepository struct {
	ledger *Ledger
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	item, ok := r.ledger.users[userID]
	return item, ok, nil
}

func (r *UserRepository) AdjustTokens(_ context.Context, userID string, op user.TokenOperation, amount int64) (user.User, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	item, ok := r.ledger.users[userID]
	if !ok {
		return user.User{}, fmt.Errorf("user not found: %s", userID)
	}
	switch op {
	case user.TokenOperationAdd:
		item.Tokens += amount
	case user.TokenOperationSubtract:
		item.Tokens = max(item.Tokens-amount, 0)
	default:
		return user.User{}, fmt.Errorf("unknown token operation %q", op)
	}
	r.ledger.users[userID] = item
	return item, nil
}

// Upsert registers or replaces a user. Used by seeding and tests.
func (r *UserRepository) Upsert(_ context.Context, item user.User) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()

	r.ledger.users[item.ID] = item
}

type GameRepository struct {
	ledger *Ledger
}

func (r *GameRepository) CreateGame(_ context.Context, game survivor.Game) (survivor.Game, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.games[game.ID]; exists {
		return survivor.Game{}, fmt.Errorf("game already exists: %s", game.ID)
	}
	if game.Version == 0 {
		game.Version = 1
	}
	l.games[game.ID] = game
	return game, nil
}

func (r *GameRepository) GetGame(_ context.Context, gameID string) (survivor.Game, bool, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	item, ok := r.ledger.games[gameID]
	return item, ok, nil
}

func (r *GameRepository) ListGames(_ context.Context, status survivor.GameStatus) ([]survivor.Game, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	out := make([]survivor.Game, 0, len(r.ledger.games))
	for _, item := range r.ledger.games {
		if status != "" && item.Status != status {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) UpdateGame(_ context.Context, game survivor.Game) (survivor.Game, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkGame(game.ID, game.Version); err != nil {
		return survivor.Game{}, err
	}
	game.Version++
	l.games[game.ID] = game
	return game, nil
}

func (r *GameRepository) GetEntry(_ context.Context, entryID string) (survivor.Entry, bool, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	item, ok := r.ledger.entries[entryID]
	if !ok {
		return survivor.Entry{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *GameRepository) GetEntryByUser(_ context.Context, gameID, userID string) (survivor.Entry, bool, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	item, ok := r.ledger.entryByUser(gameID, userID)
	if !ok {
		return survivor.Entry{}, false, nil
	}
	return item.Clone(), true, nil
}

func (r *GameRepository) ListEntries(_ context.Context, gameID string) ([]survivor.Entry, error) {
	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	return r.ledger.gameEntries(gameID), nil
}

func (r *GameRepository) UpdateEntry(_ context.Context, entry survivor.Entry) (survivor.Entry, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkEntry(entry.ID, entry.Version); err != nil {
		return survivor.Entry{}, err
	}
	entry.Version++
	l.entries[entry.ID] = entry.Clone()
	return entry, nil
}

func (r *GameRepository) Join(_ context.Context, commit survivor.JoinCommit) (survivor.Game, survivor.Entry, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkGame(commit.GameID, commit.GameVersion); err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	if _, exists := l.entryByUser(commit.GameID, commit.Entry.UserID); exists {
		return survivor.Game{}, survivor.Entry{}, survivor.ErrAlreadyJoined
	}
	payer, ok := l.users[commit.Entry.UserID]
	if !ok {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("user not found: %s", commit.Entry.UserID)
	}
	if !payer.CanAfford(commit.Price) {
		return survivor.Game{}, survivor.Entry{}, survivor.ErrBalanceTooLow
	}

	entry := commit.Entry.Clone()
	entry.GameID = commit.GameID
	entry.PlayerNumber = len(l.gameEntries(commit.GameID)) + 1
	entry.Version = 1

	game := l.games[commit.GameID]
	game.Pot += commit.Price
	game.Version++
	payer.Tokens -= commit.Price

	l.users[payer.ID] = payer
	l.games[game.ID] = game
	l.entries[entry.ID] = entry
	return game, entry.Clone(), nil
}

func (r *GameRepository) Resurrect(_ context.Context, commit survivor.ResurrectionCommit) (survivor.Game, survivor.Entry, error) {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.checkGame(commit.GameID, commit.GameVersion); err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	if err := l.checkEntry(commit.Entry.ID, commit.Entry.Version); err != nil {
		return survivor.Game{}, survivor.Entry{}, err
	}
	payer, ok := l.users[commit.PayerUserID]
	if !ok {
		return survivor.Game{}, survivor.Entry{}, fmt.Errorf("user not found: %s", commit.PayerUserID)
	}
	if !payer.CanAfford(commit.Fee) {
		return survivor.Game{}, survivor.Entry{}, survivor.ErrBalanceTooLow
	}

	entry := commit.Entry.Clone()
	entry.Version++

	game := l.games[commit.GameID]
	game.Pot += commit.Fee
	game.Version++
	payer.Tokens -= commit.Fee

	l.users[payer.ID] = payer
	l.games[game.ID] = game
	l.entries[entry.ID] = entry
	return game, entry.Clone(), nil
}

func (r *GameRepository) SaveSettlement(_ context.Context, settlement survivor.Settlement) error {
	l := r.ledger
	l.mu.Lock()
	defer l.mu.Unlock()

	if settlement.Game != nil {
		if err := l.checkGame(settlement.Game.ID, settlement.Game.Version); err != nil {
			return err
		}
	}
	for _, entry := range settlement.Entries {
		if err := l.checkEntry(entry.ID, entry.Version); err != nil {
			return err
		}
	}
	if settlement.Payout != nil {
		if _, ok := l.users[settlement.Payout.UserID]; !ok {
			return fmt.Errorf("user not found: %s", settlement.Payout.UserID)
		}
	}

	if settlement.Game != nil {
		game := *settlement.Game
		game.Version++
		l.games[game.ID] = game
	}
	for _, entry := range settlement.Entries {
		stored := entry.Clone()
		stored.Version++
		l.entries[stored.ID] = stored
	}
	if settlement.Payout != nil {
		winner := l.users[settlement.Payout.UserID]
		winner.Tokens += settlement.Payout.Amount
		l.users[winner.ID] = winner
	}
	return nil
}

func (l *Ledger) checkGame(gameID string, version int64) error {
	stored, ok := l.games[gameID]
	if !ok {
		return fmt.Errorf("game not found: %s", gameID)
	}
	if stored.Version != version {
		return fmt.Errorf("%w: game=%s stored=%d got=%d", survivor.ErrStaleGame, gameID, stored.Version, version)
	}
	return nil
}

func (l *Ledger) checkEntry(entryID string, version int64) error {
	stored, ok := l.entries[entryID]
	if !ok {
		return fmt.Errorf("entry not found: %s", entryID)
	}
	if stored.Version != version {
		return fmt.Errorf("%w: entry=%s stored=%d got=%d", survivor.ErrStaleEntry, entryID, stored.Version, version)
	}
	return nil
}

func (l *Ledger) entryByUser(gameID, userID string) (survivor.Entry, bool) {
	for _, item := range l.entries {
		if item.GameID == gameID && item.UserID == userID {
			return item, true
		}
	}
	return survivor.Entry{}, false
}

func (l *Ledger) gameEntries(gameID string) []survivor.Entry {
	out := make([]survivor.Entry, 0)
	for _, item := range l.entries {
		if item.GameID == gameID {
			out = append(out, item.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerNumber < out[j].PlayerNumber })
	return out
}
