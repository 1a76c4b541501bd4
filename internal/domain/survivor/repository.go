package survivor

import "context"

// JoinCommit enrolls Entry.UserID in a game. The store assigns PlayerNumber,
// debits Price from the user and credits it to the pot in one transaction.
type JoinCommit struct {
	GameID      string
	GameVersion int64
	Entry       Entry
	Price       int64
}

// ResurrectionCommit revives Entry. Fee is debited from PayerUserID and credited to the pot.
type ResurrectionCommit struct {
	GameID      string
	GameVersion int64
	Entry       Entry
	PayerUserID string
	Fee         int64
}

// Payout credits the pot to the winner's token balance.
type Payout struct {
	UserID string
	Amount int64
}

// Settlement persists one evaluation call. Game is nil when only entries changed.
type Settlement struct {
	Game    *Game
	Entries []Entry
	Payout  *Payout
}

// Repository persists games and entries. Every write is a compare-and-swap on Version
// and fails with ErrVersionConflict when the stored row moved on.
type Repository interface {
	CreateGame(ctx context.Context, game Game) (Game, error)
	GetGame(ctx context.Context, gameID string) (Game, bool, error)
	// ListGames returns all games when status is empty.
	ListGames(ctx context.Context, status GameStatus) ([]Game, error)
	UpdateGame(ctx context.Context, game Game) (Game, error)

	GetEntry(ctx context.Context, entryID string) (Entry, bool, error)
	GetEntryByUser(ctx context.Context, gameID, userID string) (Entry, bool, error)
	// ListEntries returns the game's entries ordered by player number.
	ListEntries(ctx context.Context, gameID string) ([]Entry, error)
	UpdateEntry(ctx context.Context, entry Entry) (Entry, error)

	Join(ctx context.Context, commit JoinCommit) (Game, Entry, error)
	Resurrect(ctx context.Context, commit ResurrectionCommit) (Game, Entry, error)
	SaveSettlement(ctx context.Context, settlement Settlement) error
}
