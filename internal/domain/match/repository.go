package match

import "context"

// Repository is the match store. Ingestion writes, everything else reads.
type Repository interface {
	ListBySeasonAndRound(ctx context.Context, seasonID string, round int) ([]Match, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	UpsertMany(ctx context.Context, items []Match) error
}
