// Package schedule decides which round of a season is open for picks.
package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
)

// Resolver returns the configured round for a season when one is set, otherwise
// derives it from the stored fixtures.
type Resolver struct {
	matches   match.Repository
	overrides map[string]int
}

func NewResolver(matches match.Repository, overrides map[string]int) *Resolver {
	copied := make(map[string]int, len(overrides))
	for seasonID, round := range overrides {
		seasonID = strings.TrimSpace(seasonID)
		if seasonID == "" || round <= 0 {
			continue
		}
		copied[seasonID] = round
	}
	return &Resolver{
		matches:   matches,
		overrides: copied,
	}
}

func (r *Resolver) ActiveRound(ctx context.Context, seasonID string) (int, error) {
	if round, ok := r.overrides[seasonID]; ok {
		return round, nil
	}

	items, err := r.matches.ListBySeason(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("list season matches: %w", err)
	}
	return activeRound(items), nil
}

// activeRound prefers the lowest round with a live match, then the lowest round
// with anything still to be played, then the last known round.
func activeRound(items []match.Match) int {
	liveMin := 0
	pendingMin := 0
	lastKnown := 0

	for _, item := range items {
		if item.Round <= 0 {
			continue
		}
		if item.Round > lastKnown {
			lastKnown = item.Round
		}

		switch item.Status {
		case match.StatusLive:
			if liveMin == 0 || item.Round < liveMin {
				liveMin = item.Round
			}
		case match.StatusScheduled:
			if pendingMin == 0 || item.Round < pendingMin {
				pendingMin = item.Round
			}
		}
	}

	if liveMin > 0 {
		return liveMin
	}
	if pendingMin > 0 {
		return pendingMin
	}
	if lastKnown > 0 {
		return lastKnown
	}
	return 1
}
