package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brunobenavent/api-futbol/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	matches map[string]match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	byID := make(map[string]match.Match, len(matches))
	for _, item := range matches {
		byID[item.ID] = cloneMatch(item)
	}

	return &MatchRepository{matches: byID}
}

func (r *MatchRepository) ListBySeasonAndRound(_ context.Context, seasonID string, round int) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return m.SeasonID == seasonID && m.Round == round }), nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, seasonID string) ([]match.Match, error) {
	return r.filter(func(m match.Match) bool { return m.SeasonID == seasonID }), nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.matches[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(item), true, nil
}

func (r *MatchRepository) UpsertMany(_ context.Context, items []match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.ID == "" {
			continue
		}
		r.matches[item.ID] = cloneMatch(item)
	}
	return nil
}

func (r *MatchRepository) filter(keep func(match.Match) bool) []match.Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, item := range r.matches {
		if keep(item) {
			out = append(out, cloneMatch(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func cloneMatch(item match.Match) match.Match {
	copied := item
	if item.KickoffAt != nil {
		kickoff := *item.KickoffAt
		copied.KickoffAt = &kickoff
	}
	if item.HomeScore != nil {
		score := *item.HomeScore
		copied.HomeScore = &score
	}
	if item.AwayScore != nil {
		score := *item.AwayScore
		copied.AwayScore = &score
	}
	return copied
}
