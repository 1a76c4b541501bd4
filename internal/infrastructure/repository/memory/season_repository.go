package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brunobenavent/api-futbol/internal/domain/season"
)

type SeasonRepository struct {
	mu      sync.RWMutex
	seasons map[string]season.Season
}

func NewSeasonRepository(seasons []season.Season) *SeasonRepository {
	byID := make(map[string]season.Season, len(seasons))
	for _, item := range seasons {
		byID[item.ID] = cloneSeason(item)
	}

	return &SeasonRepository{seasons: byID}
}

func (r *SeasonRepository) List(_ context.Context) ([]season.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]season.Season, 0, len(r.seasons))
	for _, item := range r.seasons {
		out = append(out, cloneSeason(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })

	return out, nil
}

func (r *SeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.seasons[seasonID]
	if !ok {
		return season.Season{}, false, nil
	}
	return cloneSeason(item), true, nil
}

func (r *SeasonRepository) GetByYear(_ context.Context, year int) (season.Season, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasons {
		if item.Year == year {
			return cloneSeason(item), true, nil
		}
	}
	return season.Season{}, false, nil
}

func cloneSeason(item season.Season) season.Season {
	copied := item
	copied.TeamIDs = append([]string(nil), item.TeamIDs...)
	return copied
}
