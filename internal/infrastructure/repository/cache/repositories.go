package cache

import (
	"context"
	"strconv"

	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
	basecache "github.com/brunobenavent/api-futbol/internal/platform/cache"
)

type lookup[T any] struct {
	value  T
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, "team:list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, "team:id:"+teamID, func(ctx context.Context) (lookup[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		if err != nil {
			return lookup[team.Team]{}, err
		}
		return lookup[team.Team]{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	items, err := basecache.Load(ctx, r.cache, "season:list", func(ctx context.Context) ([]season.Season, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]season.Season, 0, len(items))
		for _, item := range items {
			out = append(out, cloneSeason(item))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]season.Season, 0, len(items))
	for _, item := range items {
		out = append(out, cloneSeason(item))
	}
	return out, nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	return r.lookup(ctx, "season:id:"+seasonID, func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByID(ctx, seasonID)
	})
}

func (r *SeasonRepository) GetByYear(ctx context.Context, year int) (season.Season, bool, error) {
	return r.lookup(ctx, "season:year:"+strconv.Itoa(year), func(ctx context.Context) (season.Season, bool, error) {
		return r.next.GetByYear(ctx, year)
	})
}

func (r *SeasonRepository) lookup(ctx context.Context, key string, load func(context.Context) (season.Season, bool, error)) (season.Season, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (lookup[season.Season], error) {
		item, exists, err := load(ctx)
		if err != nil {
			return lookup[season.Season]{}, err
		}
		return lookup[season.Season]{value: cloneSeason(item), exists: exists}, nil
	})
	if err != nil {
		return season.Season{}, false, err
	}
	return cloneSeason(cached.value), cached.exists, nil
}

func cloneSeason(s season.Season) season.Season {
	s.TeamIDs = append([]string(nil), s.TeamIDs...)
	return s
}
