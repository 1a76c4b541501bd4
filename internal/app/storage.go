package app

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/config"
	"github.com/brunobenavent/api-futbol/internal/domain/match"
	"github.com/brunobenavent/api-futbol/internal/domain/season"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/domain/team"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	repocache "github.com/brunobenavent/api-futbol/internal/infrastructure/repository/cache"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/memory"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/postgres"
	"github.com/brunobenavent/api-futbol/internal/platform/cache"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
)

type repositories struct {
	teams   team.Repository
	seasons season.Repository
	matches match.Repository
	users   user.Repository
	games   survivor.Repository
	close   func() error
}

func openRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	var (
		repos repositories
		err   error
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		repos, err = openPostgresRepositories(ctx, cfg, logger)
	default:
		repos = openMemoryRepositories()
	}
	if err != nil {
		return repositories{}, err
	}
	logger.Info("storage ready", "driver", cfg.StorageDriver, "cache_enabled", cfg.CacheEnabled)

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.teams = repocache.NewTeamRepository(repos.teams, store)
		repos.seasons = repocache.NewSeasonRepository(repos.seasons, store)
	}
	return repos, nil
}

func openMemoryRepositories() repositories {
	ledger := memory.NewLedger(memory.SeedUsers())
	return repositories{
		teams:   memory.NewTeamRepository(memory.SeedTeams()),
		seasons: memory.NewSeasonRepository(memory.SeedSeasons()),
		matches: memory.NewMatchRepository(nil),
		users:   ledger.Users(),
		games:   ledger.Games(),
		close:   func() error { return nil },
	}
}

func openPostgresRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return repositories{}, err
	}

	if cfg.AppEnv == config.EnvDev {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	return repositories{
		teams:   postgres.NewTeamRepository(db),
		seasons: postgres.NewSeasonRepository(db),
		matches: postgres.NewMatchRepository(db),
		users:   postgres.NewUserRepository(db),
		games:   postgres.NewGameRepository(db),
		close:   db.Close,
	}, nil
}
