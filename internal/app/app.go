package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/brunobenavent/api-futbol/external/resultsfeed"
	"github.com/brunobenavent/api-futbol/internal/config"
	"github.com/brunobenavent/api-futbol/internal/domain/survivor"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/account/introspection"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/schedule"
	"github.com/brunobenavent/api-futbol/internal/interfaces/httpapi"
	idgen "github.com/brunobenavent/api-futbol/internal/platform/id"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/brunobenavent/api-futbol/internal/platform/resilience"
	"github.com/brunobenavent/api-futbol/internal/usecase"
)

// NewHTTPServer builds the whole service graph. The returned cleanup releases storage.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	rules := survivor.Rules{
		MinPlayersToStart: cfg.SurvivorMinPlayers,
		PickDeadlineLead:  cfg.SurvivorPickDeadlineLead,
		ResurrectionFee:   cfg.SurvivorResurrectionFee,
	}
	if err := rules.Validate(); err != nil {
		return nil, nil, fmt.Errorf("survivor rules: %w", err)
	}

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	rounds := schedule.NewResolver(repos.matches, cfg.SurvivorActiveRounds)
	locks := resilience.NewKeyedMutex()

	matchService := usecase.NewMatchService(repos.matches, repos.seasons, logger)
	matchSyncService, err := newMatchSyncService(cfg, rounds, matchService, logger)
	if err != nil {
		_ = repos.close()
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		usecase.NewReferenceService(repos.teams, repos.seasons),
		matchService,
		usecase.NewGameService(repos.games, repos.seasons, repos.matches, repos.users, rounds, locks, rules, idgen.NewPrefixedGenerator("game_"), logger),
		usecase.NewPickService(repos.games, repos.teams, repos.matches, rules, logger),
		usecase.NewEvaluationService(repos.games, repos.seasons, repos.matches, locks, cfg.JobEvaluateWorkers, logger),
		matchSyncService,
		usecase.NewTokenService(repos.users, logger),
		logger,
	)

	router := httpapi.NewRouter(handler, newTokenVerifier(cfg, repos, logger), logger, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.close, nil
}

func newTokenVerifier(cfg config.Config, repos repositories, logger *logging.Logger) httpapi.TokenVerifier {
	if cfg.AccountsBaseURL == "" {
		logger.Warn("accounts service not configured, accepting local tokens", "env", cfg.AppEnv)
		return introspection.NewLocalVerifier(repos.users)
	}

	return introspection.NewClient(introspection.ClientConfig{
		BaseURL:        cfg.AccountsBaseURL,
		IntrospectPath: cfg.AccountsIntrospectPath,
		AdminKey:       cfg.AccountsAdminKey,
		Timeout:        cfg.AccountsTimeout,
		CacheTTL:       cfg.AccountsCacheTTL,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
		Logger:         logger,
	})
}

// newMatchSyncService returns nil when the results feed is disabled; the sync job then answers 503.
func newMatchSyncService(cfg config.Config, rounds usecase.ActiveRoundResolver, matches *usecase.MatchService, logger *logging.Logger) (*usecase.MatchSyncService, error) {
	if !cfg.ResultsFeedEnabled {
		logger.Info("results feed disabled", "reason", "RESULTS_FEED_ENABLED=false")
		return nil, nil
	}

	feed, err := resultsfeed.NewClient(resultsfeed.ClientConfig{
		BaseURL: cfg.ResultsFeedBaseURL,
		Token:   cfg.ResultsFeedToken,
		Timeout: cfg.ResultsFeedTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.ResultsFeedCircuitEnabled,
			FailureThreshold: cfg.ResultsFeedCircuitFailureCount,
			OpenTimeout:      cfg.ResultsFeedCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ResultsFeedCircuitHalfOpenMaxReq,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("results feed client: %w", err)
	}

	logger.Info("results feed enabled", "seasons", cfg.ResultsFeedSeasons)
	return usecase.NewMatchSyncService(feed, rounds, matches, cfg.ResultsFeedSeasons, 0, logger), nil
}
