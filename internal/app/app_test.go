package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brunobenavent/api-futbol/internal/config"
	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/infrastructure/repository/memory"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRepositories_MemoryWithCache(t *testing.T) {
	cfg := config.Config{StorageDriver: config.StorageMemory, CacheEnabled: true, CacheTTL: time.Minute}

	repos, err := openRepositories(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.close() })

	teams, err := repos.teams.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, teams, len(memory.SeedTeams()))

	current, ok, err := repos.seasons.GetByID(context.Background(), memory.SeasonIDLaLiga2025)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2025, current.Year)

	admin, ok, err := repos.users.GetByID(context.Background(), memory.UserIDAdmin)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.RoleAdmin, admin.Role)
}

func TestNewHTTPServer_MemoryDefaults(t *testing.T) {
	cfg := config.Config{
		AppEnv:                   config.EnvDev,
		ServiceName:              "api-futbol",
		HTTPAddr:                 ":0",
		StorageDriver:            config.StorageMemory,
		CORSAllowedOrigins:       []string{"*"},
		SurvivorMinPlayers:       20,
		SurvivorResurrectionFee:  10,
		SurvivorPickDeadlineLead: time.Hour,
		JobEvaluateWorkers:       2,
	}

	srv, cleanup, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync-matches", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewHTTPServer_RejectsInvalidRules(t *testing.T) {
	cfg := config.Config{HTTPAddr: ":0", StorageDriver: config.StorageMemory}

	_, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
