package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brunobenavent/api-futbol/internal/config"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
)

func TestInitUptrace_Disabled(t *testing.T) {
	cfg := config.Config{
		UptraceEnabled: false,
		ServiceName:    "api-futbol",
		ServiceVersion: "dev",
		AppEnv:         config.EnvDev,
	}

	shutdown, err := InitUptrace(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitUptrace_EnabledWithoutDSNIsNoop(t *testing.T) {
	cfg := config.Config{UptraceEnabled: true, ServiceName: "api-futbol"}

	shutdown, err := InitUptrace(cfg, nil)
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown uptrace: %v", err)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected no pprof server when disabled")
	}
	if err := StopPprofServer(srv, nil, 0); err != nil {
		t.Fatalf("stop nil pprof server: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	newPprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestSurvivorResourceAttributes(t *testing.T) {
	cfg := config.Config{StorageDriver: config.StoragePostgres, ResultsFeedEnabled: true, SurvivorMinPlayers: 20}

	got := map[string]string{}
	for _, kv := range survivorResourceAttributes(cfg) {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	if got["app.storage_driver"] != "postgres" || got["app.results_feed_enabled"] != "true" || got["app.survivor_min_players"] != "20" {
		t.Fatalf("unexpected resource attributes: %v", got)
	}
}

func TestProfileTypesByEnvironment(t *testing.T) {
	if got := len(profileTypes(config.EnvDev)); got != 3 {
		t.Fatalf("dev profile types=%d want=3", got)
	}
	if got := len(profileTypes(config.EnvProd)); got != 5 {
		t.Fatalf("prod profile types=%d want=5", got)
	}
	if tags := profileTags(config.Config{StorageDriver: config.StorageMemory}); tags["storage"] != "memory" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
