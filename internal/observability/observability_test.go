package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riskibarqy/mlb-schedule/internal/config"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/reconcile"
)

func TestMetrics_RecordsReconcileAndUpstream(t *testing.T) {
	m := NewMetrics()

	m.ObserveUpstream("schedule", 120*time.Millisecond, nil)
	m.ObserveUpstream("odds", time.Second, errors.New("boom"))
	m.ObserveIndex(reconcile.IndexStats{Records: 5, Indexed: 4, Skipped: 1, Overflow: 2, UnknownTeams: 1})
	m.ObserveMerge(reconcile.MergeStats{Games: 6, Single: 2, Paired: 2, Mismatched: 1, Unresolved: 2})
	m.ObserveHTTP(http.MethodGet, "/schedule", http.StatusOK, 50*time.Millisecond)

	if got := testutil.ToFloat64(m.upstreamRequests.WithLabelValues("odds", "error")); got != 1 {
		t.Fatalf("unexpected odds error count: %v", got)
	}
	if got := testutil.ToFloat64(m.oddsRecords.WithLabelValues("indexed")); got != 4 {
		t.Fatalf("unexpected indexed count: %v", got)
	}
	if got := testutil.ToFloat64(m.oddsOverflow); got != 2 {
		t.Fatalf("unexpected overflow count: %v", got)
	}
	if got := testutil.ToFloat64(m.mergedGames.WithLabelValues("none")); got != 1 {
		t.Fatalf("unexpected unresolved count: %v", got)
	}
	if got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/schedule", "200")); got != 1 {
		t.Fatalf("unexpected http count: %v", got)
	}
}

func TestMetrics_HandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.ObserveUpstream("schedule", time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `mlb_schedule_upstream_requests_total{outcome="success",provider="schedule"} 1`) {
		t.Fatalf("missing upstream counter in exposition:\n%s", rec.Body.String())
	}
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveHTTP(http.MethodGet, "/schedule", http.StatusOK, time.Millisecond)
	m.ObserveUpstream("odds", time.Millisecond, nil)
	m.ObserveIndex(reconcile.IndexStats{})
	m.ObserveMerge(reconcile.MergeStats{})
}

func TestStartPprofServer_Disabled(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatalf("expected nil server when pprof is disabled")
	}
	if err := StopPprofServer(srv, nil, time.Second); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestInitPyroscope_Disabled(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, nil)
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop pyroscope: %v", err)
	}
}

func TestPyroscopeConfig_Tags(t *testing.T) {
	cfg := pyroscopeConfig(config.Config{
		AppEnv:           config.EnvStage,
		ServiceName:      "mlb-schedule-api",
		ServiceVersion:   "1.2.3",
		PyroscopeAppName: "mlb-schedule-api",
	})
	if cfg.Tags["env"] != config.EnvStage || cfg.Tags["version"] != "1.2.3" {
		t.Fatalf("unexpected tags: %v", cfg.Tags)
	}
	if len(cfg.ProfileTypes) == 0 {
		t.Fatalf("expected profile types")
	}
}
