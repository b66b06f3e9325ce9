package mlbstats

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/platform/resilience"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oneDayPayload = `{
  "totalGames": 1,
  "dates": [{
    "date": "2024-05-01",
    "totalGames": 1,
    "games": [{
      "gamePk": 745804,
      "link": "/api/v1.1/game/745804/feed/live",
      "gameType": "R",
      "season": "2024",
      "gameDate": "2024-05-01T17:10:00Z",
      "officialDate": "2024-05-01",
      "status": {"abstractGameState": "Preview", "detailedState": "Scheduled", "statusCode": "S"},
      "teams": {
        "home": {
          "team": {"id": 116, "name": "Detroit Tigers", "link": "/api/v1/teams/116"},
          "probablePitcher": {"id": 669373, "fullName": "Tarik Skubal", "link": "/api/v1/people/669373"},
          "leagueRecord": {"wins": 17, "losses": 13},
          "seriesNumber": 10
        },
        "away": {
          "team": {"id": 142, "name": "Minnesota Twins", "link": "/api/v1/teams/142"},
          "seriesNumber": 10
        }
      },
      "venue": {"id": 2394, "name": "Comerica Park", "link": "/api/v1/venues/2394"},
      "doubleHeader": "N",
      "gameNumber": 1,
      "dayNight": "day"
    }]
  }]
}`

func newTestClient(t *testing.T, baseURL string, cfg ClientConfig) *Client {
	t.Helper()
	cfg.BaseURL = baseURL
	cfg.Logger = logging.NewNop()
	client := NewClient(cfg)
	client.backoff = func(int) time.Duration { return time.Millisecond }
	return client
}

func date(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, raw)
	require.NoError(t, err)
	return parsed
}

func TestClient_FetchScheduleDecodesDays(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/schedule/games/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oneDayPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	days, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.NoError(t, err)

	query := gotQuery.Load().(url.Values)
	assert.Equal(t, []string{"1"}, query["sportId"])
	assert.Equal(t, []string{"2024-05-01"}, query["startDate"])
	assert.Equal(t, []string{"2024-05-01"}, query["endDate"])
	assert.Equal(t, []string{"probablePitcher"}, query["hydrate"])

	require.Len(t, days, 1)
	require.Len(t, days[0].Games, 1)
	game := days[0].Games[0]
	assert.Equal(t, int64(745804), game.GamePK)
	assert.Equal(t, "2024-05-01T17:10:00Z", game.GameDate)
	assert.Equal(t, "Scheduled", game.Status.DetailedState)
	assert.Equal(t, "Detroit Tigers", game.Teams.Home.Team["name"])
	assert.Equal(t, "Tarik Skubal", game.Teams.Home.ProbablePitcher["fullName"])
	assert.Nil(t, game.Teams.Away.ProbablePitcher)
	assert.Equal(t, int64(2394), game.Venue.ID)
	assert.Equal(t, "N", game.DoubleHeader)
}

func TestClient_FetchScheduleSplitsLongRanges(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		start := r.URL.Query().Get("startDate")
		// Later windows answer first to prove reassembly keeps date order.
		if start == "2024-05-01" {
			time.Sleep(20 * time.Millisecond)
		}
		_, _ = w.Write([]byte(`{"dates":[{"date":"` + start + `","games":[]}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{WindowDays: 3, MaxWorkers: 4})
	days, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-07"))
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, days, 3)
	assert.Equal(t, "2024-05-01", days[0].Date)
	assert.Equal(t, "2024-05-04", days[1].Date)
	assert.Equal(t, "2024-05-07", days[2].Date)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(oneDayPayload))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{MaxRetries: 2})
	days, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.NoError(t, err)
	assert.Len(t, days, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NonRetryableStatusIsUpstreamError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{MaxRetries: 3})
	_, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrUpstream), "err=%v", err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedPayloadIsUpstreamError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"dates": "nope"`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{})
	_, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrUpstream), "err=%v", err)
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1},
	})

	_, err := client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.True(t, errors.Is(err, usecase.ErrUpstream), "err=%v", err)

	_, err = client.FetchSchedule(context.Background(), date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.True(t, errors.Is(err, usecase.ErrDependencyUnavailable), "err=%v", err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ContextCancellationStopsRetries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, ClientConfig{MaxRetries: 5})
	client.backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchSchedule(ctx, date(t, "2024-05-01"), date(t, "2024-05-01"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "err=%v", err)
}

func TestClient_SharedCallCancelledByLeaderIsUpstreamError(t *testing.T) {
	t.Parallel()

	arrived := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case arrived <- struct{}{}:
		default:
		}
		select {
		case <-r.Context().Done():
		case <-release:
			_, _ = w.Write([]byte(oneDayPayload))
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(t, server.URL, ClientConfig{})
	day := date(t, "2024-05-01")

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := client.FetchSchedule(leaderCtx, day, day)
		leaderDone <- err
	}()
	<-arrived

	followerDone := make(chan error, 1)
	go func() {
		_, err := client.FetchSchedule(context.Background(), day, day)
		followerDone <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancelLeader()

	require.ErrorIs(t, <-leaderDone, context.Canceled)
	err := <-followerDone
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrUpstream), "err=%v", err)
}

func TestClient_RejectsReversedRange(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := client.FetchSchedule(context.Background(), date(t, "2024-05-02"), date(t, "2024-05-01"))
	assert.True(t, errors.Is(err, usecase.ErrInvalidInput))
}

func TestSplitWindows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start string
		end   string
		size  int
		want  [][2]string
	}{
		{name: "single day", start: "2024-05-01", end: "2024-05-01", size: 31, want: [][2]string{{"2024-05-01", "2024-05-01"}}},
		{name: "exact fit", start: "2024-05-01", end: "2024-05-06", size: 3, want: [][2]string{{"2024-05-01", "2024-05-03"}, {"2024-05-04", "2024-05-06"}}},
		{name: "remainder", start: "2024-02-27", end: "2024-03-02", size: 2, want: [][2]string{{"2024-02-27", "2024-02-28"}, {"2024-02-29", "2024-03-01"}, {"2024-03-02", "2024-03-02"}}},
		{name: "no limit", start: "2024-01-01", end: "2024-12-31", size: 0, want: [][2]string{{"2024-01-01", "2024-12-31"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitWindows(date(t, tc.start), date(t, tc.end), tc.size)
			if len(got) != len(tc.want) {
				t.Fatalf("window count mismatch: got=%d want=%d", len(got), len(tc.want))
			}
			for i, w := range got {
				if w.start.Format(time.DateOnly) != tc.want[i][0] || w.end.Format(time.DateOnly) != tc.want[i][1] {
					t.Fatalf("window %d mismatch: got=%s..%s want=%s..%s", i, w.start.Format(time.DateOnly), w.end.Format(time.DateOnly), tc.want[i][0], tc.want[i][1])
				}
			}
		})
	}
}
