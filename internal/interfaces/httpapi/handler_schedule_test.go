package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
	"github.com/riskibarqy/mlb-schedule/internal/domain/team"
	oddsmock "github.com/riskibarqy/mlb-schedule/internal/mocks/domain/odds"
	schedulemock "github.com/riskibarqy/mlb-schedule/internal/mocks/domain/schedule"
	"github.com/riskibarqy/mlb-schedule/internal/platform/logging"
	"github.com/riskibarqy/mlb-schedule/internal/reconcile"
	"github.com/riskibarqy/mlb-schedule/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, schedules schedule.Provider, oddsProvider odds.Provider) http.Handler {
	t.Helper()

	catalog := team.NewStaticCatalog()
	cfg := usecase.ScheduleServiceConfig{
		Schedules: schedules,
		Indexer:   reconcile.NewIndexer(odds.SourceSelector{}, time.UTC, catalog),
		Merger:    reconcile.NewMerger(time.UTC),
		Timeout:   time.Second,
		Logger:    logging.NewNop(),
	}
	if oddsProvider != nil {
		cfg.Odds = oddsProvider
	}

	handler := NewHandler(usecase.NewScheduleService(cfg), usecase.NewTeamService(catalog), logging.NewNop())
	return NewRouter(handler, RouterConfig{Logger: logging.NewNop()})
}

func tigersTwinsSchedule() []schedule.SourceDay {
	return []schedule.SourceDay{{
		Date: "2024-05-01",
		Games: []schedule.SourceGame{{
			GamePK:       745804,
			Link:         "/api/v1.1/game/745804/feed/live",
			GameDate:     "2024-05-01T17:10:00Z",
			OfficialDate: "2024-05-01",
			Status:       schedule.SourceStatus{DetailedState: "Scheduled"},
			Teams: schedule.SourceTeams{
				Home: schedule.SourceSide{Team: map[string]any{"id": float64(116), "name": "Detroit Tigers", "link": "/api/v1/teams/116"}},
				Away: schedule.SourceSide{Team: map[string]any{"id": float64(142), "name": "Minnesota Twins", "link": "/api/v1/teams/142"}},
			},
			Venue: schedule.SourceVenue{ID: 2394, Name: "Comerica Park", Link: "/api/v1/venues/2394"},
		}},
	}}
}

func tigersTwinsRecords() []odds.Record {
	return []odds.Record{{
		HomeTeam:     "Detroit Tigers",
		AwayTeam:     "Minnesota Twins",
		CommenceTime: "2024-05-01T17:10:00Z",
		Bookmakers: []odds.Bookmaker{{
			Key: "draftkings",
			Markets: []odds.Market{{
				Key: "h2h",
				Outcomes: []odds.RawOutcome{
					{Name: "Detroit Tigers", Price: 150},
					{Name: "Minnesota Twins", Price: -170},
				},
			}},
		}},
	}}
}

func TestGetSchedule_Validation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "missing start", query: "endDate=2024-05-01", want: msgStartDateRequired},
		{name: "missing both", query: "", want: msgStartDateRequired},
		{name: "missing end", query: "startDate=2024-05-01", want: msgEndDateRequired},
		{name: "missing end beats bad start format", query: "startDate=05-01-2024", want: msgEndDateRequired},
		{name: "bad start format", query: "startDate=2024-5-1&endDate=2024-05-01", want: msgStartDateInvalid},
		{name: "impossible start date", query: "startDate=2024-02-30&endDate=2024-03-01", want: msgStartDateInvalid},
		{name: "bad end format", query: "startDate=2024-05-01&endDate=20240502", want: msgEndDateInvalid},
		{name: "start format before end format", query: "startDate=x&endDate=y", want: msgStartDateInvalid},
		{name: "end before start", query: "startDate=2024-05-10&endDate=2024-05-01", want: msgDateRange},
		{name: "range beats include odds", query: "startDate=2024-05-10&endDate=2024-05-01&includeOdds=yes", want: msgDateRange},
		{name: "include odds not boolean", query: "startDate=2024-05-01&endDate=2024-05-01&includeOdds=TRUE", want: msgIncludeOdds},
		{name: "include odds numeric", query: "startDate=2024-05-01&endDate=2024-05-01&includeOdds=1", want: msgIncludeOdds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, schedulemock.NewProvider(t), nil)

			req := httptest.NewRequest(http.MethodGet, "/schedule?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
			}
			body := decodeErrorBody(t, rec.Body.Bytes())
			if body.Message != tt.want {
				t.Fatalf("unexpected message %q want %q", body.Message, tt.want)
			}
		})
	}
}

func TestGetSchedule_MergesOdds(t *testing.T) {
	schedules := schedulemock.NewProvider(t)
	oddsProvider := oddsmock.NewProvider(t)
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	schedules.On("FetchSchedule", mock.Anything, day, day).Return(tigersTwinsSchedule(), nil).Once()
	oddsProvider.On("FetchOdds", mock.Anything).Return(tigersTwinsRecords(), nil).Once()

	router := newTestRouter(t, schedules, oddsProvider)
	req := httptest.NewRequest(http.MethodGet, "/schedule?startDate=2024-05-01&endDate=2024-05-01&includeOdds=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.True(t, strings.HasPrefix(rec.Body.String(), "["), "expected a top-level array, got %s", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "apiVersion")

	var days []schedule.Day
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &days))
	require.Len(t, days, 1)
	require.Len(t, days[0].Games, 1)

	game := days[0].Games[0]
	require.NotNil(t, game.Odds)
	assert.Equal(t, [2]odds.Outcome{
		{Name: "Detroit Tigers", Price: "+150"},
		{Name: "Minnesota Twins", Price: "-170"},
	}, *game.Odds)
	assert.NotContains(t, rec.Body.String(), `"link"`)
	assert.NotContains(t, rec.Body.String(), "gamePk")
}

func TestGetSchedule_IncludeOddsFalseSkipsOddsProvider(t *testing.T) {
	schedules := schedulemock.NewProvider(t)
	oddsProvider := oddsmock.NewProvider(t)
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	schedules.On("FetchSchedule", mock.Anything, day, day).Return(tigersTwinsSchedule(), nil).Times(3)

	router := newTestRouter(t, schedules, oddsProvider)
	for _, query := range []string{"includeOdds=false", "includeOdds=", ""} {
		req := httptest.NewRequest(http.MethodGet, "/v1/schedule?startDate=2024-05-01&endDate=2024-05-01&"+query, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "query=%s body=%s", query, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), `"odds"`)
	}
	oddsProvider.AssertNotCalled(t, "FetchOdds", mock.Anything)
}

func TestGetSchedule_IncludeOddsWithoutOddsProvider(t *testing.T) {
	schedules := schedulemock.NewProvider(t)

	router := newTestRouter(t, schedules, nil)
	req := httptest.NewRequest(http.MethodGet, "/schedule?startDate=2024-05-01&endDate=2024-05-01&includeOdds=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code, rec.Body.String())
	body := decodeErrorBody(t, rec.Body.Bytes())
	assert.Equal(t, "UNAVAILABLE", body.Status)
	schedules.AssertNotCalled(t, "FetchSchedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSchedule_EmptyRangeReturnsEmptyList(t *testing.T) {
	schedules := schedulemock.NewProvider(t)
	day := time.Date(2024, time.December, 24, 0, 0, 0, 0, time.UTC)
	schedules.On("FetchSchedule", mock.Anything, day, day).Return(nil, nil).Once()

	router := newTestRouter(t, schedules, nil)
	req := httptest.NewRequest(http.MethodGet, "/schedule?startDate=2024-12-24&endDate=2024-12-24", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetSchedule_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "provider failure", err: fmt.Errorf("%w: provider status=500", usecase.ErrUpstream), wantStatus: http.StatusBadGateway, wantCode: "BAD_GATEWAY"},
		{name: "circuit open", err: fmt.Errorf("%w: open", usecase.ErrDependencyUnavailable), wantStatus: http.StatusServiceUnavailable, wantCode: "UNAVAILABLE"},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantCode: "DEADLINE_EXCEEDED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedules := schedulemock.NewProvider(t)
			schedules.On("FetchSchedule", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			router := newTestRouter(t, schedules, nil)
			req := httptest.NewRequest(http.MethodGet, "/schedule?startDate=2024-05-01&endDate=2024-05-02", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decodeErrorBody(t, rec.Body.Bytes())
			assert.Equal(t, tt.wantCode, body.Status)
			assert.NotContains(t, body.Message, "status=500")
		})
	}
}

func TestIsCalendarDate(t *testing.T) {
	tests := map[string]bool{
		"2024-05-01": true,
		"2024-02-29": true,
		"2023-02-29": false,
		"2024-13-01": false,
		"2024-5-01":  false,
		"+024-05-01": false,
		"2024-05-1 ": false,
		"":           false,
	}
	for in, want := range tests {
		if got := isCalendarDate(in); got != want {
			t.Fatalf("isCalendarDate(%q)=%v want=%v", in, got, want)
		}
	}
}
