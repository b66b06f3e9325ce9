package reconcile

import (
	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
)

func oddsRecord(commence string, first, second odds.RawOutcome) odds.Record {
	return odds.Record{
		HomeTeam:     first.Name,
		AwayTeam:     second.Name,
		CommenceTime: commence,
		Bookmakers: []odds.Bookmaker{
			{
				Key: "draftkings",
				Markets: []odds.Market{
					{Key: "h2h", Outcomes: []odds.RawOutcome{first, second}},
				},
			},
		},
	}
}

func sourceGame(home, away, gameDate, doubleHeader string) schedule.SourceGame {
	return schedule.SourceGame{
		GamePK:       745000,
		Link:         "/api/v1.1/game/745000/feed/live",
		GameType:     "R",
		Season:       "2024",
		GameDate:     gameDate,
		OfficialDate: gameDate[:10],
		Status: schedule.SourceStatus{
			AbstractGameState: "Preview",
			DetailedState:     "Scheduled",
			StatusCode:        "S",
		},
		Teams: schedule.SourceTeams{
			Home: schedule.SourceSide{
				Team:            map[string]any{"id": float64(116), "name": home, "link": "/api/v1/teams/116"},
				ProbablePitcher: map[string]any{"id": float64(669373), "fullName": "Tarik Skubal", "link": "/api/v1/people/669373"},
				LeagueRecord:    map[string]any{"wins": float64(17), "losses": float64(13)},
				SeriesNumber:    10,
			},
			Away: schedule.SourceSide{
				Team:         map[string]any{"id": float64(142), "name": away, "link": "/api/v1/teams/142"},
				LeagueRecord: map[string]any{"wins": float64(16), "losses": float64(13)},
				SeriesNumber: 10,
			},
		},
		Venue: schedule.SourceVenue{
			ID:   2394,
			Name: "Comerica Park",
			Link: "/api/v1/venues/2394",
		},
		DoubleHeader: doubleHeader,
		GameNumber:   1,
		DayNight:     "day",
	}
}
