package mlbstats

import "github.com/riskibarqy/mlb-schedule/internal/domain/schedule"

type scheduleEnvelope struct {
	TotalGames int        `json:"totalGames"`
	Dates      []dateItem `json:"dates"`
}

type dateItem struct {
	Date       string     `json:"date"`
	TotalGames int        `json:"totalGames"`
	Games      []gameItem `json:"games"`
}

type gameItem struct {
	GamePK       int64      `json:"gamePk"`
	Link         string     `json:"link"`
	GameType     string     `json:"gameType"`
	Season       string     `json:"season"`
	GameDate     string     `json:"gameDate"`
	OfficialDate string     `json:"officialDate"`
	Status       statusItem `json:"status"`
	Teams        teamsItem  `json:"teams"`
	Venue        venueItem  `json:"venue"`
	DoubleHeader string     `json:"doubleHeader"`
	GameNumber   int        `json:"gameNumber"`
	DayNight     string     `json:"dayNight"`
}

type statusItem struct {
	AbstractGameState string `json:"abstractGameState"`
	CodedGameState    string `json:"codedGameState"`
	DetailedState     string `json:"detailedState"`
	StatusCode        string `json:"statusCode"`
}

type teamsItem struct {
	Home sideItem `json:"home"`
	Away sideItem `json:"away"`
}

type sideItem struct {
	Team            map[string]any `json:"team"`
	ProbablePitcher map[string]any `json:"probablePitcher"`
	LeagueRecord    map[string]any `json:"leagueRecord"`
	Score           *int           `json:"score"`
	IsWinner        *bool          `json:"isWinner"`
	SeriesNumber    int            `json:"seriesNumber"`
}

type venueItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Link string `json:"link"`
}

func (e scheduleEnvelope) toDomain() []schedule.SourceDay {
	out := make([]schedule.SourceDay, 0, len(e.Dates))
	for _, d := range e.Dates {
		games := make([]schedule.SourceGame, 0, len(d.Games))
		for _, g := range d.Games {
			games = append(games, g.toDomain())
		}
		out = append(out, schedule.SourceDay{Date: d.Date, Games: games})
	}
	return out
}

func (g gameItem) toDomain() schedule.SourceGame {
	return schedule.SourceGame{
		GamePK:       g.GamePK,
		Link:         g.Link,
		GameType:     g.GameType,
		Season:       g.Season,
		GameDate:     g.GameDate,
		OfficialDate: g.OfficialDate,
		Status: schedule.SourceStatus{
			AbstractGameState: g.Status.AbstractGameState,
			CodedGameState:    g.Status.CodedGameState,
			DetailedState:     g.Status.DetailedState,
			StatusCode:        g.Status.StatusCode,
		},
		Teams: schedule.SourceTeams{
			Home: g.Teams.Home.toDomain(),
			Away: g.Teams.Away.toDomain(),
		},
		Venue: schedule.SourceVenue{
			ID:   g.Venue.ID,
			Name: g.Venue.Name,
			Link: g.Venue.Link,
		},
		DoubleHeader: g.DoubleHeader,
		GameNumber:   g.GameNumber,
		DayNight:     g.DayNight,
	}
}

func (s sideItem) toDomain() schedule.SourceSide {
	return schedule.SourceSide{
		Team:            s.Team,
		ProbablePitcher: s.ProbablePitcher,
		LeagueRecord:    s.LeagueRecord,
		Score:           s.Score,
		IsWinner:        s.IsWinner,
		SeriesNumber:    s.SeriesNumber,
	}
}
