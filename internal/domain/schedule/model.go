package schedule

import (
	"strings"

	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
)

const DoubleHeaderYes = "Y"

// Day is one calendar date of the merged schedule.
type Day struct {
	Date  string `json:"date"`
	Games []Game `json:"games"`
}

// Game is the canonical game shape returned to clients.
type Game struct {
	GameDate     string           `json:"gameDate"`
	OfficialDate string           `json:"officialDate"`
	Status       Status           `json:"status"`
	Teams        Teams            `json:"teams"`
	Venue        Venue            `json:"venue"`
	DoubleHeader string           `json:"doubleHeader,omitempty"`
	Odds         *[2]odds.Outcome `json:"odds,omitempty"`
}

type Status struct {
	DetailedState string `json:"detailedState,omitempty"`
}

type Teams struct {
	Home Side `json:"home"`
	Away Side `json:"away"`
}

// Side keeps the provider's team and probable pitcher objects as-is.
type Side struct {
	Team            map[string]any `json:"team,omitempty"`
	ProbablePitcher map[string]any `json:"probablePitcher,omitempty"`
}

type Venue struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

func (s Side) TeamName() string {
	name, _ := s.Team["name"].(string)
	return strings.TrimSpace(name)
}

// SourceDay is a schedule date as the schedule provider reports it.
type SourceDay struct {
	Date  string
	Games []SourceGame
}

// SourceGame carries every provider field the service reads, plus the
// extras that projection drops.
type SourceGame struct {
	GamePK       int64
	Link         string
	GameType     string
	Season       string
	GameDate     string
	OfficialDate string
	Status       SourceStatus
	Teams        SourceTeams
	Venue        SourceVenue
	DoubleHeader string
	GameNumber   int
	DayNight     string
}

type SourceStatus struct {
	AbstractGameState string
	CodedGameState    string
	DetailedState     string
	StatusCode        string
}

type SourceTeams struct {
	Home SourceSide
	Away SourceSide
}

type SourceSide struct {
	Team            map[string]any
	ProbablePitcher map[string]any
	LeagueRecord    map[string]any
	Score           *int
	IsWinner        *bool
	SeriesNumber    int
}

type SourceVenue struct {
	ID   int64
	Name string
	Link string
}
