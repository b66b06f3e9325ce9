package reconcile

import (
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/schedule"
)

// LegacyLinkKey is the provider hyperlink field stripped from every response.
const LegacyLinkKey = "link"

type Merger struct {
	location *time.Location
	pruneKey string
}

// NewMerger keys game days in loc, which must match the Indexer's location.
func NewMerger(loc *time.Location) *Merger {
	if loc == nil {
		loc = time.UTC
	}
	return &Merger{
		location: loc,
		pruneKey: LegacyLinkKey,
	}
}

// MergeStats counts how odds resolved across a merge.
type MergeStats struct {
	Days       int
	Games      int
	Single     int
	Paired     int
	Mismatched int
	Unresolved int
}

func (s MergeStats) WithOdds() int {
	return s.Single + s.Paired
}

// Merge projects every game to its canonical shape and attaches odds from
// index where home and away resolve to the same slot shape. A nil index
// merges without odds. Merge never fails.
func (m *Merger) Merge(days []schedule.SourceDay, index *Index) ([]schedule.Day, MergeStats) {
	out := make([]schedule.Day, 0, len(days))
	stats := MergeStats{Days: len(days)}

	for _, src := range days {
		out = append(out, m.mergeDay(src, index, &stats))
	}

	return out, stats
}

func (m *Merger) mergeDay(src schedule.SourceDay, index *Index, stats *MergeStats) schedule.Day {
	day := schedule.Day{
		Date:  src.Date,
		Games: make([]schedule.Game, 0, len(src.Games)),
	}

	tracker := NewLegTracker()
	for _, srcGame := range src.Games {
		game := projectGame(srcGame)
		stats.Games++

		pair, resolution := m.resolveOdds(game, index, tracker.Current())
		switch resolution {
		case resolvedSingle:
			stats.Single++
		case resolvedPaired:
			stats.Paired++
		case resolvedMismatch:
			stats.Mismatched++
			stats.Unresolved++
		default:
			stats.Unresolved++
		}
		game.Odds = pair

		tracker.Advance(game.DoubleHeader)
		day.Games = append(day.Games, game)
	}

	pruneDay(&day, m.pruneKey)
	return day
}

type resolution int

const (
	unresolved resolution = iota
	resolvedSingle
	resolvedPaired
	resolvedMismatch
)

func (m *Merger) resolveOdds(game schedule.Game, index *Index, leg Leg) (*[2]odds.Outcome, resolution) {
	if index.Len() == 0 {
		return nil, unresolved
	}

	day, ok := ParseOrdinalDay(game.GameDate, m.location)
	if !ok {
		return nil, unresolved
	}

	home, homeOK := index.Lookup(game.Teams.Home.TeamName(), day)
	away, awayOK := index.Lookup(game.Teams.Away.TeamName(), day)
	if !homeOK || !awayOK {
		return nil, unresolved
	}

	if home.Paired() && away.Paired() {
		homePick, _ := home.Leg(leg)
		awayPick, _ := away.Leg(leg)
		return &[2]odds.Outcome{homePick, awayPick}, resolvedPaired
	}

	homeSingle, homeIsSingle := home.Single()
	awaySingle, awayIsSingle := away.Single()
	if homeIsSingle && awayIsSingle {
		return &[2]odds.Outcome{homeSingle, awaySingle}, resolvedSingle
	}

	return nil, resolvedMismatch
}

func projectGame(src schedule.SourceGame) schedule.Game {
	return schedule.Game{
		GameDate:     src.GameDate,
		OfficialDate: src.OfficialDate,
		Status:       schedule.Status{DetailedState: src.Status.DetailedState},
		Teams: schedule.Teams{
			Home: projectSide(src.Teams.Home),
			Away: projectSide(src.Teams.Away),
		},
		Venue: schedule.Venue{
			ID:   src.Venue.ID,
			Name: src.Venue.Name,
		},
		DoubleHeader: src.DoubleHeader,
	}
}

func projectSide(src schedule.SourceSide) schedule.Side {
	return schedule.Side{
		Team:            src.Team,
		ProbablePitcher: src.ProbablePitcher,
	}
}

// pruneDay strips key from the open provider objects carried by a day.
func pruneDay(day *schedule.Day, key string) {
	roots := make([]any, 0, len(day.Games)*4)
	for _, game := range day.Games {
		roots = append(roots,
			game.Teams.Home.Team,
			game.Teams.Home.ProbablePitcher,
			game.Teams.Away.Team,
			game.Teams.Away.ProbablePitcher,
		)
	}
	Prune(roots, key)
}
