package team

import "strings"

var mlbTeams = []Team{
	{Name: "Athletics", Abbreviation: "ATH"},
	{Name: "Arizona Diamondbacks", Abbreviation: "ARI"},
	{Name: "Atlanta Braves", Abbreviation: "ATL"},
	{Name: "Baltimore Orioles", Abbreviation: "BAL"},
	{Name: "Boston Red Sox", Abbreviation: "BOS"},
	{Name: "Chicago White Sox", Abbreviation: "CWS"},
	{Name: "Chicago Cubs", Abbreviation: "CHC"},
	{Name: "Cincinnati Reds", Abbreviation: "CIN"},
	{Name: "Cleveland Guardians", Abbreviation: "CLE"},
	{Name: "Colorado Rockies", Abbreviation: "COL"},
	{Name: "Detroit Tigers", Abbreviation: "DET"},
	{Name: "Houston Astros", Abbreviation: "HOU"},
	{Name: "Kansas City Royals", Abbreviation: "KC"},
	{Name: "Los Angeles Angels", Abbreviation: "LAA"},
	{Name: "Los Angeles Dodgers", Abbreviation: "LAD"},
	{Name: "Miami Marlins", Abbreviation: "MIA"},
	{Name: "Milwaukee Brewers", Abbreviation: "MIL"},
	{Name: "Minnesota Twins", Abbreviation: "MIN"},
	{Name: "New York Yankees", Abbreviation: "NYY"},
	{Name: "New York Mets", Abbreviation: "NYM"},
	{Name: "Philadelphia Phillies", Abbreviation: "PHI"},
	{Name: "Pittsburgh Pirates", Abbreviation: "PIT"},
	{Name: "San Diego Padres", Abbreviation: "SD"},
	{Name: "San Francisco Giants", Abbreviation: "SF"},
	{Name: "Seattle Mariners", Abbreviation: "SEA"},
	{Name: "St. Louis Cardinals", Abbreviation: "STL"},
	{Name: "Tampa Bay Rays", Abbreviation: "TB"},
	{Name: "Texas Rangers", Abbreviation: "TEX"},
	{Name: "Toronto Blue Jays", Abbreviation: "TOR"},
	{Name: "Washington Nationals", Abbreviation: "WSH"},
}

var abbreviationByName = func() map[string]string {
	out := make(map[string]string, len(mlbTeams))
	for _, t := range mlbTeams {
		out[t.Name] = t.Abbreviation
	}
	return out
}()

// Catalog is the closed set of known team names.
type Catalog interface {
	List() []Team
	Abbreviation(name string) (string, bool)
}

type StaticCatalog struct{}

func NewStaticCatalog() StaticCatalog {
	return StaticCatalog{}
}

// List returns a copy of the table in its fixed order.
func (StaticCatalog) List() []Team {
	out := make([]Team, len(mlbTeams))
	copy(out, mlbTeams)
	return out
}

func (StaticCatalog) Abbreviation(name string) (string, bool) {
	abbr, ok := abbreviationByName[strings.TrimSpace(name)]
	return abbr, ok
}
