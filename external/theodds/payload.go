package theodds

import "github.com/riskibarqy/mlb-schedule/internal/domain/odds"

type eventItem struct {
	ID           string          `json:"id"`
	SportKey     string          `json:"sport_key"`
	SportTitle   string          `json:"sport_title"`
	CommenceTime string          `json:"commence_time"`
	HomeTeam     string          `json:"home_team"`
	AwayTeam     string          `json:"away_team"`
	Bookmakers   []bookmakerItem `json:"bookmakers"`
}

type bookmakerItem struct {
	Key        string       `json:"key"`
	Title      string       `json:"title"`
	LastUpdate string       `json:"last_update"`
	Markets    []marketItem `json:"markets"`
}

type marketItem struct {
	Key        string        `json:"key"`
	LastUpdate string        `json:"last_update"`
	Outcomes   []outcomeItem `json:"outcomes"`
}

type outcomeItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (e eventItem) toDomain() odds.Record {
	bookmakers := make([]odds.Bookmaker, 0, len(e.Bookmakers))
	for _, b := range e.Bookmakers {
		markets := make([]odds.Market, 0, len(b.Markets))
		for _, m := range b.Markets {
			outcomes := make([]odds.RawOutcome, 0, len(m.Outcomes))
			for _, o := range m.Outcomes {
				outcomes = append(outcomes, odds.RawOutcome{Name: o.Name, Price: o.Price})
			}
			markets = append(markets, odds.Market{Key: m.Key, Outcomes: outcomes})
		}
		bookmakers = append(bookmakers, odds.Bookmaker{Key: b.Key, Title: b.Title, Markets: markets})
	}

	return odds.Record{
		ID:           e.ID,
		HomeTeam:     e.HomeTeam,
		AwayTeam:     e.AwayTeam,
		CommenceTime: e.CommenceTime,
		Bookmakers:   bookmakers,
	}
}
