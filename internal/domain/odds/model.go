package odds

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Outcome is one named side of a moneyline with its American price rendered
// as a signed string ("+150", "-170", "0").
type Outcome struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// RawOutcome is an outcome as the odds provider reports it.
type RawOutcome struct {
	Name  string
	Price float64
}

type Market struct {
	Key      string
	Outcomes []RawOutcome
}

type Bookmaker struct {
	Key     string
	Title   string
	Markets []Market
}

// Record is one provider event with every bookmaker quoting it.
type Record struct {
	ID           string
	HomeTeam     string
	AwayTeam     string
	CommenceTime string
	Bookmakers   []Bookmaker
}

// FormatPrice renders positive prices with a leading "+" and everything else
// as the plain signed decimal.
func FormatPrice(price float64) string {
	d := decimal.NewFromFloat(price)
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}

func NewOutcome(raw RawOutcome) Outcome {
	return Outcome{
		Name:  strings.TrimSpace(raw.Name),
		Price: FormatPrice(raw.Price),
	}
}

// SourceSelector picks the bookmaker and market an odds record is read from.
// An empty key selects the first entry listed by the provider.
type SourceSelector struct {
	Bookmaker string
	Market    string
}

// Select returns the market chosen by s, or false when the record has no
// entry matching the selector. There is no fallback to other bookmakers.
func (s SourceSelector) Select(record Record) (Market, bool) {
	bookmaker, ok := pickByKey(record.Bookmakers, s.Bookmaker, func(b Bookmaker) string { return b.Key })
	if !ok {
		return Market{}, false
	}
	return pickByKey(bookmaker.Markets, s.Market, func(m Market) string { return m.Key })
}

func (s SourceSelector) String() string {
	bookmaker := s.Bookmaker
	if bookmaker == "" {
		bookmaker = "<first>"
	}
	market := s.Market
	if market == "" {
		market = "<first>"
	}
	return bookmaker + "/" + market
}

func pickByKey[T any](items []T, key string, keyOf func(T) string) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return items[0], true
	}
	for _, item := range items {
		if strings.EqualFold(keyOf(item), key) {
			return item, true
		}
	}
	return zero, false
}
