package reconcile

import (
	"strings"
	"time"

	"github.com/riskibarqy/mlb-schedule/internal/domain/odds"
	"github.com/riskibarqy/mlb-schedule/internal/domain/team"
)

// Entry is the odds slot for one team on one day: a single outcome, or an
// ordered pair when the team plays a double-header.
type Entry struct {
	legs  [2]odds.Outcome
	count int
}

func singleEntry(o odds.Outcome) Entry {
	return Entry{legs: [2]odds.Outcome{o}, count: 1}
}

func pairedEntry(first, second odds.Outcome) Entry {
	return Entry{legs: [2]odds.Outcome{first, second}, count: 2}
}

func (e Entry) Paired() bool {
	return e.count == 2
}

// Single returns the outcome of a non-paired slot.
func (e Entry) Single() (odds.Outcome, bool) {
	if e.count != 1 {
		return odds.Outcome{}, false
	}
	return e.legs[0], true
}

// Leg returns the outcome for a double-header leg of a paired slot.
func (e Entry) Leg(l Leg) (odds.Outcome, bool) {
	if !e.Paired() || l.Index() < 0 || l.Index() > 1 {
		return odds.Outcome{}, false
	}
	return e.legs[l.Index()], true
}

type indexKey struct {
	team string
	day  OrdinalDay
}

// Index maps (team, ordinal day) to an odds slot. It lives for one request.
type Index struct {
	entries map[indexKey]Entry
}

func NewIndex() *Index {
	return &Index{entries: make(map[indexKey]Entry)}
}

func (ix *Index) Lookup(teamName string, day OrdinalDay) (Entry, bool) {
	if ix == nil {
		return Entry{}, false
	}
	e, ok := ix.entries[indexKey{team: strings.TrimSpace(teamName), day: day}]
	return e, ok
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// insert applies the pairing rule. An empty slot takes the outcome, a single
// slot becomes the pair (existing, new). A third outcome for the same slot is
// dropped and insert reports false.
func (ix *Index) insert(o odds.Outcome, day OrdinalDay) bool {
	key := indexKey{team: o.Name, day: day}
	existing, ok := ix.entries[key]
	switch {
	case !ok:
		ix.entries[key] = singleEntry(o)
	case !existing.Paired():
		ix.entries[key] = pairedEntry(existing.legs[0], o)
	default:
		return false
	}
	return true
}

// IndexStats counts what happened to the odds records of one build.
type IndexStats struct {
	Records      int
	Indexed      int
	Skipped      int
	Overflow     int
	UnknownTeams int
}

type Indexer struct {
	selector odds.SourceSelector
	location *time.Location
	catalog  team.Catalog
}

// NewIndexer builds indexers reading the market chosen by selector and keying
// days in loc. catalog is optional and only used to count unknown team names.
func NewIndexer(selector odds.SourceSelector, loc *time.Location, catalog team.Catalog) *Indexer {
	if loc == nil {
		loc = time.UTC
	}
	return &Indexer{
		selector: selector,
		location: loc,
		catalog:  catalog,
	}
}

// Build indexes records in order. Malformed records are skipped; Build never fails.
func (x *Indexer) Build(records []odds.Record) (*Index, IndexStats) {
	index := NewIndex()
	stats := IndexStats{Records: len(records)}

	for _, record := range records {
		outcomes, day, ok := x.extract(record)
		if !ok {
			stats.Skipped++
			continue
		}

		stats.Indexed++
		for _, outcome := range outcomes {
			if x.catalog != nil {
				if _, known := x.catalog.Abbreviation(outcome.Name); !known {
					stats.UnknownTeams++
				}
			}
			if !index.insert(outcome, day) {
				stats.Overflow++
			}
		}
	}

	return index, stats
}

func (x *Indexer) extract(record odds.Record) ([2]odds.Outcome, OrdinalDay, bool) {
	var out [2]odds.Outcome

	market, ok := x.selector.Select(record)
	if !ok || len(market.Outcomes) < 2 {
		return out, 0, false
	}

	day, ok := ParseOrdinalDay(record.CommenceTime, x.location)
	if !ok {
		return out, 0, false
	}

	out[0] = odds.NewOutcome(market.Outcomes[0])
	out[1] = odds.NewOutcome(market.Outcomes[1])
	if out[0].Name == "" || out[1].Name == "" {
		return out, 0, false
	}

	return out, day, true
}
