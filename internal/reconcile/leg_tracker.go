package reconcile

import "github.com/riskibarqy/mlb-schedule/internal/domain/schedule"

// Leg is the position of a game inside a same-day double-header.
type Leg int

const (
	LegOne Leg = iota
	LegTwo
)

func (l Leg) Index() int {
	return int(l)
}

func (l Leg) String() string {
	if l == LegTwo {
		return "leg_two"
	}
	return "leg_one"
}

// LegTracker recovers double-header leg numbers while a day's games are
// walked in provider order. The provider flags both legs with "Y" without
// numbering them, so every flagged game flips the state and any other game
// resets it. Use one tracker per day.
type LegTracker struct {
	leg Leg
}

func NewLegTracker() *LegTracker {
	return &LegTracker{leg: LegOne}
}

// Current is the leg the next game belongs to.
func (t *LegTracker) Current() Leg {
	return t.leg
}

// Advance moves past a game carrying the given doubleHeader flag.
func (t *LegTracker) Advance(doubleHeader string) {
	if doubleHeader != schedule.DoubleHeaderYes {
		t.leg = LegOne
		return
	}
	if t.leg == LegOne {
		t.leg = LegTwo
	} else {
		t.leg = LegOne
	}
}
