package reconcile

import (
	"strings"
	"time"
)

// OrdinalDay is the day-of-year (1-366) of an instant in a given location.
type OrdinalDay int

func OrdinalDayOf(t time.Time, loc *time.Location) OrdinalDay {
	if loc == nil {
		loc = time.UTC
	}
	return OrdinalDay(t.In(loc).YearDay())
}

// ParseOrdinalDay reads an RFC 3339 timestamp, or a bare yyyy-mm-dd date taken
// as UTC midnight, and returns its ordinal day in loc.
func ParseOrdinalDay(raw string, loc *time.Location) (OrdinalDay, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return OrdinalDayOf(t, loc), true
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return OrdinalDayOf(t, loc), true
	}
	return 0, false
}
