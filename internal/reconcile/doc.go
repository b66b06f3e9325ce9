// Package reconcile merges an odds board into a game schedule.
//
// Odds are indexed by (team name, ordinal day). The time of day is discarded
// on purpose: the schedule provider reports inconsistent start times for the
// two legs of a double-header, so only the calendar day is trusted, and the
// order in which odds were inserted tells leg one from leg two.
package reconcile
