// Package timerange computes the UTC windows used by dashboard aggregates.
package timerange

import "time"

// Today returns the half-open [start, end) window of the UTC day containing now.
func Today(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Month returns the half-open [start, end) window of the UTC month containing now.
func Month(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
