// Package testutil provides fixture helpers shared across package
// tests: compact date construction and pointer literals for the
// optional-heavy entity and record models.
package testutil

import "time"

// Date builds a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr builds a pointer to a UTC calendar date.
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Int64 returns a pointer to n.
func Int64(n int64) *int64 { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
