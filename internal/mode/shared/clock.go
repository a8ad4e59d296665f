// Package shared provides common types and utilities for mode controllers.
package shared

import "time"

// Clock provides the current time. Use RealClock for production
// and FixedClock for testing.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same time.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed time.
func (c FixedClock) Now() time.Time { return c.Time }

// FormatUpdatedAt returns the status bar timestamp for the last successful
// roster fetch, e.g. "updated 15:04:05".
func FormatUpdatedAt(t time.Time) string {
	return "updated " + t.Format("15:04:05")
}
