// Package timeutil provides the clock and timestamp layouts shared by the
// session log, the audit stream and the console.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"time"
)

// Common date/time formats.
const (
	// FormatDateTimeSeconds is the layout of console timestamps.
	FormatDateTimeSeconds = "2006-01-02 15:04:05"
	// FormatFileStamp is the compact layout used in session file names.
	FormatFileStamp = "20060102150405"
)

// Clock returns the current time. Components take a Clock so tests can pin time.
type Clock func() time.Time

// SystemClock is the wall clock in local time.
func SystemClock() time.Time {
	return time.Now()
}

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// OrSystem returns c, or SystemClock if c is nil.
func (c Clock) OrSystem() Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

// FileStamp formats t for use in a file name, e.g. 20240102150405.
func FileStamp(t time.Time) string {
	return t.Format(FormatFileStamp)
}

// FormatDuration returns a short human-readable duration such as "3 min 12 sec".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%d sec", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%d min %d sec", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%d h %d min", int(d.Hours()), int(d.Minutes())%60)
	}
}
