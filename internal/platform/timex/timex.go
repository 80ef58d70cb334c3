// Package timex contains time related helpers shared across services
//
// Users carry a fixed minute offset from UTC instead of an IANA zone, so the
// helpers here work in terms of that offset rather than time.Location lookups
package timex

import (
	"fmt"
	"time"
)

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// DayUTC truncates t to midnight UTC
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DateUTC formats the UTC civil date of t as YYYY-MM-DD
func DateUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Shift moves t into the wall clock of a fixed minute offset from UTC
func Shift(t time.Time, offsetMin int) time.Time {
	return t.UTC().Add(time.Duration(offsetMin) * time.Minute)
}

// LocalDate formats the civil date of t at a fixed minute offset from UTC
func LocalDate(t time.Time, offsetMin int) string {
	return Shift(t, offsetMin).Format("2006-01-02")
}

// LocalClock returns the hour and minute of t at a fixed minute offset from UTC
func LocalClock(t time.Time, offsetMin int) (hour, minute int) {
	s := Shift(t, offsetMin)
	return s.Hour(), s.Minute()
}

// ClockString formats an hour/minute pair as HH:MM
func ClockString(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
