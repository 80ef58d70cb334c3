// Package timeparam converts command-line time suffixes into UTC timestamps.
//
// Users carry a literal minute offset from UTC instead of a zone name, so
// parsing needs no timezone database and no DST rules: the offset is applied
// verbatim in both directions.
package timeparam

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	perr "workclock/internal/platform/errors"
)

// DefaultMaxMinuteOffset caps relative minute parameters
const DefaultMaxMinuteOffset = 720

var (
	minuteOffsetRe = regexp.MustCompile(`(?i)^([-+])m?\s*(\d+)$`)
	wallClockRe    = regexp.MustCompile(`^\[?(\d{1,2}):(\d{2})\]?$`)
)

// Parse resolves the time parameter of a command line into a UTC timestamp.
//
// The first whitespace-delimited token is the command word and is ignored;
// the remainder is the parameter. Grammars, checked in order:
//
//   - minute offset ("-15", "+m 30"): result is now shifted by the signed
//     minutes; magnitudes above maxMinuteOffset are rejected
//   - wall clock ("[14:30]", "09:00"): the pair is read on the user's local
//     civil date and converted back to UTC through the offset
//   - empty: result is now
//
// Anything else is rejected with an invalid-argument error carrying the
// original parameter text.
func Parse(commandText string, utcOffsetMinutes int, now time.Time, maxMinuteOffset int) (time.Time, error) {
	if maxMinuteOffset <= 0 {
		maxMinuteOffset = DefaultMaxMinuteOffset
	}

	param := parameterOf(commandText)
	if param == "" {
		return now.UTC(), nil
	}

	if m := minuteOffsetRe.FindStringSubmatch(param); m != nil {
		mins, err := strconv.Atoi(m[2])
		if err != nil || mins > maxMinuteOffset {
			return time.Time{}, perr.InvalidArgf(
				"time parameter %q: minute offset exceeds %d", param, maxMinuteOffset)
		}
		if m[1] == "-" {
			mins = -mins
		}
		return now.UTC().Add(time.Duration(mins) * time.Minute), nil
	}

	if m := wallClockRe.FindStringSubmatch(param); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return time.Time{}, perr.InvalidArgf(
				"time parameter %q: clock out of range, want HH:MM", param)
		}
		// the pair names a wall-clock time on the user's local civil date
		local := now.UTC().Add(time.Duration(utcOffsetMinutes) * time.Minute)
		localAt := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, time.UTC)
		return localAt.Add(-time.Duration(utcOffsetMinutes) * time.Minute), nil
	}

	return time.Time{}, perr.InvalidArgf(
		"time parameter %q: want -MINUTES, +m MINUTES, [HH:MM] or HH:MM", param)
}

// parameterOf strips the command word and returns the trimmed remainder
func parameterOf(commandText string) string {
	s := strings.TrimSpace(commandText)
	if s == "" {
		return ""
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return ""
}
