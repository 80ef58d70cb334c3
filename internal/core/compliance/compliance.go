// Package compliance evaluates employer minimum-span rules over a user's
// tracked sessions. The evaluator is pure: callers load the rules and the
// sessions, the evaluator only does the day arithmetic.
package compliance

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
	"workclock/internal/platform/timex"
)

// RuleTypeMinimumSpan requires a minimum span between clock-in and clock-out
const RuleTypeMinimumSpan = "MinimumSpan"

// ClockIn names how a day's clock-in datetime is resolved
type ClockIn string

// Clock-in definitions
const (
	// ClockInCommuteEnd uses the end of the first completed commute to work
	ClockInCommuteEnd ClockIn = "commute_end"

	// ClockInWorkStart uses the start of the first working session
	ClockInWorkStart ClockIn = "work_start"
)

// ClockOut names how a day's clock-out datetime is resolved
type ClockOut string

// Clock-out definitions
const (
	// ClockOutCommuteStart uses the start of the last commute home
	ClockOutCommuteStart ClockOut = "commute_start"

	// ClockOutWorkEnd uses the end of the last completed working session
	ClockOutWorkEnd ClockOut = "work_end"
)

// Rule is one enabled-or-not compliance rule belonging to a user
type Rule struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Type           string
	ClockIn        ClockIn
	ClockOut       ClockOut
	ThresholdHours float64
	Enabled        bool
}

// Violation reports one day on which a rule's span fell short
type Violation struct {
	Date           time.Time
	RuleType       string
	ActualHours    float64
	ThresholdHours float64
	Description    string
}

// Evaluate checks every enabled rule against every UTC day present in the
// sessions and returns violations ordered by date ascending.
//
// A day yields no violation for a rule when either endpoint cannot be
// resolved or when clock-out is not after clock-in.
func Evaluate(rules []Rule, sessions []tracking.Session) []Violation {
	days := groupByDay(sessions)

	dates := make([]time.Time, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	var out []Violation
	for _, date := range dates {
		day := days[date]
		for _, rule := range rules {
			if !rule.Enabled || rule.Type != RuleTypeMinimumSpan {
				continue
			}
			v, ok := checkDay(rule, date, day)
			if ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func checkDay(rule Rule, date time.Time, day []tracking.Session) (Violation, bool) {
	in, ok := resolveClockIn(rule.ClockIn, day)
	if !ok {
		return Violation{}, false
	}
	out, ok := resolveClockOut(rule.ClockOut, day)
	if !ok || !out.After(in) {
		return Violation{}, false
	}

	actual := out.Sub(in).Hours()
	if actual >= rule.ThresholdHours {
		return Violation{}, false
	}
	return Violation{
		Date:           date,
		RuleType:       rule.Type,
		ActualHours:    actual,
		ThresholdHours: rule.ThresholdHours,
		Description: fmt.Sprintf("span %.2fh on %s below required %.2fh",
			actual, date.Format("2006-01-02"), rule.ThresholdHours),
	}, true
}

func resolveClockIn(def ClockIn, day []tracking.Session) (time.Time, bool) {
	switch def {
	case ClockInCommuteEnd:
		for _, s := range day {
			if s.State == tracking.StateCommuting && s.EndedAt != nil &&
				s.Direction != nil && *s.Direction == tracking.DirectionToWork {
				return *s.EndedAt, true
			}
		}
	case ClockInWorkStart:
		for _, s := range day {
			if s.State == tracking.StateWorking {
				return s.StartedAt, true
			}
		}
	}
	return time.Time{}, false
}

func resolveClockOut(def ClockOut, day []tracking.Session) (time.Time, bool) {
	switch def {
	case ClockOutCommuteStart:
		for i := len(day) - 1; i >= 0; i-- {
			s := day[i]
			if s.State == tracking.StateCommuting &&
				s.Direction != nil && *s.Direction == tracking.DirectionToHome {
				return s.StartedAt, true
			}
		}
	case ClockOutWorkEnd:
		for i := len(day) - 1; i >= 0; i-- {
			s := day[i]
			if s.State == tracking.StateWorking && s.EndedAt != nil {
				return *s.EndedAt, true
			}
		}
	}
	return time.Time{}, false
}

// groupByDay buckets sessions by the UTC date of their start, each bucket
// ordered by start time
func groupByDay(sessions []tracking.Session) map[time.Time][]tracking.Session {
	out := make(map[time.Time][]tracking.Session)
	for _, s := range sessions {
		day := timex.DayUTC(s.StartedAt)
		out[day] = append(out[day], s)
	}
	for _, day := range out {
		sort.Slice(day, func(i, j int) bool { return day[i].StartedAt.Before(day[j].StartedAt) })
	}
	return out
}
