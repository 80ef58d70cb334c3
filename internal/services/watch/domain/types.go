// Package domain declares the shapes the supervisors work over
package domain

import (
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
)

// ActiveSession is one open session joined with the owner's caps and clock
type ActiveSession struct {
	Session tracking.Session

	UTCOffsetMinutes       int
	MaxWorkHours           *float64
	MaxCommuteHours        *float64
	MaxLunchHours          *float64
	ForgotThresholdPercent *int
}

// CapFor returns the owner's auto-shutdown cap for the session's state,
// nil when uncapped
func (a ActiveSession) CapFor() *float64 {
	switch a.Session.State {
	case tracking.StateWorking:
		return a.MaxWorkHours
	case tracking.StateCommuting:
		return a.MaxCommuteHours
	case tracking.StateLunch:
		return a.MaxLunchHours
	}
	return nil
}

// ReminderUser is the slice of a user the reminder supervisor needs
type ReminderUser struct {
	ID               uuid.UUID
	UTCOffsetMinutes int

	LunchReminderHour   *int
	LunchReminderMinute *int
	EndOfDayHour        *int
	EndOfDayMinute      *int
	DailyTargetHours    *float64
}

// History summarizes a user's recent completed sessions of one state
type History struct {
	AvgDuration time.Duration
	Count       int
}
