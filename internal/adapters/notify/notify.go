// Package notify implements the notification sink consumed by the
// supervisors. Delivery is best-effort: sinks swallow their own failures so
// a broken channel can never fail the caller.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// Kind labels a notification for once-per-day bookkeeping
type Kind string

// Notification kinds
const (
	KindLunchReminder     Kind = "lunch_reminder"
	KindEndOfDayReminder  Kind = "end_of_day_reminder"
	KindWorkHoursComplete Kind = "work_hours_complete"
	KindForgotShutdown    Kind = "forgot_shutdown"
	KindAutoShutdown      Kind = "auto_shutdown"
)

// Sink delivers one notification to one user; implementations never return
// delivery errors
type Sink interface {
	Send(ctx context.Context, userID uuid.UUID, kind Kind, message string)
}

// Multi fans out to several sinks in order
type Multi []Sink

// Send implements Sink
func (m Multi) Send(ctx context.Context, userID uuid.UUID, kind Kind, message string) {
	for _, s := range m {
		s.Send(ctx, userID, kind, message)
	}
}
