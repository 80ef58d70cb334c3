// Package tracking implements the toggle-driven session state machine.
//
// The machine is pure: it never touches storage and never holds a session
// beyond one call. Callers load the user's context (active session, last
// commute direction, has-worked-today) and persist whatever decision comes
// back, all under the per-user lock.
package tracking

import (
	"time"

	"github.com/google/uuid"
)

// State is the tracked activity of a session
type State string

// Session states
const (
	StateWorking   State = "working"
	StateCommuting State = "commuting"
	StateLunch     State = "lunch"
)

// Valid reports whether s is one of the real tracked states
func (s State) Valid() bool {
	switch s {
	case StateWorking, StateCommuting, StateLunch:
		return true
	}
	return false
}

// Direction is the inferred direction of a commute session
type Direction string

// Commute directions
const (
	DirectionToWork Direction = "to_work"
	DirectionToHome Direction = "to_home"
)

// Session is one contiguous span of a single state for one user
//
// A session is created open (EndedAt nil), mutated exactly once when it is
// ended, and immutable afterwards. Direction is set iff State is commuting.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	State     State
	Direction *Direction
	StartedAt time.Time
	EndedAt   *time.Time
	Note      string
}

// Active reports whether the session is still open
func (s Session) Active() bool { return s.EndedAt == nil }

// Duration returns the session span, using now for open sessions
func (s Session) Duration(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.Sub(s.StartedAt)
}
