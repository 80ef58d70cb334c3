package tracking

import (
	"time"

	"github.com/google/uuid"

	perr "workclock/internal/platform/errors"
)

// DecisionKind tags the variant of a Decision
type DecisionKind int

// Decision variants
const (
	// DecisionEndSession ends the active session without starting another
	DecisionEndSession DecisionKind = iota + 1

	// DecisionStartNewSession opens NewSession, ending EndActive first when set
	DecisionStartNewSession
)

// Decision is the outcome of one state-change request
//
// For DecisionEndSession, EndActive is the session whose ended-at the caller
// must set. For DecisionStartNewSession, NewSession is the session to insert
// and EndActive (when non-nil) must be ended in the same atomic step.
type Decision struct {
	Kind       DecisionKind
	NewSession *Session
	EndActive  *Session
}

// ProcessStateChange resolves a requested state against the user's context.
//
// Toggle wins over exclusion: requesting the state of the active session
// always ends it and never restarts it. Requesting anything that is not a
// real tracked state is rejected. Chronology (ts >= active.StartedAt) is the
// caller's responsibility.
func ProcessStateChange(
	userID uuid.UUID,
	requested State,
	ts time.Time,
	active *Session,
	lastCommuteDir *Direction,
	hasWorkedToday bool,
) (Decision, error) {
	if !requested.Valid() {
		return Decision{}, perr.InvalidRequestf("cannot request state %q", string(requested))
	}

	if active != nil && active.State == requested {
		return Decision{Kind: DecisionEndSession, EndActive: active}, nil
	}

	next := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		State:     requested,
		StartedAt: ts,
	}
	if requested == StateCommuting {
		dir := inferDirection(lastCommuteDir, hasWorkedToday)
		next.Direction = &dir
	}

	return Decision{Kind: DecisionStartNewSession, NewSession: next, EndActive: active}, nil
}

// inferDirection picks the commute direction for a new commute session.
//
// First commute of the day always heads to work. After a completed working
// session the next commute heads home. Otherwise directions alternate.
func inferDirection(last *Direction, hasWorkedToday bool) Direction {
	if last == nil {
		return DirectionToWork
	}
	if hasWorkedToday {
		return DirectionToHome
	}
	if *last == DirectionToWork {
		return DirectionToHome
	}
	return DirectionToWork
}
