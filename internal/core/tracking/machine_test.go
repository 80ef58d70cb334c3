package tracking

import (
	"testing"
	"time"

	"github.com/google/uuid"

	perr "workclock/internal/platform/errors"
)

func ts(h, m int) time.Time {
	return time.Date(2024, 5, 6, h, m, 0, 0, time.UTC)
}

func dirPtr(d Direction) *Direction { return &d }

func TestProcessStateChange_FirstCommuteOfDay(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	d, err := ProcessStateChange(uid, StateCommuting, ts(8, 0), nil, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != DecisionStartNewSession {
		t.Fatalf("kind = %v, want StartNewSession", d.Kind)
	}
	if d.EndActive != nil {
		t.Fatalf("no active session should be ended")
	}
	s := d.NewSession
	if s == nil || s.State != StateCommuting {
		t.Fatalf("new session = %+v, want commuting", s)
	}
	if s.Direction == nil || *s.Direction != DirectionToWork {
		t.Fatalf("direction = %v, want to_work", s.Direction)
	}
	if !s.StartedAt.Equal(ts(8, 0)) || s.EndedAt != nil {
		t.Fatalf("bounds = %v/%v, want open at 08:00", s.StartedAt, s.EndedAt)
	}
	if s.UserID != uid {
		t.Fatalf("user = %v, want %v", s.UserID, uid)
	}
}

func TestProcessStateChange_WorkToggleEnds(t *testing.T) {
	t.Parallel()

	active := &Session{ID: uuid.New(), UserID: uuid.New(), State: StateWorking, StartedAt: ts(9, 0)}
	d, err := ProcessStateChange(active.UserID, StateWorking, ts(17, 0), active, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != DecisionEndSession {
		t.Fatalf("kind = %v, want EndSession", d.Kind)
	}
	if d.EndActive != active {
		t.Fatalf("EndActive should be the active session")
	}
	if d.NewSession != nil {
		t.Fatalf("toggle must not open a new session")
	}
}

func TestProcessStateChange_ExclusiveSwitch(t *testing.T) {
	t.Parallel()

	active := &Session{ID: uuid.New(), UserID: uuid.New(), State: StateWorking, StartedAt: ts(9, 0)}
	d, err := ProcessStateChange(active.UserID, StateLunch, ts(12, 0), active, nil, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Kind != DecisionStartNewSession {
		t.Fatalf("kind = %v, want StartNewSession", d.Kind)
	}
	if d.EndActive != active {
		t.Fatalf("the active working session must be ended in the same step")
	}
	if d.NewSession.State != StateLunch || !d.NewSession.StartedAt.Equal(ts(12, 0)) {
		t.Fatalf("new session = %+v, want lunch at 12:00", d.NewSession)
	}
	if d.NewSession.Direction != nil {
		t.Fatalf("non-commute sessions carry no direction")
	}
}

func TestProcessStateChange_EveningCommuteHeadsHome(t *testing.T) {
	t.Parallel()

	d, err := ProcessStateChange(uuid.New(), StateCommuting, ts(18, 0), nil, dirPtr(DirectionToWork), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.NewSession.Direction == nil || *d.NewSession.Direction != DirectionToHome {
		t.Fatalf("direction = %v, want to_home", d.NewSession.Direction)
	}
}

func TestProcessStateChange_DirectionAlternatesWithoutWork(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		last *Direction
		want Direction
	}{
		{"none yet", nil, DirectionToWork},
		{"after to_work", dirPtr(DirectionToWork), DirectionToHome},
		{"after to_home", dirPtr(DirectionToHome), DirectionToWork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := ProcessStateChange(uuid.New(), StateCommuting, ts(10, 0), nil, tc.last, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *d.NewSession.Direction != tc.want {
				t.Fatalf("direction = %v, want %v", *d.NewSession.Direction, tc.want)
			}
		})
	}
}

func TestProcessStateChange_ToggleWinsForEveryState(t *testing.T) {
	t.Parallel()

	for _, st := range []State{StateWorking, StateCommuting, StateLunch} {
		active := &Session{ID: uuid.New(), UserID: uuid.New(), State: st, StartedAt: ts(9, 0)}
		if st == StateCommuting {
			active.Direction = dirPtr(DirectionToWork)
		}
		d, err := ProcessStateChange(active.UserID, st, ts(10, 0), active, active.Direction, false)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", st, err)
		}
		if d.Kind != DecisionEndSession || d.NewSession != nil {
			t.Fatalf("%s: toggling same state must only end, got %+v", st, d)
		}
	}
}

func TestProcessStateChange_RejectsUnknownState(t *testing.T) {
	t.Parallel()

	for _, bad := range []State{"", "idle", "Working"} {
		_, err := ProcessStateChange(uuid.New(), bad, ts(9, 0), nil, nil, false)
		if err == nil {
			t.Fatalf("state %q: expected error", bad)
		}
		if !perr.IsCode(err, perr.ErrorCodeInvalidRequest) {
			t.Fatalf("state %q: code = %v, want invalid request", bad, perr.CodeOf(err))
		}
	}
}

func TestSessionDuration(t *testing.T) {
	t.Parallel()

	end := ts(17, 30)
	s := Session{StartedAt: ts(9, 0), EndedAt: &end}
	if got := s.Duration(ts(23, 0)); got != 8*time.Hour+30*time.Minute {
		t.Fatalf("completed duration = %v", got)
	}
	open := Session{StartedAt: ts(9, 0)}
	if got := open.Duration(ts(10, 15)); got != time.Hour+15*time.Minute {
		t.Fatalf("open duration = %v", got)
	}
	if !open.Active() || s.Active() {
		t.Fatalf("Active flags wrong")
	}
}
