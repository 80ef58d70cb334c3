// Package service contains the tracking workflows
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/timeparam"
	"workclock/internal/core/tracking"
	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/platform/synckit"
	"workclock/internal/platform/timex"
	"workclock/internal/services/tracking/domain"
	"workclock/internal/services/tracking/repo"
)

// Config carries tracking service tunables
type Config struct {
	// MaxMinuteOffset caps relative time parameters; 0 means the parser default
	MaxMinuteOffset int
}

// Service defines the service contract for tracking
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	locks  *synckit.Keyed
	dir    domain.DirectoryPort
	cfg    Config

	// now is a seam for tests
	now func() time.Time
}

// New creates a new tracking service
// dir may be nil when the command surface is not mounted
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	locks *synckit.Keyed,
	dir domain.DirectoryPort,
	cfg Config,
) *Svc {
	if db == nil {
		panic("tracking.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("tracking.Service requires a non nil Repo binder")
	}
	if locks == nil {
		panic("tracking.Service requires a non nil keyed mutex set")
	}
	return &Svc{db: db, binder: binder, locks: locks, dir: dir, cfg: cfg, now: time.Now}
}

// RecordStateChange runs one state-change request end to end: context load,
// chronology check, state machine, and atomic persistence, all under the
// user's lock in one transaction
func (s *Svc) RecordStateChange(
	ctx context.Context,
	userID uuid.UUID,
	state tracking.State,
	ts time.Time,
	note string,
) (domain.ChangeResult, error) {
	if ts.IsZero() {
		ts = s.now().UTC()
	}
	ts = ts.UTC()

	key := userID.String()
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	var res domain.ChangeResult
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)

		active, err := st.FindActive(ctx, userID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load active session")
		}
		if active != nil && ts.Before(active.StartedAt) {
			return perr.InvalidRequestf(
				"timestamp %s precedes the active session started at %s",
				ts.Format(time.RFC3339), active.StartedAt.Format(time.RFC3339))
		}

		day := timex.DayUTC(ts)
		lastDir, err := st.LastCommuteDirection(ctx, userID, day)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load last commute")
		}
		worked, err := st.HasWorkedOn(ctx, userID, day)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load worked-today flag")
		}

		d, err := tracking.ProcessStateChange(userID, state, ts, active, lastDir, worked)
		if err != nil {
			return err
		}

		if d.EndActive != nil {
			if err := st.End(ctx, d.EndActive.ID, ts); err != nil {
				return perr.Wrap(err, perr.ErrorCodeDB, "end session")
			}
			ended := *d.EndActive
			ended.EndedAt = &ts
			res.Ended = domain.SessionDTO(&ended)
		}
		if d.Kind == tracking.DecisionStartNewSession {
			d.NewSession.Note = note
			if err := st.Insert(ctx, d.NewSession); err != nil {
				return perr.Wrap(err, perr.ErrorCodeDB, "insert session")
			}
			res.Started = domain.SessionDTO(d.NewSession)
		}
		return nil
	})
	if err != nil {
		return domain.ChangeResult{}, err
	}
	return res, nil
}

// RecordCommand resolves a raw command line from an external identity and
// feeds it through the parser into RecordStateChange
func (s *Svc) RecordCommand(ctx context.Context, in domain.CommandInput) (domain.ChangeResult, error) {
	if s.dir == nil {
		return domain.ChangeResult{}, perr.Unavailablef("command surface is not wired")
	}
	clock, err := s.dir.ClockByIdentity(ctx, in.Provider, in.ExternalID)
	if err != nil {
		return domain.ChangeResult{}, err
	}

	state, err := commandState(in.Command)
	if err != nil {
		return domain.ChangeResult{}, err
	}
	ts, err := timeparam.Parse(in.Command, clock.UTCOffsetMinutes, s.now().UTC(), s.cfg.MaxMinuteOffset)
	if err != nil {
		return domain.ChangeResult{}, err
	}
	return s.RecordStateChange(ctx, clock.UserID, state, ts, "")
}

// ActiveSession returns the user's open session, nil when idle
func (s *Svc) ActiveSession(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	var out *domain.Session
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		active, err := s.binder.Bind(q).FindActive(ctx, userID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load active session")
		}
		out = domain.SessionDTO(active)
		return nil
	})
	return out, err
}

// SessionsInRange lists the user's sessions started in [from, to)
func (s *Svc) SessionsInRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]domain.Session, error) {
	if !to.After(from) {
		return nil, perr.InvalidArgf("range end must be after start")
	}
	var out []domain.Session
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		rows, err := s.binder.Bind(q).SessionsInRange(ctx, userID, from.UTC(), to.UTC())
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "list sessions")
		}
		out = make([]domain.Session, 0, len(rows))
		for i := range rows {
			out = append(out, *domain.SessionDTO(&rows[i]))
		}
		return nil
	})
	return out, err
}

// SetNote attaches a note to one of the user's sessions
func (s *Svc) SetNote(ctx context.Context, userID, sessionID uuid.UUID, note string) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		ok, err := s.binder.Bind(q).SetNote(ctx, userID, sessionID, note)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "set note")
		}
		if !ok {
			return perr.NotFoundf("session %s", sessionID)
		}
		return nil
	})
}

// commandState maps a command word to the state it requests
func commandState(commandText string) (tracking.State, error) {
	word := strings.TrimSpace(commandText)
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	switch strings.ToLower(strings.TrimPrefix(word, "/")) {
	case "work":
		return tracking.StateWorking, nil
	case "commute":
		return tracking.StateCommuting, nil
	case "lunch":
		return tracking.StateLunch, nil
	}
	return "", perr.InvalidRequestf("unknown command %q, want /work, /commute or /lunch", word)
}
