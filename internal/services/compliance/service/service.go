// Package service contains compliance workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	core "workclock/internal/core/compliance"
	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/compliance/domain"
	"workclock/internal/services/compliance/repo"
)

// Service defines the service contract for compliance
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
}

// New creates a new compliance service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("compliance.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("compliance.Service requires a non nil Repo binder")
	}
	return &Svc{repo: binder.Bind(db), binder: binder, db: db}
}

// PutRule creates or replaces the caller's rule for the given clock pair
func (s *Svc) PutRule(ctx context.Context, userID uuid.UUID, in domain.RuleInput) (domain.Rule, error) {
	r := core.Rule{
		ID:             uuid.New(),
		UserID:         userID,
		Type:           in.Type,
		ClockIn:        core.ClockIn(in.ClockIn),
		ClockOut:       core.ClockOut(in.ClockOut),
		ThresholdHours: in.ThresholdHours,
		Enabled:        in.Enabled,
	}
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		if err := s.binder.Bind(q).Upsert(ctx, &r); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "upsert rule")
		}
		return nil
	})
	if err != nil {
		return domain.Rule{}, err
	}
	return domain.RuleDTO(r), nil
}

// ListRules returns the caller's rules
func (s *Svc) ListRules(ctx context.Context, userID uuid.UUID) ([]domain.Rule, error) {
	rules, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list rules")
	}
	out := make([]domain.Rule, 0, len(rules))
	for _, r := range rules {
		out = append(out, domain.RuleDTO(r))
	}
	return out, nil
}

// DeleteRule removes one of the caller's rules
func (s *Svc) DeleteRule(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		ok, err := s.binder.Bind(q).Delete(ctx, userID, id)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "delete rule")
		}
		if !ok {
			return perr.NotFoundf("rule %s", id)
		}
		return nil
	})
}

// Evaluate loads the caller's enabled rules and sessions in [from, to) and
// runs the evaluator over them
func (s *Svc) Evaluate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Violation, error) {
	if !to.After(from) {
		return nil, perr.InvalidArgf("range end must be after start")
	}

	var out []domain.Violation
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		rules, err := st.ListByUser(ctx, userID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "list rules")
		}
		sessions, err := st.SessionsInRange(ctx, userID, from.UTC(), to.UTC())
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "list sessions")
		}

		found := core.Evaluate(rules, sessions)
		out = make([]domain.Violation, 0, len(found))
		for _, v := range found {
			out = append(out, domain.ViolationDTO(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
