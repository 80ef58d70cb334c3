// Package service contains holiday workflows
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/platform/timex"
	"workclock/internal/services/holidays/domain"
	"workclock/internal/services/holidays/repo"
)

// Service defines the service contract for holidays
type Service interface{ domain.ServicePort }

// Svc implements the Service interface
type Svc struct {
	repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
}

// New creates a new holidays service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("holidays.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("holidays.Service requires a non nil Repo binder")
	}
	return &Svc{repo: binder.Bind(db), binder: binder, db: db}
}

// Create adds a holiday range; dates are normalized to UTC midnights
func (s *Svc) Create(ctx context.Context, userID uuid.UUID, in domain.CreateInput) (domain.Holiday, error) {
	start := timex.DayUTC(in.StartDate)
	end := timex.DayUTC(in.EndDate)
	if end.Before(start) {
		return domain.Holiday{}, perr.InvalidArgf("end date precedes start date")
	}

	h := domain.Holiday{
		ID:          uuid.New(),
		UserID:      userID,
		StartDate:   start,
		EndDate:     end,
		Type:        in.Type,
		Description: in.Description,
	}
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		if err := s.binder.Bind(q).Insert(ctx, &h); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "insert holiday")
		}
		return nil
	})
	if err != nil {
		return domain.Holiday{}, err
	}
	return h, nil
}

// List returns the user's holiday ranges
func (s *Svc) List(ctx context.Context, userID uuid.UUID) ([]domain.Holiday, error) {
	out, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list holidays")
	}
	return out, nil
}

// Delete removes one of the user's holiday ranges
func (s *Svc) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.Tx(ctx, func(q repokit.Queryer) error {
		ok, err := s.binder.Bind(q).Delete(ctx, userID, id)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "delete holiday")
		}
		if !ok {
			return perr.NotFoundf("holiday %s", id)
		}
		return nil
	})
}

// IsHolidayOn implements domain.CheckerPort; date is truncated to its UTC day
func (s *Svc) IsHolidayOn(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	ok, err := s.repo.CoversDate(ctx, userID, timex.DayUTC(date))
	if err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeDB, "check holiday")
	}
	return ok, err
}
