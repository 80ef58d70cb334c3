// Package repo provides the compliance rules repository implementation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	core "workclock/internal/core/compliance"
	"workclock/internal/core/tracking"
	"workclock/internal/modkit/repokit"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the compliance repository; it also reads sessions because
// evaluation joins both tables in one snapshot
type Storage interface {
	Upsert(ctx context.Context, r *core.Rule) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]core.Rule, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	SessionsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]tracking.Session, error)
}

// Upsert implements Storage; one rule per (user, type, clock pair)
func (s *pg) Upsert(ctx context.Context, r *core.Rule) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO user_compliance_rules (id, user_id, type, clock_in, clock_out, threshold_hours, enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, type, clock_in, clock_out)
		DO UPDATE SET threshold_hours = EXCLUDED.threshold_hours, enabled = EXCLUDED.enabled`,
		r.ID, r.UserID, r.Type, string(r.ClockIn), string(r.ClockOut), r.ThresholdHours, r.Enabled)
	return err
}

// ListByUser implements Storage
func (s *pg) ListByUser(ctx context.Context, userID uuid.UUID) ([]core.Rule, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, type, clock_in, clock_out, threshold_hours, enabled
		FROM user_compliance_rules
		WHERE user_id = $1
		ORDER BY type, clock_in, clock_out`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Rule
	for rows.Next() {
		var r core.Rule
		var in, outDef string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Type, &in, &outDef, &r.ThresholdHours, &r.Enabled); err != nil {
			return nil, err
		}
		r.ClockIn = core.ClockIn(in)
		r.ClockOut = core.ClockOut(outDef)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete implements Storage; false when the rule is not the user's
func (s *pg) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM user_compliance_rules WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SessionsInRange implements Storage; half-open [from, to)
func (s *pg) SessionsInRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]tracking.Session, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, state, direction, started_at, ended_at, COALESCE(note, '')
		FROM tracking_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.Session
	for rows.Next() {
		var x tracking.Session
		var dir *string
		if err := rows.Scan(&x.ID, &x.UserID, &x.State, &dir, &x.StartedAt, &x.EndedAt, &x.Note); err != nil {
			return nil, err
		}
		if dir != nil {
			d := tracking.Direction(*dir)
			x.Direction = &d
		}
		out = append(out, x)
	}
	return out, rows.Err()
}
