// Package repo provides the tracking session repository implementation.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

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

// Storage defines the tracking session repository
type Storage interface {
	FindActive(ctx context.Context, userID uuid.UUID) (*tracking.Session, error)
	LastCommuteDirection(ctx context.Context, userID uuid.UUID, day time.Time) (*tracking.Direction, error)
	HasWorkedOn(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error)
	Insert(ctx context.Context, s *tracking.Session) error
	End(ctx context.Context, id uuid.UUID, endedAt time.Time) error
	SetNote(ctx context.Context, userID, id uuid.UUID, note string) (bool, error)
	SessionsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]tracking.Session, error)
}

const sessionCols = `id, user_id, state, direction, started_at, ended_at, COALESCE(note, '')`

func scanSession(row repokit.Row) (*tracking.Session, error) {
	var s tracking.Session
	var dir *string
	if err := row.Scan(&s.ID, &s.UserID, &s.State, &dir, &s.StartedAt, &s.EndedAt, &s.Note); err != nil {
		return nil, err
	}
	if dir != nil {
		d := tracking.Direction(*dir)
		s.Direction = &d
	}
	return &s, nil
}

// FindActive implements Storage; returns nil when the user has no open session
func (s *pg) FindActive(ctx context.Context, userID uuid.UUID) (*tracking.Session, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+sessionCols+`
		FROM tracking_sessions
		WHERE user_id = $1 AND ended_at IS NULL`, userID)
	out, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return out, err
}

// LastCommuteDirection implements Storage; day is a UTC midnight
func (s *pg) LastCommuteDirection(
	ctx context.Context,
	userID uuid.UUID,
	day time.Time,
) (*tracking.Direction, error) {
	var dir string
	err := s.q.QueryRow(ctx, `
		SELECT direction
		FROM tracking_sessions
		WHERE user_id = $1 AND state = 'commuting' AND direction IS NOT NULL
			AND started_at >= $2 AND started_at < $2 + interval '1 day'
		ORDER BY started_at DESC
		LIMIT 1`, userID, day).Scan(&dir)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := tracking.Direction(dir)
	return &d, nil
}

// HasWorkedOn implements Storage: true when the user has at least one
// completed working session started on the given UTC day
func (s *pg) HasWorkedOn(ctx context.Context, userID uuid.UUID, day time.Time) (bool, error) {
	var ok bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM tracking_sessions
			WHERE user_id = $1 AND state = 'working' AND ended_at IS NOT NULL
				AND started_at >= $2 AND started_at < $2 + interval '1 day'
		)`, userID, day).Scan(&ok)
	return ok, err
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, x *tracking.Session) error {
	var dir *string
	if x.Direction != nil {
		d := string(*x.Direction)
		dir = &d
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO tracking_sessions (id, user_id, state, direction, started_at, ended_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''))`,
		x.ID, x.UserID, string(x.State), dir, x.StartedAt, x.EndedAt, x.Note)
	return err
}

// End implements Storage; only open sessions are eligible
func (s *pg) End(ctx context.Context, id uuid.UUID, endedAt time.Time) error {
	_, err := s.q.Exec(ctx, `
		UPDATE tracking_sessions SET ended_at = $2
		WHERE id = $1 AND ended_at IS NULL`, id, endedAt)
	return err
}

// SetNote implements Storage; false when the session is not the user's
func (s *pg) SetNote(ctx context.Context, userID, id uuid.UUID, note string) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE tracking_sessions SET note = NULLIF($3, '')
		WHERE id = $1 AND user_id = $2`, id, userID, note)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// SessionsInRange implements Storage; half-open [from, to), started-at order
func (s *pg) SessionsInRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]tracking.Session, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+sessionCols+`
		FROM tracking_sessions
		WHERE user_id = $1 AND started_at >= $2 AND started_at < $3
		ORDER BY started_at ASC`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tracking.Session
	for rows.Next() {
		x, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *x)
	}
	return out, rows.Err()
}
