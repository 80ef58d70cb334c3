// Package repo provides the supervisor repository implementation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
	"workclock/internal/modkit/repokit"
	"workclock/internal/services/watch/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the read and mutation surface the supervisors need
type Storage interface {
	ActiveSessions(ctx context.Context) ([]domain.ActiveSession, error)
	RecentHistory(ctx context.Context, userID uuid.UUID, state tracking.State, lastN int) (domain.History, error)
	End(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) (bool, error)
	ReminderUsers(ctx context.Context) ([]domain.ReminderUser, error)
	WorkedSeconds(ctx context.Context, userID uuid.UUID, from, to, now time.Time) (float64, error)
}

// ActiveSessions implements Storage: every open session joined with the
// owner's caps and clock settings
func (s *pg) ActiveSessions(ctx context.Context) ([]domain.ActiveSession, error) {
	rows, err := s.q.Query(ctx, `
		SELECT s.id, s.user_id, s.state, s.direction, s.started_at, s.ended_at, COALESCE(s.note, ''),
			u.utc_offset_minutes, u.max_work_hours, u.max_commute_hours, u.max_lunch_hours,
			u.forgot_threshold_percent
		FROM tracking_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.ended_at IS NULL
		ORDER BY s.started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActiveSession
	for rows.Next() {
		var a domain.ActiveSession
		var dir *string
		err := rows.Scan(
			&a.Session.ID, &a.Session.UserID, &a.Session.State, &dir,
			&a.Session.StartedAt, &a.Session.EndedAt, &a.Session.Note,
			&a.UTCOffsetMinutes, &a.MaxWorkHours, &a.MaxCommuteHours, &a.MaxLunchHours,
			&a.ForgotThresholdPercent,
		)
		if err != nil {
			return nil, err
		}
		if dir != nil {
			d := tracking.Direction(*dir)
			a.Session.Direction = &d
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// RecentHistory implements Storage: the trailing average over the user's
// last N completed sessions of the given state
func (s *pg) RecentHistory(
	ctx context.Context,
	userID uuid.UUID,
	state tracking.State,
	lastN int,
) (domain.History, error) {
	var avgSeconds float64
	var count int
	err := s.q.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (ended_at - started_at))), 0), COUNT(*)
		FROM (
			SELECT started_at, ended_at
			FROM tracking_sessions
			WHERE user_id = $1 AND state = $2 AND ended_at IS NOT NULL
			ORDER BY started_at DESC
			LIMIT $3
		) recent`, userID, string(state), lastN).Scan(&avgSeconds, &count)
	if err != nil {
		return domain.History{}, err
	}
	return domain.History{
		AvgDuration: time.Duration(avgSeconds * float64(time.Second)),
		Count:       count,
	}, nil
}

// End implements Storage; false when the session was already closed
func (s *pg) End(ctx context.Context, sessionID uuid.UUID, endedAt time.Time) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE tracking_sessions SET ended_at = $2
		WHERE id = $1 AND ended_at IS NULL`, sessionID, endedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReminderUsers implements Storage
func (s *pg) ReminderUsers(ctx context.Context) ([]domain.ReminderUser, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, utc_offset_minutes,
			lunch_reminder_hour, lunch_reminder_minute,
			end_of_day_hour, end_of_day_minute, daily_target_hours
		FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ReminderUser
	for rows.Next() {
		var u domain.ReminderUser
		err := rows.Scan(
			&u.ID, &u.UTCOffsetMinutes,
			&u.LunchReminderHour, &u.LunchReminderMinute,
			&u.EndOfDayHour, &u.EndOfDayMinute, &u.DailyTargetHours,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// WorkedSeconds implements Storage: total working time overlapping [from, to),
// counting the running session up to now
func (s *pg) WorkedSeconds(ctx context.Context, userID uuid.UUID, from, to, now time.Time) (float64, error) {
	var secs float64
	err := s.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (
			LEAST(COALESCE(ended_at, $4), $3) - GREATEST(started_at, $2)
		))), 0)
		FROM tracking_sessions
		WHERE user_id = $1 AND state = 'working'
			AND started_at < $3 AND COALESCE(ended_at, $4) > $2`,
		userID, from, to, now).Scan(&secs)
	return secs, err
}
