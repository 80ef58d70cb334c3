// Package repo provides the users repository implementation.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"workclock/internal/modkit/repokit"
	"workclock/internal/services/users/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the users repository
type Storage interface {
	ByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ByIdentity(ctx context.Context, provider string, externalID int64) (*domain.User, error)
	ByToken(ctx context.Context, token uuid.UUID) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	InsertUser(ctx context.Context, u *domain.User, token uuid.UUID) error
	InsertIdentity(ctx context.Context, provider string, externalID int64, userID uuid.UUID) error
	UpdateUser(ctx context.Context, u *domain.User) error

	FindPendingByPhrase(ctx context.Context, phrase string) (*domain.PendingMnemonic, error)
	InsertPending(ctx context.Context, p *domain.PendingMnemonic) error
	MarkConsumed(ctx context.Context, id uuid.UUID) error
	DeleteExpiredOrConsumed(ctx context.Context, now time.Time) (int, error)
}

const userCols = `id, display_name, utc_offset_minutes,
	max_work_hours, max_commute_hours, max_lunch_hours,
	lunch_reminder_hour, lunch_reminder_minute, end_of_day_hour, end_of_day_minute,
	daily_target_hours, forgot_threshold_percent, is_admin, registered_at`

func scanUser(row repokit.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.DisplayName, &u.UTCOffsetMinutes,
		&u.MaxWorkHours, &u.MaxCommuteHours, &u.MaxLunchHours,
		&u.LunchReminderHour, &u.LunchReminderMinute, &u.EndOfDayHour, &u.EndOfDayMinute,
		&u.DailyTargetHours, &u.ForgotThresholdPercent, &u.IsAdmin, &u.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ByID implements Storage; nil when missing
func (s *pg) ByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// ByIdentity implements Storage; nil when missing
func (s *pg) ByIdentity(ctx context.Context, provider string, externalID int64) (*domain.User, error) {
	row := s.q.QueryRow(ctx, `
		SELECT `+userCols+`
		FROM users u
		JOIN user_identities i ON i.user_id = u.id
		WHERE i.provider = $1 AND i.external_id = $2`, provider, externalID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// ByToken implements Storage; nil when the token matches no user
func (s *pg) ByToken(ctx context.Context, token uuid.UUID) (*domain.User, error) {
	row := s.q.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE api_token = $1`, token)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// ListAll implements Storage, registration order
func (s *pg) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := s.q.Query(ctx, `SELECT `+userCols+` FROM users ORDER BY registered_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// InsertUser implements Storage
func (s *pg) InsertUser(ctx context.Context, u *domain.User, token uuid.UUID) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO users (id, display_name, utc_offset_minutes,
			max_work_hours, max_commute_hours, max_lunch_hours,
			lunch_reminder_hour, lunch_reminder_minute, end_of_day_hour, end_of_day_minute,
			daily_target_hours, forgot_threshold_percent, is_admin, registered_at, api_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		u.ID, u.DisplayName, u.UTCOffsetMinutes,
		u.MaxWorkHours, u.MaxCommuteHours, u.MaxLunchHours,
		u.LunchReminderHour, u.LunchReminderMinute, u.EndOfDayHour, u.EndOfDayMinute,
		u.DailyTargetHours, u.ForgotThresholdPercent, u.IsAdmin, u.RegisteredAt, token)
	return err
}

// InsertIdentity implements Storage
func (s *pg) InsertIdentity(ctx context.Context, provider string, externalID int64, userID uuid.UUID) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO user_identities (provider, external_id, user_id)
		VALUES ($1, $2, $3)`, provider, externalID, userID)
	return err
}

// UpdateUser implements Storage, rewriting all mutable preference fields
func (s *pg) UpdateUser(ctx context.Context, u *domain.User) error {
	_, err := s.q.Exec(ctx, `
		UPDATE users SET
			display_name = $2, utc_offset_minutes = $3,
			max_work_hours = $4, max_commute_hours = $5, max_lunch_hours = $6,
			lunch_reminder_hour = $7, lunch_reminder_minute = $8,
			end_of_day_hour = $9, end_of_day_minute = $10,
			daily_target_hours = $11, forgot_threshold_percent = $12
		WHERE id = $1`,
		u.ID, u.DisplayName, u.UTCOffsetMinutes,
		u.MaxWorkHours, u.MaxCommuteHours, u.MaxLunchHours,
		u.LunchReminderHour, u.LunchReminderMinute, u.EndOfDayHour, u.EndOfDayMinute,
		u.DailyTargetHours, u.ForgotThresholdPercent)
	return err
}

// FindPendingByPhrase implements Storage; nil when unknown
func (s *pg) FindPendingByPhrase(ctx context.Context, phrase string) (*domain.PendingMnemonic, error) {
	var p domain.PendingMnemonic
	err := s.q.QueryRow(ctx, `
		SELECT id, phrase, created_at, expires_at, consumed,
			bind_provider, bind_external_id, grant_admin
		FROM pending_mnemonics
		WHERE phrase = $1`, phrase).Scan(
		&p.ID, &p.Phrase, &p.CreatedAt, &p.ExpiresAt, &p.Consumed,
		&p.BindProvider, &p.BindExternalID, &p.GrantAdmin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPending implements Storage
func (s *pg) InsertPending(ctx context.Context, p *domain.PendingMnemonic) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO pending_mnemonics
			(id, phrase, created_at, expires_at, consumed, bind_provider, bind_external_id, grant_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Phrase, p.CreatedAt, p.ExpiresAt, p.Consumed,
		p.BindProvider, p.BindExternalID, p.GrantAdmin)
	return err
}

// MarkConsumed implements Storage
func (s *pg) MarkConsumed(ctx context.Context, id uuid.UUID) error {
	_, err := s.q.Exec(ctx, `UPDATE pending_mnemonics SET consumed = TRUE WHERE id = $1`, id)
	return err
}

// DeleteExpiredOrConsumed implements Storage
func (s *pg) DeleteExpiredOrConsumed(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM pending_mnemonics
		WHERE consumed = TRUE OR expires_at <= $1`, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
