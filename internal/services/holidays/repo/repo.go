// Package repo provides the holidays repository implementation.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workclock/internal/modkit/repokit"
	"workclock/internal/services/holidays/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the holidays repository
type Storage interface {
	Insert(ctx context.Context, h *domain.Holiday) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Holiday, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)
	CoversDate(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
}

// Insert implements Storage
func (s *pg) Insert(ctx context.Context, h *domain.Holiday) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO holidays (id, user_id, start_date, end_date, type, description)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))`,
		h.ID, h.UserID, h.StartDate, h.EndDate, h.Type, h.Description)
	return err
}

// ListByUser implements Storage, earliest range first
func (s *pg) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Holiday, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, user_id, start_date, end_date, type, COALESCE(description, '')
		FROM holidays
		WHERE user_id = $1
		ORDER BY start_date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Holiday
	for rows.Next() {
		var h domain.Holiday
		if err := rows.Scan(&h.ID, &h.UserID, &h.StartDate, &h.EndDate, &h.Type, &h.Description); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Delete implements Storage; false when the holiday is not the user's
func (s *pg) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	tag, err := s.q.Exec(ctx, `
		DELETE FROM holidays WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CoversDate implements Storage; ranges are inclusive on both ends
func (s *pg) CoversDate(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error) {
	var ok bool
	err := s.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE user_id = $1 AND start_date <= $2 AND end_date >= $2
		)`, userID, date).Scan(&ok)
	return ok, err
}
