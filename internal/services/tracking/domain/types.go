// Package domain declares tracking DTOs and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
)

// StateChangeInput is the explicit state-change request body
type StateChangeInput struct {
	State string     `json:"state" validate:"required,oneof=working commuting lunch"`
	At    *time.Time `json:"at,omitempty"`
	Note  string     `json:"note,omitempty" validate:"max=500"`
}

// CommandInput carries a raw bot command plus the external identity it came from
type CommandInput struct {
	Provider   string `json:"provider" validate:"required"`
	ExternalID int64  `json:"external_id" validate:"required"`
	Command    string `json:"command" validate:"required"`
}

// NoteInput attaches a free-text note to one of the caller's sessions
type NoteInput struct {
	SessionID uuid.UUID `json:"session_id" validate:"required"`
	Note      string    `json:"note" validate:"max=500"`
}

// RangeInput bounds a session listing, both ends UTC
type RangeInput struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtfield=From"`
}

// Session is the wire shape of a tracked session
type Session struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	State     string     `json:"state"`
	Direction *string    `json:"direction,omitempty"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// ChangeResult reports what one state-change request did
type ChangeResult struct {
	Ended   *Session `json:"ended,omitempty"`
	Started *Session `json:"started,omitempty"`
}

// SessionDTO converts a core session to its wire shape
func SessionDTO(s *tracking.Session) *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		ID:        s.ID,
		UserID:    s.UserID,
		State:     string(s.State),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
		Note:      s.Note,
	}
	if s.Direction != nil {
		d := string(*s.Direction)
		out.Direction = &d
	}
	return out
}
