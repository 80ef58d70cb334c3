package domain

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/tracking"
)

// ServicePort is the tracking surface other modules and transports consume
type ServicePort interface {
	RecordStateChange(ctx context.Context, userID uuid.UUID, state tracking.State, ts time.Time, note string) (ChangeResult, error)
	RecordCommand(ctx context.Context, in CommandInput) (ChangeResult, error)
	ActiveSession(ctx context.Context, userID uuid.UUID) (*Session, error)
	SessionsInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Session, error)
	SetNote(ctx context.Context, userID uuid.UUID, sessionID uuid.UUID, note string) error
}

// UserClock is what command handling needs to know about a user
type UserClock struct {
	UserID           uuid.UUID
	UTCOffsetMinutes int
}

// DirectoryPort resolves an external identity to its user's clock settings
// implemented by the users module and injected at composition time
type DirectoryPort interface {
	ClockByIdentity(ctx context.Context, provider string, externalID int64) (UserClock, error)
}
