package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ServicePort is the holidays surface
type ServicePort interface {
	CheckerPort
	Create(ctx context.Context, userID uuid.UUID, in CreateInput) (Holiday, error)
	List(ctx context.Context, userID uuid.UUID) ([]Holiday, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CheckerPort answers day membership; the reminder supervisor consumes it
type CheckerPort interface {
	IsHolidayOn(ctx context.Context, userID uuid.UUID, date time.Time) (bool, error)
}
