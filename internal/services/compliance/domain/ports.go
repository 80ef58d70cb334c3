package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ServicePort is the compliance surface
type ServicePort interface {
	PutRule(ctx context.Context, userID uuid.UUID, in RuleInput) (Rule, error)
	ListRules(ctx context.Context, userID uuid.UUID) ([]Rule, error)
	DeleteRule(ctx context.Context, userID, id uuid.UUID) error
	Evaluate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Violation, error)
}
