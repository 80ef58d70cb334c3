// Package domain declares holiday entities, DTOs and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Types a holiday entry can carry
const (
	TypeHoliday  = "holiday"
	TypeVacation = "vacation"
	TypeSick     = "sick"
)

// Holiday is one inclusive date range during which a user is away
type Holiday struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
}

// CreateInput adds a holiday range for the caller
type CreateInput struct {
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=holiday vacation sick"`
	Description string    `json:"description,omitempty" validate:"max=500"`
}
