// Package domain declares compliance DTOs and ports
package domain

import (
	"time"

	"github.com/google/uuid"

	core "workclock/internal/core/compliance"
)

// RuleInput creates or replaces a compliance rule for the caller
type RuleInput struct {
	Type           string  `json:"type" validate:"required,oneof=MinimumSpan"`
	ClockIn        string  `json:"clock_in" validate:"required,oneof=commute_end work_start"`
	ClockOut       string  `json:"clock_out" validate:"required,oneof=commute_start work_end"`
	ThresholdHours float64 `json:"threshold_hours" validate:"required,gt=0"`
	Enabled        bool    `json:"enabled"`
}

// EvaluateInput bounds an evaluation run, both ends UTC
type EvaluateInput struct {
	From time.Time `json:"from" validate:"required"`
	To   time.Time `json:"to" validate:"required,gtfield=From"`
}

// Rule is the wire shape of a stored rule
type Rule struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Type           string    `json:"type"`
	ClockIn        string    `json:"clock_in"`
	ClockOut       string    `json:"clock_out"`
	ThresholdHours float64   `json:"threshold_hours"`
	Enabled        bool      `json:"enabled"`
}

// Violation is the wire shape of one evaluator finding
type Violation struct {
	Date           time.Time `json:"date"`
	RuleType       string    `json:"rule_type"`
	ActualHours    float64   `json:"actual_hours"`
	ThresholdHours float64   `json:"threshold_hours"`
	Description    string    `json:"description"`
}

// RuleDTO converts a core rule to its wire shape
func RuleDTO(r core.Rule) Rule {
	return Rule{
		ID:             r.ID,
		UserID:         r.UserID,
		Type:           r.Type,
		ClockIn:        string(r.ClockIn),
		ClockOut:       string(r.ClockOut),
		ThresholdHours: r.ThresholdHours,
		Enabled:        r.Enabled,
	}
}

// ViolationDTO converts a core violation to its wire shape
func ViolationDTO(v core.Violation) Violation {
	return Violation{
		Date:           v.Date,
		RuleType:       v.RuleType,
		ActualHours:    v.ActualHours,
		ThresholdHours: v.ThresholdHours,
		Description:    v.Description,
	}
}
