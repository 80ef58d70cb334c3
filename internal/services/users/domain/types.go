// Package domain declares user entities, DTOs and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the registered account with its clock and preference fields.
// All preference fields are nullable; absent means the related feature is off
type User struct {
	ID               uuid.UUID `json:"id"`
	DisplayName      string    `json:"display_name"`
	UTCOffsetMinutes int       `json:"utc_offset_minutes"`

	MaxWorkHours    *float64 `json:"max_work_hours,omitempty"`
	MaxCommuteHours *float64 `json:"max_commute_hours,omitempty"`
	MaxLunchHours   *float64 `json:"max_lunch_hours,omitempty"`

	LunchReminderHour   *int `json:"lunch_reminder_hour,omitempty"`
	LunchReminderMinute *int `json:"lunch_reminder_minute,omitempty"`
	EndOfDayHour        *int `json:"end_of_day_hour,omitempty"`
	EndOfDayMinute      *int `json:"end_of_day_minute,omitempty"`

	DailyTargetHours       *float64 `json:"daily_target_hours,omitempty"`
	ForgotThresholdPercent *int     `json:"forgot_threshold_percent,omitempty"`

	IsAdmin      bool      `json:"is_admin"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Identity binds an external (provider, id) pair to a user
type Identity struct {
	InternalID int64     `json:"internal_id"`
	Provider   string    `json:"provider"`
	ExternalID int64     `json:"external_id"`
	UserID     uuid.UUID `json:"user_id"`
}

// PendingMnemonic is a one-time registration credential
type PendingMnemonic struct {
	ID        uuid.UUID
	Phrase    string
	CreatedAt time.Time
	ExpiresAt time.Time
	Consumed  bool

	// optional binding applied when the credential is consumed
	BindProvider   *string
	BindExternalID *int64
	GrantAdmin     bool
}

// RegisterInput consumes a pending mnemonic and creates the account
type RegisterInput struct {
	Provider         string `json:"provider" validate:"required"`
	ExternalID       int64  `json:"external_id" validate:"required"`
	Mnemonic         string `json:"mnemonic" validate:"required"`
	DisplayName      string `json:"display_name" validate:"required,max=120"`
	UTCOffsetMinutes int    `json:"utc_offset_minutes" validate:"min=-720,max=840"`
}

// RegisterOutput returns the new account and its API token
type RegisterOutput struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// PrefsInput mutates preference fields; nil leaves a field untouched, and a
// pointer to the zero value clears it where the field is nullable
type PrefsInput struct {
	DisplayName      *string `json:"display_name,omitempty" validate:"omitempty,max=120"`
	UTCOffsetMinutes *int    `json:"utc_offset_minutes,omitempty" validate:"omitempty,min=-720,max=840"`

	MaxWorkHours    *float64 `json:"max_work_hours,omitempty" validate:"omitempty,gt=0"`
	MaxCommuteHours *float64 `json:"max_commute_hours,omitempty" validate:"omitempty,gt=0"`
	MaxLunchHours   *float64 `json:"max_lunch_hours,omitempty" validate:"omitempty,gt=0"`

	LunchReminderHour   *int `json:"lunch_reminder_hour,omitempty" validate:"omitempty,min=0,max=23"`
	LunchReminderMinute *int `json:"lunch_reminder_minute,omitempty" validate:"omitempty,min=0,max=59"`
	EndOfDayHour        *int `json:"end_of_day_hour,omitempty" validate:"omitempty,min=0,max=23"`
	EndOfDayMinute      *int `json:"end_of_day_minute,omitempty" validate:"omitempty,min=0,max=59"`

	DailyTargetHours       *float64 `json:"daily_target_hours,omitempty" validate:"omitempty,gt=0"`
	ForgotThresholdPercent *int     `json:"forgot_threshold_percent,omitempty" validate:"omitempty,gt=0"`
}

// MintInput creates a pending mnemonic (admin surface)
type MintInput struct {
	TTLMinutes     int     `json:"ttl_minutes,omitempty" validate:"omitempty,gt=0"`
	BindProvider   *string `json:"bind_provider,omitempty"`
	BindExternalID *int64  `json:"bind_external_id,omitempty"`
	GrantAdmin     bool    `json:"grant_admin,omitempty"`
}

// MintOutput carries the fresh credential back to the admin
type MintOutput struct {
	Phrase    string    `json:"phrase"`
	ExpiresAt time.Time `json:"expires_at"`
}
