package module

import (
	"context"

	"workclock/internal/services/tracking/domain"
	usersdom "workclock/internal/services/users/domain"
)

// directoryAdapter turns the users lookup port into the tracking DirectoryPort
type directoryAdapter struct {
	users usersdom.ReaderPort
}

// NewDirectory adapts a users reader for injection into the tracking module
func NewDirectory(p usersdom.ReaderPort) domain.DirectoryPort {
	if p == nil {
		panic("tracking: directory requires a non-nil users reader")
	}
	return directoryAdapter{users: p}
}

// ClockByIdentity implements domain.DirectoryPort
func (a directoryAdapter) ClockByIdentity(
	ctx context.Context,
	provider string,
	externalID int64,
) (domain.UserClock, error) {
	u, err := a.users.ByIdentity(ctx, provider, externalID)
	if err != nil {
		return domain.UserClock{}, err
	}
	return domain.UserClock{UserID: u.ID, UTCOffsetMinutes: u.UTCOffsetMinutes}, nil
}
