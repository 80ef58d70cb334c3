package domain

import (
	"context"

	"github.com/google/uuid"
)

// ServicePort is the full users surface
type ServicePort interface {
	ReaderPort
	Register(ctx context.Context, in RegisterInput) (RegisterOutput, error)
	Me(ctx context.Context, userID uuid.UUID) (User, error)
	UpdatePrefs(ctx context.Context, userID uuid.UUID, in PrefsInput) (User, error)
	MintMnemonic(ctx context.Context, in MintInput) (MintOutput, error)
	ListUsers(ctx context.Context) ([]User, error)
}

// ReaderPort is the lookup surface other modules depend on
type ReaderPort interface {
	ByIdentity(ctx context.Context, provider string, externalID int64) (User, error)
}

// TokenPort backs the bearer-auth middleware
type TokenPort interface {
	ResolveToken(ctx context.Context, token string) (userID string, admin bool, err error)
}

// SweeperPort deletes expired or consumed credentials; the watch process
// drives it on a timer
type SweeperPort interface {
	SweepCredentials(ctx context.Context) (int, error)
}
