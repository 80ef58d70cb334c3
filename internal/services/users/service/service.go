// Package service contains the users workflows: registration, preferences,
// credential minting, and the credential sweep
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"workclock/internal/core/mnemonic"
	"workclock/internal/modkit/repokit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/services/users/domain"
	"workclock/internal/services/users/repo"
)

// Config carries users service tunables
type Config struct {
	// MnemonicTTL is the default pending credential lifetime
	MnemonicTTL time.Duration
}

// DefaultMnemonicTTL applies when no TTL is configured or requested
const DefaultMnemonicTTL = 5 * time.Minute

// Service defines the service contract for users
type Service interface {
	domain.ServicePort
	domain.TokenPort
	domain.SweeperPort
}

// Svc implements the Service interface
type Svc struct {
	repo   repo.Storage
	binder repokit.Binder[repo.Storage]
	db     repokit.TxRunner
	cfg    Config

	now func() time.Time
}

// New creates a new users service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Svc {
	if db == nil {
		panic("users.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("users.Service requires a non nil Repo binder")
	}
	if cfg.MnemonicTTL <= 0 {
		cfg.MnemonicTTL = DefaultMnemonicTTL
	}
	return &Svc{repo: binder.Bind(db), binder: binder, db: db, cfg: cfg, now: time.Now}
}

// Register consumes a pending mnemonic and creates the account in one
// transaction. The credential must be unconsumed and unexpired, and when it
// was minted bound to an identity, the caller's identity must match
func (s *Svc) Register(ctx context.Context, in domain.RegisterInput) (domain.RegisterOutput, error) {
	phrase := mnemonic.Normalize(in.Mnemonic)
	if phrase == "" {
		return domain.RegisterOutput{}, perr.InvalidArgf("empty mnemonic")
	}
	now := s.now().UTC()

	var out domain.RegisterOutput
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)

		p, err := st.FindPendingByPhrase(ctx, phrase)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load pending mnemonic")
		}
		if p == nil {
			return perr.NotFoundf("unknown mnemonic")
		}
		if p.Consumed {
			return perr.CredentialConsumedf("mnemonic already used")
		}
		if !p.ExpiresAt.After(now) {
			return perr.CredentialExpiredf("mnemonic expired at %s", p.ExpiresAt.Format(time.RFC3339))
		}
		if p.BindProvider != nil &&
			(*p.BindProvider != in.Provider || p.BindExternalID == nil || *p.BindExternalID != in.ExternalID) {
			return perr.Forbiddenf("mnemonic is bound to a different identity")
		}

		if existing, err := st.ByIdentity(ctx, in.Provider, in.ExternalID); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "check identity")
		} else if existing != nil {
			return perr.Conflictf("identity %s/%d is already registered", in.Provider, in.ExternalID)
		}

		if err := st.MarkConsumed(ctx, p.ID); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "consume mnemonic")
		}

		u := domain.User{
			ID:               uuid.New(),
			DisplayName:      in.DisplayName,
			UTCOffsetMinutes: in.UTCOffsetMinutes,
			IsAdmin:          p.GrantAdmin,
			RegisteredAt:     now,
		}
		token := uuid.New()
		if err := st.InsertUser(ctx, &u, token); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "insert user")
		}
		if err := st.InsertIdentity(ctx, in.Provider, in.ExternalID, u.ID); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "insert identity")
		}
		out = domain.RegisterOutput{User: u, Token: token.String()}
		return nil
	})
	if err != nil {
		return domain.RegisterOutput{}, err
	}
	return out, nil
}

// Me returns the caller's account
func (s *Svc) Me(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	u, err := s.repo.ByID(ctx, userID)
	if err != nil {
		return domain.User{}, perr.Wrap(err, perr.ErrorCodeDB, "load user")
	}
	if u == nil {
		return domain.User{}, perr.NotFoundf("user %s", userID)
	}
	return *u, nil
}

// UpdatePrefs applies the set fields of in to the user's preferences
// field-level ranges are enforced by request validation; this only rechecks
// the offset because supervisor math depends on it
func (s *Svc) UpdatePrefs(ctx context.Context, userID uuid.UUID, in domain.PrefsInput) (domain.User, error) {
	if in.UTCOffsetMinutes != nil && (*in.UTCOffsetMinutes < -720 || *in.UTCOffsetMinutes > 840) {
		return domain.User{}, perr.InvalidArgf("utc offset %d out of range [-720, 840]", *in.UTCOffsetMinutes)
	}

	var out domain.User
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		u, err := st.ByID(ctx, userID)
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "load user")
		}
		if u == nil {
			return perr.NotFoundf("user %s", userID)
		}

		applyPrefs(u, in)
		if err := st.UpdateUser(ctx, u); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "update user")
		}
		out = *u
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return out, nil
}

func applyPrefs(u *domain.User, in domain.PrefsInput) {
	if in.DisplayName != nil {
		u.DisplayName = *in.DisplayName
	}
	if in.UTCOffsetMinutes != nil {
		u.UTCOffsetMinutes = *in.UTCOffsetMinutes
	}
	if in.MaxWorkHours != nil {
		u.MaxWorkHours = in.MaxWorkHours
	}
	if in.MaxCommuteHours != nil {
		u.MaxCommuteHours = in.MaxCommuteHours
	}
	if in.MaxLunchHours != nil {
		u.MaxLunchHours = in.MaxLunchHours
	}
	if in.LunchReminderHour != nil {
		u.LunchReminderHour = in.LunchReminderHour
	}
	if in.LunchReminderMinute != nil {
		u.LunchReminderMinute = in.LunchReminderMinute
	}
	if in.EndOfDayHour != nil {
		u.EndOfDayHour = in.EndOfDayHour
	}
	if in.EndOfDayMinute != nil {
		u.EndOfDayMinute = in.EndOfDayMinute
	}
	if in.DailyTargetHours != nil {
		u.DailyTargetHours = in.DailyTargetHours
	}
	if in.ForgotThresholdPercent != nil {
		u.ForgotThresholdPercent = in.ForgotThresholdPercent
	}
}

// MintMnemonic creates a fresh pending credential (admin surface)
func (s *Svc) MintMnemonic(ctx context.Context, in domain.MintInput) (domain.MintOutput, error) {
	phrase, err := mnemonic.Generate()
	if err != nil {
		return domain.MintOutput{}, err
	}
	ttl := s.cfg.MnemonicTTL
	if in.TTLMinutes > 0 {
		ttl = time.Duration(in.TTLMinutes) * time.Minute
	}
	now := s.now().UTC()
	p := domain.PendingMnemonic{
		ID:             uuid.New(),
		Phrase:         phrase,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		BindProvider:   in.BindProvider,
		BindExternalID: in.BindExternalID,
		GrantAdmin:     in.GrantAdmin,
	}
	err = s.db.Tx(ctx, func(q repokit.Queryer) error {
		if err := s.binder.Bind(q).InsertPending(ctx, &p); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "insert pending mnemonic")
		}
		return nil
	})
	if err != nil {
		return domain.MintOutput{}, err
	}
	return domain.MintOutput{Phrase: phrase, ExpiresAt: p.ExpiresAt}, nil
}

// ListUsers returns every account (admin surface)
func (s *Svc) ListUsers(ctx context.Context) ([]domain.User, error) {
	out, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list users")
	}
	return out, nil
}

// ByIdentity implements domain.ReaderPort
func (s *Svc) ByIdentity(ctx context.Context, provider string, externalID int64) (domain.User, error) {
	u, err := s.repo.ByIdentity(ctx, provider, externalID)
	if err != nil {
		return domain.User{}, perr.Wrap(err, perr.ErrorCodeDB, "load user by identity")
	}
	if u == nil {
		return domain.User{}, perr.NotFoundf("no user for identity %s/%d", provider, externalID)
	}
	return *u, nil
}

// ResolveToken implements domain.TokenPort for the bearer-auth middleware
func (s *Svc) ResolveToken(ctx context.Context, token string) (string, bool, error) {
	tok, err := uuid.Parse(token)
	if err != nil {
		return "", false, perr.Unauthorizedf("malformed token")
	}
	u, err := s.repo.ByToken(ctx, tok)
	if err != nil {
		return "", false, perr.Wrap(err, perr.ErrorCodeDB, "resolve token")
	}
	if u == nil {
		return "", false, perr.Unauthorizedf("unknown token")
	}
	return u.ID.String(), u.IsAdmin, nil
}

// SweepCredentials implements domain.SweeperPort
func (s *Svc) SweepCredentials(ctx context.Context) (int, error) {
	var n int
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		n, err = s.binder.Bind(q).DeleteExpiredOrConsumed(ctx, s.now().UTC())
		if err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "sweep credentials")
		}
		return nil
	})
	return n, err
}
