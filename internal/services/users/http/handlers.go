// Package http provides http transport for users
package http

import (
	stdhttp "net/http"

	"github.com/google/uuid"

	"workclock/internal/modkit/httpkit"
	perr "workclock/internal/platform/errors"
	"workclock/internal/platform/net/middleware"
	"workclock/internal/services/users/domain"
	svc "workclock/internal/services/users/service"
)

// Register mounts users endpoints on the given router
// registration is public; everything else sits behind bearer auth, and the
// admin subtree additionally requires the admin flag
func Register(r httpkit.Router, s svc.Service, auth middleware.AuthPort) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.RegisterInput](r, "/register", h.register)

	httpkit.Protected(r, auth, func(pr httpkit.Router) {
		httpkit.Get(pr, "/me", h.me)
		httpkit.PatchJSON[domain.PrefsInput](pr, "/me/prefs", h.prefs)

		pr.Route("/admin", func(ar httpkit.Router) {
			ar.Use(httpkit.AdminGuard())
			httpkit.PostJSON[domain.MintInput](ar, "/mnemonics", h.mint)
			httpkit.Get(ar, "", h.list)
		})
	})
}

type handlers struct{ svc svc.Service }

// @Summary Register an account by consuming a pending mnemonic
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body domain.RegisterInput true "Registration"
// @Success 200 {object} domain.RegisterOutput "ok"
// @Router /users/register [post]
func (h *handlers) register(r *stdhttp.Request, in domain.RegisterInput) (any, error) {
	return h.svc.Register(r.Context(), in)
}

// @Summary The caller's account
// @Tags Users
// @Produce json
// @Success 200 {object} domain.User "ok"
// @Router /users/me [get]
func (h *handlers) me(r *stdhttp.Request) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Me(r.Context(), uid)
}

// @Summary Update the caller's preferences
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body domain.PrefsInput true "Preferences"
// @Success 200 {object} domain.User "ok"
// @Router /users/me/prefs [patch]
func (h *handlers) prefs(r *stdhttp.Request, in domain.PrefsInput) (any, error) {
	uid, err := callerID(r)
	if err != nil {
		return nil, err
	}
	return h.svc.UpdatePrefs(r.Context(), uid, in)
}

// @Summary Mint a pending registration mnemonic (admin)
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body domain.MintInput true "Mint options"
// @Success 200 {object} domain.MintOutput "ok"
// @Router /users/admin/mnemonics [post]
func (h *handlers) mint(r *stdhttp.Request, in domain.MintInput) (any, error) {
	return h.svc.MintMnemonic(r.Context(), in)
}

// @Summary List all accounts (admin)
// @Tags Users
// @Produce json
// @Success 200 {array} domain.User "ok"
// @Router /users/admin [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.ListUsers(r.Context())
}

func callerID(r *stdhttp.Request) (uuid.UUID, error) {
	raw, err := httpkit.User(r)
	if err != nil {
		return uuid.Nil, err
	}
	uid, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, perr.Unauthorizedf("malformed user id")
	}
	return uid, nil
}
