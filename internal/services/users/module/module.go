// Package module wires users into the API using modkit
package module

import (
	"context"
	"net/http"

	modkit "workclock/internal/modkit"
	"workclock/internal/modkit/httpkit"
	"workclock/internal/platform/net/middleware"
	str "workclock/internal/platform/strings"
	"workclock/internal/services/users/domain"
	usershttp "workclock/internal/services/users/http"
	usersrepo "workclock/internal/services/users/repo"
	userssvc "workclock/internal/services/users/service"
)

// Ports exposed by the users module
type Ports struct {
	Service domain.ServicePort
	Reader  domain.ReaderPort
	Tokens  domain.TokenPort
	Sweeper domain.SweeperPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports
	auth  middleware.AuthPort

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc userssvc.Service
}

// New constructs a users module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("users"),
		modkit.WithPrefix("/users"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	svc := userssvc.New(deps.PG, usersrepo.NewPG(), userssvc.Config{
		MnemonicTTL: cfg.MnemonicTTL,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc, Reader: svc, Tokens: svc, Sweeper: svc}
	m.auth = httpkit.NewPortFunc(func(token string) (string, bool, error) {
		return svc.ResolveToken(context.Background(), token)
	})

	external := b.Register
	m.register = func(r httpkit.Router) {
		usershttp.Register(r, m.svc, m.auth)
		if external != nil {
			external(r)
		}
	}
	return m
}

// AuthPort returns the bearer-auth port backed by this module's token store
// other modules mount it on their protected routes
func (m *Module) AuthPort() middleware.AuthPort { return m.auth }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
