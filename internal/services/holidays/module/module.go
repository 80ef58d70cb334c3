// Package module wires holidays into the API using modkit
package module

import (
	"net/http"

	modkit "workclock/internal/modkit"
	"workclock/internal/modkit/httpkit"
	str "workclock/internal/platform/strings"
	"workclock/internal/services/holidays/domain"
	holidayshttp "workclock/internal/services/holidays/http"
	holidaysrepo "workclock/internal/services/holidays/repo"
	holidayssvc "workclock/internal/services/holidays/service"
)

// Ports exposed by the holidays module
type Ports struct {
	Service domain.ServicePort
	Checker domain.CheckerPort
}

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws   []func(http.Handler) http.Handler
	ports Ports

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc holidayssvc.Service
}

// New constructs a holidays module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("holidays"),
		modkit.WithPrefix("/holidays"),
	}, opts...)...)

	svc := holidayssvc.New(deps.PG, holidaysrepo.NewPG())

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc, Checker: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		holidayshttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

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
