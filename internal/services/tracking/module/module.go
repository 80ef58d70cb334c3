// Package module wires tracking into the API using modkit
package module

import (
	"net/http"

	modkit "workclock/internal/modkit"
	"workclock/internal/modkit/httpkit"
	str "workclock/internal/platform/strings"
	"workclock/internal/services/tracking/domain"
	trackinghttp "workclock/internal/services/tracking/http"
	trackingrepo "workclock/internal/services/tracking/repo"
	trackingsvc "workclock/internal/services/tracking/service"
)

// Ports exposed by the tracking module
// Directory is injected by the composition root (the users module implements it)
type Ports struct {
	Service   domain.ServicePort
	Directory domain.DirectoryPort
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

	svc trackingsvc.Service
}

// New constructs a tracking module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("tracking"),
		modkit.WithPrefix("/track"),
	}, opts...)...)

	var injected Ports
	if b.Ports != nil {
		injected = b.Ports.(Ports)
	}

	cfg := FromConfig(deps.Cfg)
	svc := trackingsvc.New(deps.PG, trackingrepo.NewPG(), deps.Locks, injected.Directory, trackingsvc.Config{
		MaxMinuteOffset: cfg.MaxMinuteOffset,
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = Ports{Service: svc, Directory: injected.Directory}

	external := b.Register
	m.register = func(r httpkit.Router) {
		trackinghttp.Register(r, m.svc)
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
