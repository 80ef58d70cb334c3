// Package module wires the watch supervisors as a modkit.Module
package module

import (
	modkit "workclock/internal/modkit"
	"workclock/internal/modkit/httpkit"

	"workclock/internal/adapters/notify"
	holidaysdom "workclock/internal/services/holidays/domain"
	usersdom "workclock/internal/services/users/domain"
	"workclock/internal/services/watch/domain"
	watchrepo "workclock/internal/services/watch/repo"
	watchsvc "workclock/internal/services/watch/service"
)

// Ports exported by the watch module
// Checker and Sweeper are injected by the composition root; Sink may be
// injected too, otherwise it is built from config
type Ports struct {
	Runner  domain.RunnerPort
	Sink    notify.Sink
	Checker holidaysdom.CheckerPort
	Sweeper usersdom.SweeperPort
}

// Module implements modkit.Module for the watch supervisors
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs and wires the watch module using deps.Cfg
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(opts...)

	var injected Ports
	if b.Ports != nil {
		injected = b.Ports.(Ports)
	}

	o := FromConfig(deps.Cfg)

	sink := injected.Sink
	if sink == nil {
		sink = buildSink(o)
	}

	svc := watchsvc.New(
		deps.PG,
		watchrepo.NewPG(),
		deps.Locks,
		sink,
		injected.Checker,
		injected.Sweeper,
		watchsvc.Config{
			AutoShutdownInterval:   o.AutoShutdownInterval,
			ForgotInterval:         o.ForgotInterval,
			ReminderInterval:       o.ReminderInterval,
			ReapInterval:           o.ReapInterval,
			ReminderWindow:         o.ReminderWindow,
			ForgotThresholdPercent: o.ForgotThresholdPercent,
			ForgotHistory:          o.ForgotHistory,
		},
	)

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc, Sink: sink, Checker: injected.Checker, Sweeper: injected.Sweeper}
	return m
}

func buildSink(o Options) notify.Sink {
	log := notify.NewLogSink()
	if o.WebhookURL == "" {
		return log
	}
	return notify.Multi{log, notify.NewWebhookSink(o.WebhookURL, o.WebhookTimeout)}
}

// Name returns the module name
func (m *Module) Name() string { return "watch" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix returns the module route prefix (none)
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op: the watch module has no HTTP routes
func (m *Module) MountRoutes(_ httpkit.Router) {}
