// Package api provides the HTTP API for the application
package api

import (
	"workclock/internal/platform/config"
	"workclock/internal/platform/logger"
	phttp "workclock/internal/platform/net/http"
	"workclock/internal/platform/store"
	"workclock/internal/platform/synckit"

	"workclock/internal/modkit"
	"workclock/internal/modkit/httpkit"
	"workclock/internal/modkit/module"
	"workclock/internal/modkit/swaggerkit"

	compliancemod "workclock/internal/services/compliance/module"
	holidaysmod "workclock/internal/services/holidays/module"
	trackingmod "workclock/internal/services/tracking/module"
	usersmod "workclock/internal/services/users/module"
)

// Options are the API options
type Options struct {
	Config        config.Conf
	Store         *store.Store
	Logger        *logger.Logger
	EnableSwagger bool

	// Locks lets callers share one keyed mutex set with co-hosted workers;
	// nil creates a fresh one
	Locks *synckit.Keyed
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	locks := opt.Locks
	if locks == nil {
		locks = synckit.NewKeyed()
	}

	// shared deps for modules
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		Locks: locks,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// Users first: its token store backs bearer auth everywhere else
	usersMod := usersmod.New(deps)
	auth := usersMod.AuthPort()
	usersPorts := module.MustPortsOf[usersmod.Ports](usersMod)

	trackingMod := trackingmod.New(
		deps,
		modkit.WithMiddlewares(httpkit.Auth(auth)),
		modkit.WithPorts(trackingmod.Ports{
			Directory: trackingmod.NewDirectory(usersPorts.Reader),
		}),
	)

	mods := []module.Module{
		usersMod,
		trackingMod,
		holidaysmod.New(deps, modkit.WithMiddlewares(httpkit.Auth(auth))),
		compliancemod.New(deps, modkit.WithMiddlewares(httpkit.Auth(auth))),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		swaggerkit.Mount(r, opt.EnableSwagger)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
