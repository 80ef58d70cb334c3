package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"workclock/internal/modkit"
	"workclock/internal/modkit/module"
	"workclock/internal/platform/config"
	"workclock/internal/platform/logger"
	"workclock/internal/platform/store"
	"workclock/internal/platform/synckit"

	holidaysmod "workclock/internal/services/holidays/module"
	usersmod "workclock/internal/services/users/module"
	watchmod "workclock/internal/services/watch/module"
)

func main() {
	root := config.New()
	dbCfg := root.Prefix("SERVICE_PGSQL_")

	l := logger.Get()

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         dbCfg.MustString("DBURL"),
			MaxConns:    int32(dbCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: dbCfg.MayInt("SLOW_MS", 500),
			LogSQL:      dbCfg.MayBool("LOG_SQL", false),
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Shared deps
	deps := modkit.Deps{
		Cfg:   root,
		PG:    st.PG,
		Log:   *l,
		Locks: synckit.NewKeyed(),
	}

	// The supervisors borrow the holiday checker and credential sweeper from
	// their owning modules
	holidays := holidaysmod.New(deps)
	users := usersmod.New(deps)

	wm := watchmod.New(deps, modkit.WithPorts(watchmod.Ports{
		Checker: module.MustPortsOf[holidaysmod.Ports](holidays).Checker,
		Sweeper: module.MustPortsOf[usersmod.Ports](users).Sweeper,
	}))

	module.Register(wm.Name(), wm.Ports())
	ports := module.MustPortsOf[watchmod.Ports](wm)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ports.Runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal().Err(err).Msg("watch supervisors failed")
	}
	l.Info().Msg("watch shut down cleanly")
}
