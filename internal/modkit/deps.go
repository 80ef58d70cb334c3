// Package modkit provides module wiring and core deps
package modkit

import (
	"workclock/internal/modkit/repokit"
	"workclock/internal/platform/config"
	"workclock/internal/platform/logger"
	"workclock/internal/platform/synckit"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner

	// Locks is the process-wide per-user mutex set shared by the tracking
	// service and the supervisors so scheduled writes never interleave with
	// request handling for the same user
	Locks *synckit.Keyed
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
