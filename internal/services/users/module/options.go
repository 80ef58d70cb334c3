package module

import (
	"time"

	"workclock/internal/platform/config"
)

// Options holds configuration settings for the users module
type Options struct {
	MnemonicTTL time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	uf := cfg.Prefix("CORE_USERS_")
	return Options{
		MnemonicTTL: uf.MayDuration("MNEMONIC_TTL", 5*time.Minute),
	}
}
