package module

import "workclock/internal/platform/config"

// Options holds configuration settings for the tracking module
type Options struct {
	MaxMinuteOffset int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("CORE_TRACK_")
	return Options{
		MaxMinuteOffset: tf.MayInt("MAX_MINUTE_OFFSET", 720),
	}
}
