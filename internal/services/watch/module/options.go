package module

import (
	"time"

	"workclock/internal/platform/config"
)

// Options for the watch module
type Options struct {
	AutoShutdownInterval time.Duration
	ForgotInterval       time.Duration
	ReminderInterval     time.Duration
	ReapInterval         time.Duration

	ReminderWindow         time.Duration
	ForgotThresholdPercent int
	ForgotHistory          int

	// WebhookURL, when set, adds a webhook sink next to the log sink
	WebhookURL     string
	WebhookTimeout time.Duration
}

// FromConfig fills options from environment
// WATCH_AUTO_SHUTDOWN_INTERVAL (default 3m) is the cap-enforcement sweep cadence
// WATCH_FORGOT_INTERVAL (default 3m) is the forgot-shutdown sweep cadence
// WATCH_REMINDER_INTERVAL (default 1m) is the reminder sweep cadence
// WATCH_REAP_INTERVAL (default 5m) is the credential reaper cadence
// WATCH_FORGOT_THRESHOLD_PERCENT (default 150) applies when a user has not set their own
func FromConfig(cfg config.Conf) Options {
	w := cfg.Prefix("WATCH_")
	return Options{
		AutoShutdownInterval:   w.MayDuration("AUTO_SHUTDOWN_INTERVAL", 3*time.Minute),
		ForgotInterval:         w.MayDuration("FORGOT_INTERVAL", 3*time.Minute),
		ReminderInterval:       w.MayDuration("REMINDER_INTERVAL", time.Minute),
		ReapInterval:           w.MayDuration("REAP_INTERVAL", 5*time.Minute),
		ReminderWindow:         w.MayDuration("REMINDER_WINDOW", time.Minute),
		ForgotThresholdPercent: w.MayInt("FORGOT_THRESHOLD_PERCENT", 150),
		ForgotHistory:          w.MayInt("FORGOT_HISTORY", 30),
		WebhookURL:             w.MayString("WEBHOOK_URL", ""),
		WebhookTimeout:         w.MayDuration("WEBHOOK_TIMEOUT", 5*time.Second),
	}
}
