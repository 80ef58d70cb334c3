package notify

import (
	"context"

	"github.com/google/uuid"

	"workclock/internal/platform/logger"
)

// LogSink writes notifications to the structured log; it is the default sink
// and doubles as the delivery trace next to a real channel
type LogSink struct{}

// NewLogSink constructs a LogSink
func NewLogSink() LogSink { return LogSink{} }

// Send implements Sink
func (LogSink) Send(_ context.Context, userID uuid.UUID, kind Kind, message string) {
	logger.Named("notify").Info().
		Str("user_id", userID.String()).
		Str("kind", string(kind)).
		Str("message", message).
		Msg("notification")
}
