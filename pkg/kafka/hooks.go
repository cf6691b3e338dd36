package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// ConsumerHook defines lifecycle hooks around message handling.
// Hooks can mutate context, message, and payload.
// Returning a non-nil error from BeforeHandle will skip handler execution
// and trigger error processing (OnError, DLQ, and offset commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook is a default hook that does nothing and is fully panic-safe.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {}

func (NoopHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {}

// HookError represents an error produced by a hook.
// Code can be used to classify errors (e.g., "ERR_VALIDATION", "ERR_TRANSFORM").
type HookError struct {
	Code string
	Err  error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *HookError) Unwrap() error { return e.Err }

// LoggingHook records per-message handling latency and failures.
type LoggingHook struct {
	log zerolog.Logger
}

// NewLoggingHook creates a hook that logs message outcomes.
func NewLoggingHook(log zerolog.Logger) *LoggingHook {
	return &LoggingHook{log: log.With().Str("component", "kafka_consumer").Logger()}
}

type hookCtxKey string

const hookStartKey hookCtxKey = "kafka_hook_start_time"

func (h *LoggingHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return context.WithValue(ctx, hookStartKey, time.Now()), km, data, nil
}

func (h *LoggingHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	ev := h.log.Debug()
	if err != nil {
		ev = h.log.Warn().Err(err)
	}
	if start, ok := ctx.Value(hookStartKey).(time.Time); ok {
		ev = ev.Dur("took", time.Since(start))
	}
	ev.Str("topic", topic).Int("partition", km.Partition).Int64("offset", km.Offset).Msg("message handled")
}

func (h *LoggingHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	h.log.Error().Err(err).
		Str("topic", topic).
		Int("partition", km.Partition).
		Int64("offset", km.Offset).
		Msg("message handling failed")
}
