package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	correlationIDCtxKey contextKey = "correlation_id"
	commandCtxKey       contextKey = "command"
)

// Standard attribute keys used in logs.
const (
	CorrelationIDKey = "correlation_id"
	CommandKey       = "command"
	DurationKey      = "duration_ms"
	ErrorKey         = "error"
)

// WithCorrelationID adds a correlation ID to the context.
// If id is empty, a new UUID is generated.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	return context.WithValue(ctx, correlationIDCtxKey, id)
}

// CorrelationIDFromContext extracts the correlation ID from context.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDCtxKey).(string); ok {
		return id
	}
	return ""
}

// WithCommand records the CLI command being executed.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandCtxKey, command)
}

// CommandFromContext extracts the command name from context.
func CommandFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if cmd, ok := ctx.Value(commandCtxKey).(string); ok {
		return cmd
	}
	return ""
}

// NewCommandContext starts a fresh correlation scope for one CLI invocation.
func NewCommandContext(ctx context.Context, command string) context.Context {
	return WithCommand(WithCorrelationID(ctx, ""), command)
}
