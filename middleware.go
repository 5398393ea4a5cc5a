package poke

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// ValidationMiddleware rejects commands whose Validate fails.
func ValidationMiddleware() Middleware {
	return func(next MiddlewareFunc) MiddlewareFunc {
		return func(ctx context.Context, cmd Command) (CommandResult, error) {
			if err := cmd.Validate(); err != nil {
				return NewErrorResult(err), err
			}
			return next(ctx, cmd)
		}
	}
}

// RecoveryMiddleware turns handler panics into *PanicError.
func RecoveryMiddleware() Middleware {
	return func(next MiddlewareFunc) MiddlewareFunc {
		return func(ctx context.Context, cmd Command) (result CommandResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					panicErr := NewPanicError(cmd.CommandType(), r, string(debug.Stack()))
					result = NewErrorResult(panicErr)
					err = panicErr
				}
			}()
			return next(ctx, cmd)
		}
	}
}

// LoggingMiddleware logs every command with its outcome and duration.
func LoggingMiddleware(logger Logger) Middleware {
	return func(next MiddlewareFunc) MiddlewareFunc {
		return func(ctx context.Context, cmd Command) (CommandResult, error) {
			start := time.Now()
			logger.Debug("dispatching command", "type", cmd.CommandType(), "correlation_id", CorrelationIDFromContext(ctx))

			result, err := next(ctx, cmd)
			duration := time.Since(start)

			if err != nil {
				logger.Warn("command rejected",
					"type", cmd.CommandType(),
					"duration", duration,
					"error", err,
				)
			} else {
				logger.Info("command completed",
					"type", cmd.CommandType(),
					"duration", duration,
					"aggregate_id", result.AggregateID,
					"version", result.Version,
				)
			}
			return result, err
		}
	}
}

// TimeoutMiddleware bounds command execution by timeout.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next MiddlewareFunc) MiddlewareFunc {
		return func(ctx context.Context, cmd Command) (CommandResult, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, cmd)
		}
	}
}

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation ID in ctx, if any.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// MetadataFromContext returns the event metadata carried by ctx. Events
// appended through a TypedStore get it attached.
func MetadataFromContext(ctx context.Context) (Metadata, bool) {
	id := CorrelationIDFromContext(ctx)
	if id == "" {
		return Metadata{}, false
	}
	return Metadata{CorrelationID: id}, true
}

// CorrelationIDMiddleware makes sure a correlation ID is in the context. It
// keeps an existing one, then tries the command's own, then generates one.
// A nil generator uses random UUIDs.
func CorrelationIDMiddleware(generator func() string) Middleware {
	if generator == nil {
		generator = uuid.NewString
	}
	return func(next MiddlewareFunc) MiddlewareFunc {
		return func(ctx context.Context, cmd Command) (CommandResult, error) {
			if CorrelationIDFromContext(ctx) != "" {
				return next(ctx, cmd)
			}
			var id string
			if c, ok := cmd.(interface{ GetCorrelationID() string }); ok {
				id = c.GetCorrelationID()
			}
			if id == "" {
				id = generator()
			}
			return next(WithCorrelationID(ctx, id), cmd)
		}
	}
}
