package commands

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single parse, validate or render command.
const DefaultCommandTimeout = 10 * time.Second

// beginExecution prepares the context of one command run. A nil ctx becomes
// context.Background and a positive timeout bounds the run.
func beginExecution(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// settle classifies a finished run and returns the categorised error. A
// command that returns a cancellation or deadline error counts as a context
// error, the same as one that ignored an expired context.
func settle(ctx context.Context, err error) (TelemetryStatus, error) {
	switch {
	case err != nil && isContextError(err):
		return TelemetryStatusContextError, wrapExecuteError(err)
	case err != nil:
		return TelemetryStatusFailed, wrapExecuteError(err)
	case ctx.Err() != nil:
		return TelemetryStatusContextError, wrapContextError(ctx.Err())
	default:
		return TelemetryStatusSuccess, nil
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// EnsureLogger returns logger, or a no-op logger when it is nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
