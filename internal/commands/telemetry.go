package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// TelemetryStatus is the outcome class of one command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a command execution outcome. Category and
// TextCode are lifted from the categorised error so callers can branch on
// them without unwrapping.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Category  goerrors.Category
	TextCode  string
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is invoked once per execution, after the command returns.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs outcomes to logger instead of the handler logger.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	logger = EnsureLogger(logger)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		logOutcome(logging.WithFields(logger, info.Fields), info)
	}
}

func newTelemetryInfo(err error) TelemetryInfo {
	info := TelemetryInfo{Error: err}
	var categorised *goerrors.Error
	if errors.As(err, &categorised) {
		info.Category = categorised.Category
		info.TextCode = categorised.TextCode
	}
	return info
}

// logOutcome writes one entry per run. Validation and not found failures
// come from the caller's input and are logged at warn.
func logOutcome(logger interfaces.Logger, info TelemetryInfo) {
	args := []any{"duration_ms", info.Duration.Milliseconds()}
	if info.Status == TelemetryStatusSuccess {
		logger.Info("command.execute.success", args...)
		return
	}

	args = append(args, "error", info.Error)
	if info.TextCode != "" {
		args = append(args, "error_code", info.TextCode)
	}
	switch {
	case info.Status == TelemetryStatusContextError:
		logger.Error("command.execute.context_error", args...)
	case info.Category == goerrors.CategoryValidation || info.Category == goerrors.CategoryNotFound:
		logger.Warn("command.execute.rejected", args...)
	default:
		logger.Error("command.execute.failed", args...)
	}
}
