package interfaces

import "context"

// Logger is the leveled logging contract used across wikithread services.
// It matches github.com/goliatone/go-logger so hosts can plug that package
// in without adapters.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per module namespace
// (wikithread.markup, wikithread.documents, ...).
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is the optional extension for loggers that can carry
// structured fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
