package logging

import "log/slog"

// DispatcherLogger narrows a slog.Logger to the levels the dispatcher
// logs at. The embedded logger's Debug/Info/Error already have the
// shapes the dispatcher's Logger interface asks for; the named type
// keeps the dispatcher's signatures free of slog.
type DispatcherLogger struct {
	*slog.Logger
}

// NewDispatcherLogger wraps a slog.Logger for the dispatcher.
func NewDispatcherLogger(logger *slog.Logger) *DispatcherLogger {
	return &DispatcherLogger{Logger: logger}
}
