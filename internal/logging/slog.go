// Package logging fans slog records out to the bridge's sinks: the
// per-session log file (or console), Graylog over GELF, and OTel.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// Seam for tests that need to observe console output.
var (
	osStdout io.Writer = os.Stdout
	osPipe             = os.Pipe
)

// levelNames maps config strings to slog levels. Unknown strings fall
// back to info.
var levelNames = map[string]slog.Level{
	"DEBUG": slog.LevelDebug,
	"INFO":  slog.LevelInfo,
	"WARN":  slog.LevelWarn,
	"ERROR": slog.LevelError,
}

func parseLevel(level string) slog.Level {
	if lvl, ok := levelNames[strings.ToUpper(level)]; ok {
		return lvl
	}
	return slog.LevelInfo
}

// SlogManager manages slog-based logging with optional Graylog and
// OTel sinks.
type SlogManager struct {
	logger *slog.Logger

	// Dynamic attributes injected into every record, e.g. the
	// active scene session.
	contextProvider ContextProvider

	// OTel provider for flushing
	logProvider *sdklog.LoggerProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// SetContextProvider registers a provider for dynamic record
// attributes. The provider is consulted per record, so it may be
// registered before or after Setup.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.contextProvider = p
}

// rfc3339Time rewrites the built-in time attribute to UTC RFC3339, so
// file, Graylog and OTel records all carry the same timestamp shape.
func rfc3339Time(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		if t, ok := a.Value.Any().(time.Time); ok {
			a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
		}
	}
	return a
}

// Setup initializes the logging system. Records go to the log file
// when one is provided, to the console otherwise. A non-nil gelf
// writer adds a Graylog sink, a non-nil provider adds an OTel sink.
func (m *SlogManager) Setup(file, gelf io.Writer, level string, provider *sdklog.LoggerProvider) {
	m.logProvider = provider

	opts := &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: rfc3339Time,
	}

	primary := file
	if primary == nil {
		primary = osStdout
	}

	sinks := []slog.Handler{slog.NewTextHandler(primary, opts)}
	if gelf != nil {
		// The GELF writer wraps whole JSON lines into GELF
		// messages, so a JSON handler feeds it directly.
		sinks = append(sinks, slog.NewJSONHandler(gelf, opts))
	}
	if provider != nil {
		sinks = append(sinks, otelslog.NewHandler("gleaflet_bridge", otelslog.WithLoggerProvider(provider)))
	}

	// The provider is read per record, so registering it before or
	// after Setup both work.
	var root slog.Handler = newFanout(sinks...)
	root = newSessionAttrs(root, func() []slog.Attr {
		if m.contextProvider == nil {
			return nil
		}
		return m.contextProvider()
	})

	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", level)
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m == nil || m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// Flush forces a flush of OTel logs if available.
func (m *SlogManager) Flush(ctx context.Context) error {
	if m.logProvider != nil {
		return m.logProvider.ForceFlush(ctx)
	}
	return nil
}

// WriteLog writes a log entry attributed to a named script command
// or handler.
func (m *SlogManager) WriteLog(name, data, level string) {
	if m.logger == nil {
		return
	}
	m.logger.Log(context.Background(), parseLevel(level), data, "handler", name)
}

// LogFilePath names a bridge log file after the session that produced
// it, so every run gets its own file.
func LogFilePath(logsDir, bridgeName string, sessionStart time.Time) string {
	stamp := sessionStart.Format("20060102_150405")
	return filepath.Join(logsDir, bridgeName+"."+stamp+".log")
}
