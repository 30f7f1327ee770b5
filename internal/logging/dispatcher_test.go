package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(dl *DispatcherLogger)
		wantLevel string
		wantMsg   string
		wantAttrs map[string]any
	}{
		{
			name:      "debug",
			log:       func(dl *DispatcherLogger) { dl.Debug("handling event", "command", "marker", "line", 4) },
			wantLevel: "DEBUG",
			wantMsg:   "handling event",
			wantAttrs: map[string]any{"command": "marker", "line": float64(4)},
		},
		{
			name:      "info",
			log:       func(dl *DispatcherLogger) { dl.Info("handlers registered", "count", 9) },
			wantLevel: "INFO",
			wantMsg:   "handlers registered",
			wantAttrs: map[string]any{"count": float64(9)},
		},
		{
			name:      "error",
			log:       func(dl *DispatcherLogger) { dl.Error("event failed", "command", "attach", "error", "marker not cached") },
			wantLevel: "ERROR",
			wantMsg:   "event failed",
			wantAttrs: map[string]any{"command": "attach", "error": "marker not cached"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			dl := NewDispatcherLogger(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			tt.log(dl)

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("parsing record: %v", err)
			}
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", entry["level"], tt.wantLevel)
			}
			if entry["msg"] != tt.wantMsg {
				t.Errorf("msg = %v, want %v", entry["msg"], tt.wantMsg)
			}
			for k, want := range tt.wantAttrs {
				if entry[k] != want {
					t.Errorf("attr %s = %v, want %v", k, entry[k], want)
				}
			}
		})
	}
}

func TestDispatcherLogger_SatisfiesDispatcherInterface(t *testing.T) {
	dl := NewDispatcherLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	// Mirrors dispatcher.Logger; fails to compile if the adapter drifts.
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = dl
}
