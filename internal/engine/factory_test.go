// internal/engine/factory_test.go
package engine

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/engine/journal"
	"github.com/Cmooon-dev/gleaflet/internal/engine/websocket"
)

// The optional capabilities each backend advertises.
var (
	_ Flusher          = (*journal.Engine)(nil)
	_ QueueLenProvider = (*journal.Engine)(nil)
	_ QueueLenProvider = (*websocket.Engine)(nil)
)

func TestNewMemoryEngine(t *testing.T) {
	eng, err := New(config.EngineConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if eng == nil {
		t.Fatal("expected an engine, got nil")
	}

	// The memory engine is the one that can snapshot
	if _, ok := eng.(Snapshotter); !ok {
		t.Error("memory engine should implement Snapshotter")
	}
}

func TestNewJournalEngine(t *testing.T) {
	eng, err := New(config.EngineConfig{
		Type: "journal",
		Journal: config.JournalConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "journal.db"),
		},
		SceneName: "factory",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, ok := eng.(Flusher); !ok {
		t.Error("journal engine should implement Flusher")
	}
	if _, ok := eng.(QueueLenProvider); !ok {
		t.Error("journal engine should implement QueueLenProvider")
	}

	if closer, ok := eng.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	} else {
		t.Error("journal engine should implement io.Closer")
	}
}

func TestNewUnknownEngineType(t *testing.T) {
	_, err := New(config.EngineConfig{Type: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected error for unknown engine type")
	}
	if !strings.Contains(err.Error(), "unknown engine type") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewEmptyEngineType(t *testing.T) {
	_, err := New(config.EngineConfig{})
	if err == nil {
		t.Fatal("expected error for empty engine type")
	}
}
