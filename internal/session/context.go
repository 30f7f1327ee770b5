// Package session tracks the current bridge run: what scene is being
// driven, through which engine, and how much of it has been placed.
package session

import (
	"log/slog"
	"sync"
	"time"
)

// Info describes the current run.
type Info struct {
	SceneName  string
	ScriptPath string
	EngineKind string
	Surface    string
	StartedAt  time.Time
}

// Context holds the current run state shared between the command
// handlers, the status monitor and the logging context provider.
type Context struct {
	mu   sync.RWMutex
	info Info

	commands  int
	markers   int
	polylines int
}

// NewContext creates a new Context with default values.
func NewContext() *Context {
	return &Context{
		info: Info{SceneName: "No scene loaded"},
	}
}

// Begin replaces the run info and resets the counters. A zero
// StartedAt is stamped with the current time.
func (c *Context) Begin(info Info) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if info.StartedAt.IsZero() {
		info.StartedAt = time.Now()
	}
	c.info = info
	c.commands = 0
	c.markers = 0
	c.polylines = 0
}

// Info returns the current run info.
func (c *Context) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info
}

// SetSurface records the surface the active map was opened on.
func (c *Context) SetSurface(surface string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info.Surface = surface
}

// CountCommand increments the executed command counter.
func (c *Context) CountCommand() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commands++
}

// CountMarker increments the placed marker counter.
func (c *Context) CountMarker() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers++
}

// CountPolyline increments the placed polyline counter.
func (c *Context) CountPolyline() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polylines++
}

// Counters returns the live run counters.
func (c *Context) Counters() (commands, markers, polylines int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands, c.markers, c.polylines
}

// LogAttrs renders the run as dynamic log record attributes, in the
// shape the logging context handler expects.
func (c *Context) LogAttrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return []slog.Attr{
		slog.String("scene", c.info.SceneName),
		slog.String("engine", c.info.EngineKind),
	}
}
