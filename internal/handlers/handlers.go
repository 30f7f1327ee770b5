// Package handlers maps parsed script commands onto the scene library.
//
// One Manager owns the handler set for a bridge run. Handlers parse
// their event args through the parser service, build scene values with
// the public builders, and keep named entries in the scene cache so
// later attach and detach lines can find them.
package handlers

import (
	"fmt"
	"sync"

	"github.com/Cmooon-dev/gleaflet/internal/cache"
	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/internal/dispatcher"
	"github.com/Cmooon-dev/gleaflet/internal/engine"
	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/logging"
	"github.com/Cmooon-dev/gleaflet/internal/parser"
	"github.com/Cmooon-dev/gleaflet/internal/session"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// ErrNoActiveMap is returned when a command needs a target map before
// the script has opened one with a map line.
var ErrNoActiveMap = fmt.Errorf("no active map, open one with a map line first")

// Dependencies holds all dependencies for the handler manager
type Dependencies struct {
	SceneCache    *cache.SceneCache
	Session       *session.Context
	LogManager    *logging.SlogManager
	ParserService parser.Service
}

// Manager owns the script command handlers and the map they target
type Manager struct {
	deps   Dependencies
	engine scene.Engine

	mu        sync.Mutex
	activeMap *scene.Map
}

// NewManager creates a new handler manager driving the given engine
func NewManager(deps Dependencies, eng scene.Engine) *Manager {
	return &Manager{
		deps:   deps,
		engine: eng,
	}
}

// RegisterHandlers registers all script command handlers with the
// dispatcher. Every command stays synchronous: scene lines depend on
// the lines before them (a view needs its map, an attach needs its
// marker), so buffering would reorder them.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(defs.CmdMap, m.handleMap, dispatcher.Logged())
	d.Register(defs.CmdView, m.handleView, dispatcher.Logged())
	d.Register(defs.CmdTiles, m.handleTiles, dispatcher.Logged())
	d.Register(defs.CmdStyle, m.handleStyle, dispatcher.Logged())
	d.Register(defs.CmdIcon, m.handleIcon, dispatcher.Logged())
	d.Register(defs.CmdMarker, m.handleMarker, dispatcher.Logged())
	d.Register(defs.CmdLine, m.handleLine, dispatcher.Logged())
	d.Register(defs.CmdAttach, m.handleAttach, dispatcher.Logged())
	d.Register(defs.CmdDetach, m.handleDetach, dispatcher.Logged())
}

// ActiveMap returns the map the handlers currently target, or nil
// before the script's first map line.
func (m *Manager) ActiveMap() *scene.Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeMap
}

// Snapshot returns the engine's current scene document.
// Returns nil if the engine doesn't keep one.
func (m *Manager) Snapshot() *exportv1.SceneDocument {
	if s, ok := m.engine.(engine.Snapshotter); ok {
		return s.Snapshot()
	}
	return nil
}

// QueueLen returns how much outbound work the engine still has
// buffered. Returns 0 if the engine doesn't buffer.
func (m *Manager) QueueLen() int {
	if p, ok := m.engine.(engine.QueueLenProvider); ok {
		return p.QueueLen()
	}
	return 0
}

// Flush tells a batching engine to persist everything buffered so
// far. Engines that don't batch have nothing to do.
func (m *Manager) Flush() error {
	if f, ok := m.engine.(engine.Flusher); ok {
		return f.Flush()
	}
	return nil
}

func (m *Manager) currentMap() (*scene.Map, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeMap == nil {
		return nil, ErrNoActiveMap
	}
	return m.activeMap, nil
}

func (m *Manager) handleMap(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseMap(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}

	mp, err := scene.NewMap(m.engine, cmd.Surface)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}

	m.mu.Lock()
	if m.activeMap != nil {
		m.deps.LogManager.Logger().Warn("Script opened another map, switching the active target", "surface", cmd.Surface)
	}
	m.activeMap = mp
	m.mu.Unlock()

	m.deps.Session.SetSurface(cmd.Surface)

	return nil, nil
}

func (m *Manager) handleView(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseView(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to set view: %w", err)
	}

	mp, err := m.currentMap()
	if err != nil {
		return nil, err
	}

	if err := mp.SetView(cmd.Lat, cmd.Lon, cmd.Zoom).Err(); err != nil {
		return nil, fmt.Errorf("failed to set view: %w", err)
	}

	return nil, nil
}

func (m *Manager) handleTiles(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseTiles(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to add tile layer: %w", err)
	}

	mp, err := m.currentMap()
	if err != nil {
		return nil, err
	}

	if err := mp.AddTileLayer(cmd.URL, cmd.Options).Err(); err != nil {
		return nil, fmt.Errorf("failed to add tile layer: %w", err)
	}

	return nil, nil
}

func (m *Manager) handleStyle(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseStyle(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to add gl style: %w", err)
	}

	mp, err := m.currentMap()
	if err != nil {
		return nil, err
	}

	if err := mp.AddMapLibreGLStyle(cmd.URL).Err(); err != nil {
		return nil, fmt.Errorf("failed to add gl style: %w", err)
	}

	return nil, nil
}

func (m *Manager) handleIcon(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseIcon(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to register icon: %w", err)
	}

	// Cache for marker lines to reference by name
	m.deps.SceneCache.SetIcon(cmd.Name, cmd.Icon)

	return nil, nil
}

func (m *Manager) handleMarker(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseMarker(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to create marker: %w", err)
	}

	b := scene.NewMarker(cmd.Position.Lat, cmd.Position.Lon, cmd.Name)
	if cmd.IconName != "" {
		ic, ok := m.deps.SceneCache.GetIcon(cmd.IconName)
		if !ok {
			return nil, fmt.Errorf("icon %q not found in cache", cmd.IconName)
		}
		b = b.WithIcon(ic)
	}
	if cmd.Popup != nil {
		b = b.WithPopup(*cmd.Popup)
	}

	mk, err := b.Build(m.engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create marker: %w", err)
	}

	// Cache the built marker so attach lines can find it. A reused
	// name strands the previous build: any map it sits on keeps
	// rendering it, but no later line can address it.
	if _, exists := m.deps.SceneCache.GetMarker(cmd.Name); exists {
		m.deps.LogManager.Logger().Warn("Marker name reused, replacing cache entry", "name", cmd.Name)
	}
	m.deps.SceneCache.SetMarker(cmd.Name, mk)
	m.deps.Session.CountMarker()

	return nil, nil
}

func (m *Manager) handleLine(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParsePolyline(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to create polyline: %w", err)
	}

	b := scene.NewPolyline(cmd.Points)
	if cmd.Color != nil {
		b = b.WithColor(*cmd.Color)
	}
	if cmd.Weight != nil {
		b = b.WithWeight(*cmd.Weight)
	}
	if cmd.Opacity != nil {
		b = b.WithOpacity(*cmd.Opacity)
	}

	pl, err := b.Build(m.engine)
	if err != nil {
		return nil, fmt.Errorf("failed to create polyline: %w", err)
	}

	if _, exists := m.deps.SceneCache.GetPolyline(cmd.Name); exists {
		m.deps.LogManager.Logger().Warn("Polyline name reused, replacing cache entry", "name", cmd.Name)
	}
	m.deps.SceneCache.SetPolyline(cmd.Name, pl)
	m.deps.Session.CountPolyline()

	return nil, nil
}

func (m *Manager) handleAttach(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseAttach(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to attach: %w", err)
	}

	mp, err := m.currentMap()
	if err != nil {
		return nil, err
	}

	// Markers and polylines share the attach namespace; markers win
	// when a name exists as both.
	if mk, ok := m.deps.SceneCache.GetMarker(cmd.Name); ok {
		if err := mp.AddMarker(mk).Err(); err != nil {
			return nil, fmt.Errorf("failed to attach marker %q: %w", cmd.Name, err)
		}
		return nil, nil
	}
	if pl, ok := m.deps.SceneCache.GetPolyline(cmd.Name); ok {
		if err := mp.AddPolyline(pl).Err(); err != nil {
			return nil, fmt.Errorf("failed to attach polyline %q: %w", cmd.Name, err)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("no marker or polyline named %q in cache", cmd.Name)
}

func (m *Manager) handleDetach(e dispatcher.Event) (any, error) {
	cmd, err := m.deps.ParserService.ParseDetach(e.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to detach: %w", err)
	}

	mp, err := m.currentMap()
	if err != nil {
		return nil, err
	}

	// Detach only takes the object off the map; the cache entry stays
	// so a later attach line can put it back.
	if mk, ok := m.deps.SceneCache.GetMarker(cmd.Name); ok {
		if err := mp.RemoveMarker(mk); err != nil {
			return nil, fmt.Errorf("failed to detach marker %q: %w", cmd.Name, err)
		}
		return nil, nil
	}
	if pl, ok := m.deps.SceneCache.GetPolyline(cmd.Name); ok {
		if err := mp.RemovePolyline(pl); err != nil {
			return nil, fmt.Errorf("failed to detach polyline %q: %w", cmd.Name, err)
		}
		return nil, nil
	}

	return nil, fmt.Errorf("no marker or polyline named %q in cache", cmd.Name)
}
