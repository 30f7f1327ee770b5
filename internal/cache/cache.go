package cache

import (
	"sync"

	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// SceneCache tracks built scene values by their script name so later
// commands (attach, detach, marker icon references) can look them up
// without round-tripping the engine. Latency in these calls matters
// when replaying large scripts.
type SceneCache struct {
	mu        sync.RWMutex
	icons     map[string]scene.Icon
	markers   map[string]scene.Marker
	polylines map[string]scene.Polyline
}

func NewSceneCache() *SceneCache {
	return &SceneCache{
		icons:     make(map[string]scene.Icon),
		markers:   make(map[string]scene.Marker),
		polylines: make(map[string]scene.Polyline),
	}
}

// SetIcon stores a built icon under its script name. An existing name
// is replaced, the script owns name uniqueness.
func (c *SceneCache) SetIcon(name string, ic scene.Icon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icons[name] = ic
}

func (c *SceneCache) GetIcon(name string) (scene.Icon, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ic, ok := c.icons[name]
	return ic, ok
}

func (c *SceneCache) SetMarker(name string, m scene.Marker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markers[name] = m
}

func (c *SceneCache) GetMarker(name string) (scene.Marker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.markers[name]
	return m, ok
}

func (c *SceneCache) DeleteMarker(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.markers, name)
}

func (c *SceneCache) SetPolyline(name string, p scene.Polyline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polylines[name] = p
}

func (c *SceneCache) GetPolyline(name string) (scene.Polyline, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.polylines[name]
	return p, ok
}

func (c *SceneCache) DeletePolyline(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.polylines, name)
}

// Counts reports how many entries of each kind are cached.
func (c *SceneCache) Counts() (icons, markers, polylines int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.icons), len(c.markers), len(c.polylines)
}

// Reset clears every entry, ready for a fresh scene.
func (c *SceneCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icons = make(map[string]scene.Icon)
	c.markers = make(map[string]scene.Marker)
	c.polylines = make(map[string]scene.Polyline)
}
