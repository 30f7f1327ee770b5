// internal/engine/memory/memory.go
package memory

import (
	"fmt"
	"sync"
	"time"

	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// Engine keeps the authoritative scene graph in process. It is the
// default backend and the place where the facade's unspecified zones
// get concrete behavior: attach and detach are idempotent (double
// attach and double or foreign detach are silent no-ops, the way
// Leaflet's own addLayer/removeLayer behave), empty polylines are
// accepted and stored empty, and unknown handles come back as
// "not found" errors.
type Engine struct {
	maps      map[uint64]*exportv1.MapRecord
	markers   map[uint64]*exportv1.MarkerRecord
	polylines map[uint64]*exportv1.PolylineRecord

	idCounter uint64
	mu        sync.Mutex
}

// New creates a new memory engine
func New() *Engine {
	return &Engine{
		maps:      make(map[uint64]*exportv1.MapRecord),
		markers:   make(map[uint64]*exportv1.MarkerRecord),
		polylines: make(map[uint64]*exportv1.PolylineRecord),
	}
}

// CreateMap allocates a map bound to the named host surface.
func (e *Engine) CreateMap(surfaceID string) (scene.MapHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.idCounter++
	e.maps[e.idCounter] = &exportv1.MapRecord{
		SurfaceID: surfaceID,
		Markers:   make(map[uint64]struct{}),
		Polylines: make(map[uint64]struct{}),
	}
	return scene.MapHandle(e.idCounter), nil
}

// SetView recenters a map and sets its zoom level. The last view wins.
func (e *Engine) SetView(m scene.MapHandle, lat, lon float64, zoom int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	record.View = &exportv1.View{Lat: lat, Lon: lon, Zoom: zoom}
	return nil
}

// AddTileLayer registers a raster tile source on a map. Layers
// accumulate in registration order.
func (e *Engine) AddTileLayer(m scene.MapHandle, urlTemplate string, opts scene.LayerOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	record.Tiles = append(record.Tiles, exportv1.TileLayer{
		URLTemplate: urlTemplate,
		MaxZoom:     opts.MaxZoom,
		MinZoom:     opts.MinZoom,
		Opacity:     opts.Opacity,
		Attribution: opts.Attribution,
	})
	return nil
}

// AddGLStyle registers a MapLibre GL style source on a map.
func (e *Engine) AddGLStyle(m scene.MapHandle, styleURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	record.Styles = append(record.Styles, styleURL)
	return nil
}

// CreateMarker allocates a marker at a position. The icon is copied so
// the stored record cannot change under the caller afterwards.
func (e *Engine) CreateMarker(lat, lon float64, icon *scene.Icon) (scene.MarkerHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	record := &exportv1.MarkerRecord{Lat: lat, Lon: lon}
	if icon != nil {
		ic := *icon
		record.Icon = &ic
	}

	e.idCounter++
	e.markers[e.idCounter] = record
	return scene.MarkerHandle(e.idCounter), nil
}

// CreatePolyline allocates drawable geometry for a path. The points
// are copied; an empty path is legal and stored empty.
func (e *Engine) CreatePolyline(points []scene.Coordinate, opts scene.PathOptions) (scene.PolylineHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pts := make([]scene.Coordinate, len(points))
	copy(pts, points)

	e.idCounter++
	e.polylines[e.idCounter] = &exportv1.PolylineRecord{Points: pts, Options: opts}
	return scene.PolylineHandle(e.idCounter), nil
}

// BindPopup associates popup text with a marker. Rebinding replaces
// the previous text.
func (e *Engine) BindPopup(m scene.MarkerHandle, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.markers[uint64(m)]
	if !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	record.Popup = &text
	return nil
}

// AttachMarker puts a marker into a map's render tree. Attaching a
// marker that is already on the map is a silent no-op.
func (e *Engine) AttachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.markers[uint64(m)]; !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	record.Markers[uint64(m)] = struct{}{}
	return nil
}

// DetachMarker takes a marker out of a map's render tree. Detaching a
// marker the map never held is a silent no-op.
func (e *Engine) DetachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.markers[uint64(m)]; !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	delete(record.Markers, uint64(m))
	return nil
}

// AttachPolyline puts a polyline into a map's render tree, with the
// same idempotency as AttachMarker.
func (e *Engine) AttachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.polylines[uint64(p)]; !ok {
		return fmt.Errorf("polyline %d not found", p)
	}
	record.Polylines[uint64(p)] = struct{}{}
	return nil
}

// DetachPolyline takes a polyline out of a map's render tree, with the
// same idempotency as DetachMarker.
func (e *Engine) DetachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.polylines[uint64(p)]; !ok {
		return fmt.Errorf("polyline %d not found", p)
	}
	delete(record.Polylines, uint64(p))
	return nil
}

// Snapshot renders the current scene graph into a v1 export document.
// The scene name is not known down here; callers stamp it before
// writing the document out.
func (e *Engine) Snapshot() *exportv1.SceneDocument {
	e.mu.Lock()
	defer e.mu.Unlock()

	return exportv1.Build(&exportv1.SceneData{
		EngineKind: "memory",
		CapturedAt: time.Now(),
		Maps:       e.maps,
		Markers:    e.markers,
		Polylines:  e.polylines,
	})
}
