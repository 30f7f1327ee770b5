package v1

import (
	"slices"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/geo"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// SceneData contains all the data needed to build a snapshot
type SceneData struct {
	SceneName  string
	EngineKind string
	CapturedAt time.Time

	Maps      map[uint64]*MapRecord
	Markers   map[uint64]*MarkerRecord
	Polylines map[uint64]*PolylineRecord
}

// MapRecord groups a map surface with its layers and attach sets
type MapRecord struct {
	SurfaceID string
	View      *View
	Tiles     []TileLayer
	Styles    []string
	Markers   map[uint64]struct{}
	Polylines map[uint64]struct{}
}

// MarkerRecord holds a marker as the engine created it. Icon and
// Popup stay pointers: absence means stock art / no popup binding.
type MarkerRecord struct {
	Lat   float64
	Lon   float64
	Icon  *scene.Icon
	Popup *string
}

// PolylineRecord holds a polyline path with its resolved styling
type PolylineRecord struct {
	Points  []scene.Coordinate
	Options scene.PathOptions
}

// Build creates a SceneDocument from the scene data. Output ordering
// is deterministic: maps, markers, polylines and attach lists all
// come out sorted by handle id, so two snapshots of the same scene
// diff cleanly.
func Build(data *SceneData) *SceneDocument {
	doc := &SceneDocument{
		FormatVersion: 1,
		SceneName:     data.SceneName,
		EngineKind:    data.EngineKind,
		CapturedAt:    data.CapturedAt.UTC().Format(time.RFC3339),
		Maps:          make([]MapView, 0, len(data.Maps)),
		Markers:       make([]MarkerEntry, 0, len(data.Markers)),
		Polylines:     make([]PolylineEntry, 0, len(data.Polylines)),
	}

	// Every marker position and polyline vertex counts toward the
	// document bounds, attached or not.
	placed := make([]scene.Coordinate, 0, len(data.Markers))

	for _, id := range sortedKeys(data.Maps) {
		record := data.Maps[id]
		view := MapView{
			ID:          id,
			SurfaceID:   record.SurfaceID,
			View:        record.View,
			TileLayers:  make([]TileLayer, len(record.Tiles)),
			GLStyles:    make([]string, len(record.Styles)),
			MarkerIDs:   sortedKeys(record.Markers),
			PolylineIDs: sortedKeys(record.Polylines),
		}
		copy(view.TileLayers, record.Tiles)
		copy(view.GLStyles, record.Styles)
		doc.Maps = append(doc.Maps, view)
	}

	for _, id := range sortedKeys(data.Markers) {
		record := data.Markers[id]
		entry := MarkerEntry{
			ID:  id,
			Lat: record.Lat,
			Lon: record.Lon,
		}
		if record.Icon != nil {
			entry.Icon = NewIconEntry(*record.Icon)
		}
		if record.Popup != nil {
			popup := *record.Popup
			entry.Popup = &popup
		}
		doc.Markers = append(doc.Markers, entry)
		placed = append(placed, scene.Coordinate{Lat: record.Lat, Lon: record.Lon})
	}

	for _, id := range sortedKeys(data.Polylines) {
		record := data.Polylines[id]
		entry := PolylineEntry{
			ID:      id,
			Points:  make([][2]float64, len(record.Points)),
			Color:   record.Options.Color,
			Weight:  record.Options.Weight,
			Opacity: record.Options.Opacity,
		}
		for i, pt := range record.Points {
			entry.Points[i] = [2]float64{pt.Lat, pt.Lon}
		}
		doc.Polylines = append(doc.Polylines, entry)
		placed = append(placed, record.Points...)
	}

	if bounds, ok := geo.BoundsOf(placed); ok {
		doc.Bounds = &bounds
	}

	return doc
}

// NewIconEntry converts resolved icon geometry to its document form
func NewIconEntry(ic scene.Icon) *IconEntry {
	return &IconEntry{
		IconURL:      ic.IconURL(),
		ShadowURL:    ic.ShadowURL(),
		IconSize:     [2]int{ic.IconSize().X, ic.IconSize().Y},
		ShadowSize:   [2]int{ic.ShadowSize().X, ic.ShadowSize().Y},
		IconAnchor:   [2]int{ic.IconAnchor().X, ic.IconAnchor().Y},
		ShadowAnchor: [2]int{ic.ShadowAnchor().X, ic.ShadowAnchor().Y},
		PopupAnchor:  [2]int{ic.PopupAnchor().X, ic.PopupAnchor().Y},
	}
}

// sortedKeys returns map keys in ascending handle order
func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
