// Package scene builds map scenes — maps, tile and style layers,
// markers, icons and polylines — as immutable values over an
// imperative rendering engine such as Leaflet.
//
// Construction is split from rendering. Icons, markers and polylines
// are assembled with chained builders that copy on every call; Build
// resolves defaults and, for markers and polylines, creates the
// backing object in an Engine and returns a value carrying the
// engine's opaque handle. Map operations command the engine through a
// fluent handle wrapper.
//
// The package performs no I/O, no logging and no validation of its
// own: coordinates, URLs and zoom levels pass to the engine untouched,
// and engine failures come back to the caller unchanged.
package scene

// MapHandle identifies one engine-owned map instance. Handles are
// minted by an Engine and carry identity only.
type MapHandle uint64

// MarkerHandle identifies an engine-owned marker object.
type MarkerHandle uint64

// PolylineHandle identifies an engine-owned polyline geometry.
type PolylineHandle uint64

// Engine is the boundary to a concrete rendering target: a live map
// runtime, a recorder, or a fake for tests. Implementations own all
// rendering semantics, including what happens in the zones this
// package leaves unspecified (empty polylines, repeated attach or
// detach of the same handle).
//
// Calls are synchronous and must not block; engines that ship
// commands elsewhere buffer internally. Serializing the calls made on
// any single handle is the caller's job.
type Engine interface {
	// CreateMap allocates a map bound to the named host surface.
	CreateMap(surfaceID string) (MapHandle, error)

	// SetView recenters a map and sets its zoom level.
	SetView(m MapHandle, lat, lon float64, zoom int) error

	// AddTileLayer registers a raster tile source on a map.
	AddTileLayer(m MapHandle, urlTemplate string, opts LayerOptions) error

	// AddGLStyle registers a MapLibre GL style source on a map.
	AddGLStyle(m MapHandle, styleURL string) error

	// CreateMarker allocates a marker at a position. A nil icon means
	// the engine's built-in default marker art.
	CreateMarker(lat, lon float64, icon *Icon) (MarkerHandle, error)

	// CreatePolyline allocates drawable geometry for a path.
	CreatePolyline(points []Coordinate, opts PathOptions) (PolylineHandle, error)

	// BindPopup associates popup text with a marker.
	BindPopup(m MarkerHandle, text string) error

	// AttachMarker puts a marker into a map's render tree.
	AttachMarker(mp MapHandle, m MarkerHandle) error

	// DetachMarker takes a marker out of a map's render tree.
	DetachMarker(mp MapHandle, m MarkerHandle) error

	// AttachPolyline puts a polyline into a map's render tree.
	AttachPolyline(mp MapHandle, p PolylineHandle) error

	// DetachPolyline takes a polyline out of a map's render tree.
	DetachPolyline(mp MapHandle, p PolylineHandle) error
}
