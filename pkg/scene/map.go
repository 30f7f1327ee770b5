package scene

// LayerOptions configures a raster tile layer. It is a plain record:
// every field is required and passed through to the engine as-is, no
// defaulting happens anywhere.
type LayerOptions struct {
	MaxZoom     int
	MinZoom     int
	Opacity     float64
	Attribution string
}

// Map wraps the opaque handle of one externally-owned map instance.
// Unlike Icon, Marker and Polyline it has mutable external identity:
// the chainable operations command the engine in place and return the
// same Map, not a new value.
//
// The chain records the first engine error it hits and skips every
// chained call after it; Err reports that error, exactly as the
// engine produced it, once the chain is done. RemoveMarker and
// RemovePolyline return their errors directly instead.
//
// A Map, like any single handle, must be driven by one logical caller
// at a time. No locking is done here; hosts that work from several
// goroutines serialize access themselves.
type Map struct {
	eng    Engine
	handle MapHandle
	err    error
}

// NewMap allocates a map instance bound to the named host surface —
// typically the id of the page element the viewer renders into.
// Surface resolution belongs to the engine; an unknown surface comes
// back as the engine's own error.
func NewMap(e Engine, surfaceID string) (*Map, error) {
	h, err := e.CreateMap(surfaceID)
	if err != nil {
		return nil, err
	}
	return &Map{eng: e, handle: h}, nil
}

// Handle returns the opaque engine handle of the map instance.
func (m *Map) Handle() MapHandle { return m.handle }

// Err returns the first engine error recorded by the chain, or nil.
func (m *Map) Err() error { return m.err }

// SetView centers the map on a position and sets the zoom level. Zoom
// follows the usual slippy-map convention (0–18) but is not range
// checked here.
func (m *Map) SetView(lat, lon float64, zoom int) *Map {
	if m.err != nil {
		return m
	}
	m.err = m.eng.SetView(m.handle, lat, lon, zoom)
	return m
}

// AddTileLayer registers a raster tile source. The URL template's
// placeholder tokens ({z}, {x}, {y} and friends) belong to the engine
// and are not interpreted here.
func (m *Map) AddTileLayer(urlTemplate string, opts LayerOptions) *Map {
	if m.err != nil {
		return m
	}
	m.err = m.eng.AddTileLayer(m.handle, urlTemplate, opts)
	return m
}

// AddMapLibreGLStyle registers a MapLibre GL vector style source as
// an alternative to raster tiles. The style document is never fetched
// or parsed here.
func (m *Map) AddMapLibreGLStyle(styleURL string) *Map {
	if m.err != nil {
		return m
	}
	m.err = m.eng.AddGLStyle(m.handle, styleURL)
	return m
}

// AddMarker attaches a built marker to the map. When the marker
// carries popup text, the popup is bound to the marker handle first
// and the marker attached after — the engine's popup interaction
// model expects the content to exist before the marker goes live, and
// reversing the order is a defect. Without popup text the marker
// attaches directly.
//
// Attaching a marker that is already on the map is engine-defined
// behavior and is not masked here.
func (m *Map) AddMarker(mk Marker) *Map {
	if m.err != nil {
		return m
	}
	if text, ok := mk.Popup(); ok {
		if err := m.eng.BindPopup(mk.handle, text); err != nil {
			m.err = err
			return m
		}
	}
	m.err = m.eng.AttachMarker(m.handle, mk.handle)
	return m
}

// AddPolyline attaches a built polyline to the map. Attaching the
// same polyline twice without removing it in between is engine-defined
// behavior.
func (m *Map) AddPolyline(p Polyline) *Map {
	if m.err != nil {
		return m
	}
	m.err = m.eng.AttachPolyline(m.handle, p.handle)
	return m
}

// RemoveMarker takes the marker out of the map's render tree. The
// marker object itself stays alive and can be attached again later.
// Removing a marker that was never attached, or removing twice, is
// engine-defined — commonly a silent no-op, but that is the engine's
// promise to make, not this package's.
func (m *Map) RemoveMarker(mk Marker) error {
	return m.eng.DetachMarker(m.handle, mk.handle)
}

// RemovePolyline takes the polyline out of the map's render tree,
// with the same caveats as RemoveMarker.
func (m *Map) RemovePolyline(p Polyline) error {
	return m.eng.DetachPolyline(m.handle, p.handle)
}
