package scene

// fakeEngine records every call it receives, in order, and can be
// told to fail a specific operation with a given error. Handles are
// minted from a counter starting at 1.
type fakeEngine struct {
	ops     []string
	nextID  uint64
	failOp  string
	failErr error

	surfaces    []string
	views       []viewCall
	tileLayers  []tileLayerCall
	glStyles    []glStyleCall
	markers     []markerCall
	polylines   []polylineCall
	popups      []popupCall
	attachments []attachCall
}

type viewCall struct {
	m    MapHandle
	lat  float64
	lon  float64
	zoom int
}

type tileLayerCall struct {
	m        MapHandle
	template string
	opts     LayerOptions
}

type glStyleCall struct {
	m   MapHandle
	url string
}

type markerCall struct {
	lat  float64
	lon  float64
	icon *Icon
}

type polylineCall struct {
	points []Coordinate
	opts   PathOptions
}

type popupCall struct {
	m    MarkerHandle
	text string
}

type attachCall struct {
	mp     MapHandle
	entity uint64
}

func (f *fakeEngine) record(op string) error {
	f.ops = append(f.ops, op)
	if f.failOp == op {
		return f.failErr
	}
	return nil
}

func (f *fakeEngine) mint() uint64 {
	f.nextID++
	return f.nextID
}

func (f *fakeEngine) CreateMap(surfaceID string) (MapHandle, error) {
	f.surfaces = append(f.surfaces, surfaceID)
	if err := f.record("createMap"); err != nil {
		return 0, err
	}
	return MapHandle(f.mint()), nil
}

func (f *fakeEngine) SetView(m MapHandle, lat, lon float64, zoom int) error {
	f.views = append(f.views, viewCall{m: m, lat: lat, lon: lon, zoom: zoom})
	return f.record("setView")
}

func (f *fakeEngine) AddTileLayer(m MapHandle, urlTemplate string, opts LayerOptions) error {
	f.tileLayers = append(f.tileLayers, tileLayerCall{m: m, template: urlTemplate, opts: opts})
	return f.record("addTileLayer")
}

func (f *fakeEngine) AddGLStyle(m MapHandle, styleURL string) error {
	f.glStyles = append(f.glStyles, glStyleCall{m: m, url: styleURL})
	return f.record("addGlStyle")
}

func (f *fakeEngine) CreateMarker(lat, lon float64, icon *Icon) (MarkerHandle, error) {
	f.markers = append(f.markers, markerCall{lat: lat, lon: lon, icon: icon})
	if err := f.record("createMarker"); err != nil {
		return 0, err
	}
	return MarkerHandle(f.mint()), nil
}

func (f *fakeEngine) CreatePolyline(points []Coordinate, opts PathOptions) (PolylineHandle, error) {
	f.polylines = append(f.polylines, polylineCall{points: points, opts: opts})
	if err := f.record("createPolyline"); err != nil {
		return 0, err
	}
	return PolylineHandle(f.mint()), nil
}

func (f *fakeEngine) BindPopup(m MarkerHandle, text string) error {
	f.popups = append(f.popups, popupCall{m: m, text: text})
	return f.record("bindPopup")
}

func (f *fakeEngine) AttachMarker(mp MapHandle, m MarkerHandle) error {
	f.attachments = append(f.attachments, attachCall{mp: mp, entity: uint64(m)})
	return f.record("attachMarker")
}

func (f *fakeEngine) DetachMarker(mp MapHandle, m MarkerHandle) error {
	return f.record("detachMarker")
}

func (f *fakeEngine) AttachPolyline(mp MapHandle, p PolylineHandle) error {
	f.attachments = append(f.attachments, attachCall{mp: mp, entity: uint64(p)})
	return f.record("attachPolyline")
}

func (f *fakeEngine) DetachPolyline(mp MapHandle, p PolylineHandle) error {
	return f.record("detachPolyline")
}
