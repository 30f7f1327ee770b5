package scene

// Marker is a placed point of interest: a position, a caller-chosen
// name, optional custom icon, optional popup text, and the handle of
// the marker object the engine created at build time.
//
// Name is application-level identity used for later lookup and
// removal. Uniqueness among currently-placed markers is the caller's
// responsibility — nothing here enforces or checks it.
type Marker struct {
	lat    float64
	lon    float64
	name   string
	icon   *Icon
	popup  *string
	handle MarkerHandle
}

// Lat returns the marker latitude.
func (m Marker) Lat() float64 { return m.lat }

// Lon returns the marker longitude.
func (m Marker) Lon() float64 { return m.lon }

// Name returns the caller-chosen identity key.
func (m Marker) Name() string { return m.name }

// Icon returns the custom icon, if one was set. Absent means the
// engine renders its built-in default marker art.
func (m Marker) Icon() (Icon, bool) {
	if m.icon == nil {
		return Icon{}, false
	}
	return *m.icon, true
}

// Popup returns the popup text, if any was set. Absent means the
// marker never gets a popup binding.
func (m Marker) Popup() (string, bool) {
	if m.popup == nil {
		return "", false
	}
	return *m.popup, true
}

// Handle returns the opaque engine handle of the marker object.
func (m Marker) Handle() MarkerHandle { return m.handle }

// MarkerBuilder accumulates the optional icon and popup over required
// position and name. Same value semantics as the other builders.
type MarkerBuilder struct {
	lat   float64
	lon   float64
	name  string
	icon  *Icon
	popup *string
}

// NewMarker starts a builder for a marker at the given position with
// the given name. Icon and popup start absent.
func NewMarker(lat, lon float64, name string) MarkerBuilder {
	return MarkerBuilder{lat: lat, lon: lon, name: name}
}

// WithIcon sets a custom icon. Pass a built Icon; the builder keeps
// it as-is.
func (b MarkerBuilder) WithIcon(ic Icon) MarkerBuilder {
	b.icon = &ic
	return b
}

// WithPopup sets the popup text.
func (b MarkerBuilder) WithPopup(text string) MarkerBuilder {
	b.popup = &text
	return b
}

// Build creates the marker object in the engine from the position and
// the icon, if one was set, and returns the finished Marker.
//
// Unlike icons and polylines nothing is defaulted here: an unset icon
// or popup stays absent in the Marker, because absence selects
// different engine behavior (stock icon vs. custom art, popup binding
// vs. none) rather than just different style values. The popup text
// is not bound at build time — Map.AddMarker binds it just before
// attaching. The name never reaches the engine; it is application
// metadata only.
//
// An engine failure is returned exactly as the engine produced it.
func (b MarkerBuilder) Build(e Engine) (Marker, error) {
	h, err := e.CreateMarker(b.lat, b.lon, b.icon)
	if err != nil {
		return Marker{}, err
	}
	return Marker{
		lat:    b.lat,
		lon:    b.lon,
		name:   b.name,
		icon:   b.icon,
		popup:  b.popup,
		handle: h,
	}, nil
}
