package scene

// PathOptions is the stroke styling of a polyline.
type PathOptions struct {
	Color   string
	Weight  int
	Opacity float64
}

// DefaultPathOptions is the styling applied to fields never set on a
// PolylineBuilder, matching Leaflet's stock path style.
var DefaultPathOptions = PathOptions{Color: "#3388ff", Weight: 5, Opacity: 0.5}

// Polyline is a drawn path: an ordered point sequence, resolved
// stroke styling, and the handle of the geometry the engine created
// for it at build time. The value never changes once built; restyling
// means building a new Polyline and swapping it on the map.
type Polyline struct {
	points []Coordinate
	opts   PathOptions
	handle PolylineHandle
}

// Points returns a copy of the path in draw order. Order is
// significant and duplicates are preserved.
func (p Polyline) Points() []Coordinate {
	out := make([]Coordinate, len(p.points))
	copy(out, p.points)
	return out
}

// Options returns the resolved stroke styling.
func (p Polyline) Options() PathOptions { return p.opts }

// Handle returns the opaque engine handle of the drawn geometry.
func (p Polyline) Handle() PolylineHandle { return p.handle }

// PolylineBuilder accumulates styling over a fixed point sequence.
// Same value semantics as IconBuilder: each With call returns a new
// builder with one field replaced.
type PolylineBuilder struct {
	points  []Coordinate
	color   *string
	weight  *int
	opacity *float64
}

// NewPolyline starts a builder over the given path. The sequence is
// kept as given — order defines the drawn line and duplicates are
// allowed. Length is not validated: an empty path goes to the engine
// as-is, with engine-defined results.
func NewPolyline(points []Coordinate) PolylineBuilder {
	return PolylineBuilder{points: points}
}

// WithColor sets the stroke color (any CSS color string).
func (b PolylineBuilder) WithColor(css string) PolylineBuilder {
	b.color = &css
	return b
}

// WithWeight sets the stroke width in pixels.
func (b PolylineBuilder) WithWeight(pixels int) PolylineBuilder {
	b.weight = &pixels
	return b
}

// WithOpacity sets the stroke opacity, conventionally in [0.0, 1.0].
func (b PolylineBuilder) WithOpacity(fraction float64) PolylineBuilder {
	b.opacity = &fraction
	return b
}

// Build resolves unset styling to DefaultPathOptions, creates the
// drawable geometry in the engine, and returns the finished Polyline
// wrapping its handle. This is the builder's single side effect; an
// engine failure is returned to the caller exactly as the engine
// produced it.
func (b PolylineBuilder) Build(e Engine) (Polyline, error) {
	opts := DefaultPathOptions
	if b.color != nil {
		opts.Color = *b.color
	}
	if b.weight != nil {
		opts.Weight = *b.weight
	}
	if b.opacity != nil {
		opts.Opacity = *b.opacity
	}
	points := make([]Coordinate, len(b.points))
	copy(points, b.points)
	h, err := e.CreatePolyline(points, opts)
	if err != nil {
		return Polyline{}, err
	}
	return Polyline{points: points, opts: opts, handle: h}, nil
}
