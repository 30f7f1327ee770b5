package scene

// Defaults applied by IconBuilder.Build to fields that were never
// set. The pixel geometry matches Leaflet's stock marker art.
var (
	DefaultIconSize     = Point{X: 25, Y: 41}
	DefaultShadowSize   = Point{X: 41, Y: 41}
	DefaultIconAnchor   = Point{X: 12, Y: 41}
	DefaultShadowAnchor = Point{X: 12, Y: 41}
	DefaultPopupAnchor  = Point{X: 0, Y: -34}
)

// Icon describes custom marker artwork: image URLs plus the pixel
// geometry the engine needs to place them. An Icon is fully resolved
// and immutable, holds no engine handle, and building one has no side
// effects — it can be copied, compared and discarded freely.
type Icon struct {
	iconURL      string
	shadowURL    string
	iconSize     Point
	shadowSize   Point
	iconAnchor   Point
	shadowAnchor Point
	popupAnchor  Point
}

// IconURL returns the marker image reference. It is an opaque string
// (typically a path or URL) resolved by the engine at render time.
func (i Icon) IconURL() string { return i.iconURL }

// ShadowURL returns the shadow image reference. Empty means the
// marker renders without a shadow.
func (i Icon) ShadowURL() string { return i.shadowURL }

// IconSize returns the marker image size in pixels.
func (i Icon) IconSize() Point { return i.iconSize }

// ShadowSize returns the shadow image size in pixels.
func (i Icon) ShadowSize() Point { return i.shadowSize }

// IconAnchor returns the pixel on the icon image that sits on the
// marker's coordinate.
func (i Icon) IconAnchor() Point { return i.iconAnchor }

// ShadowAnchor returns the anchor pixel of the shadow image.
func (i Icon) ShadowAnchor() Point { return i.shadowAnchor }

// PopupAnchor returns the offset, relative to the icon anchor, where
// a popup opens.
func (i Icon) PopupAnchor() Point { return i.popupAnchor }

// IconBuilder accumulates icon settings. Every With call returns a
// new builder with exactly that one field replaced; the receiver is
// never modified, so a builder can be kept and reused as a base for
// several variants. Calls compose in any order and any number of
// times, with the last write per field winning.
type IconBuilder struct {
	iconURL      string
	shadowURL    *string
	iconSize     *Point
	shadowSize   *Point
	iconAnchor   *Point
	shadowAnchor *Point
	popupAnchor  *Point
}

// NewIcon starts a builder for the given marker image. The URL is
// stored verbatim and never fetched or validated here; all optional
// fields start absent.
func NewIcon(iconURL string) IconBuilder {
	return IconBuilder{iconURL: iconURL}
}

// WithShadow sets the shadow image reference.
func (b IconBuilder) WithShadow(url string) IconBuilder {
	b.shadowURL = &url
	return b
}

// WithIconSize sets the marker image size in pixels.
func (b IconBuilder) WithIconSize(size Point) IconBuilder {
	b.iconSize = &size
	return b
}

// WithShadowSize sets the shadow image size in pixels.
func (b IconBuilder) WithShadowSize(size Point) IconBuilder {
	b.shadowSize = &size
	return b
}

// WithIconAnchor sets the pixel of the icon image anchored to the
// marker's coordinate.
func (b IconBuilder) WithIconAnchor(anchor Point) IconBuilder {
	b.iconAnchor = &anchor
	return b
}

// WithShadowAnchor sets the anchor pixel of the shadow image.
func (b IconBuilder) WithShadowAnchor(anchor Point) IconBuilder {
	b.shadowAnchor = &anchor
	return b
}

// WithPopupAnchor sets the popup opening offset.
func (b IconBuilder) WithPopupAnchor(anchor Point) IconBuilder {
	b.popupAnchor = &anchor
	return b
}

// Build resolves every field left unset to its default and returns
// the finished Icon. It cannot fail.
func (b IconBuilder) Build() Icon {
	ic := Icon{
		iconURL:      b.iconURL,
		iconSize:     DefaultIconSize,
		shadowSize:   DefaultShadowSize,
		iconAnchor:   DefaultIconAnchor,
		shadowAnchor: DefaultShadowAnchor,
		popupAnchor:  DefaultPopupAnchor,
	}
	if b.shadowURL != nil {
		ic.shadowURL = *b.shadowURL
	}
	if b.iconSize != nil {
		ic.iconSize = *b.iconSize
	}
	if b.shadowSize != nil {
		ic.shadowSize = *b.shadowSize
	}
	if b.iconAnchor != nil {
		ic.iconAnchor = *b.iconAnchor
	}
	if b.shadowAnchor != nil {
		ic.shadowAnchor = *b.shadowAnchor
	}
	if b.popupAnchor != nil {
		ic.popupAnchor = *b.popupAnchor
	}
	return ic
}
