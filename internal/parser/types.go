package parser

import (
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
)

// MapCommand opens the script's map on a named host surface.
type MapCommand struct {
	Surface string
}

// ViewCommand recenters the active map and sets its zoom level.
type ViewCommand struct {
	Lat  float64
	Lon  float64
	Zoom int
}

// TilesCommand adds a raster tile layer to the active map. Options a
// script line leaves unset are already filled from the parser's
// configured defaults.
type TilesCommand struct {
	URL     string
	Options scene.LayerOptions
}

// StyleCommand adds a MapLibre GL style layer to the active map.
type StyleCommand struct {
	URL string
}

// IconCommand registers named marker artwork. The icon is fully built;
// the handler only has to cache it under Name.
type IconCommand struct {
	Name string
	Icon scene.Icon
}

// MarkerCommand places a named marker. IconName is returned unresolved
// for the handler to look up in the scene cache; an empty name means
// the engine's stock marker art. A nil Popup means the marker never
// gets a popup binding, which is different from popup="".
type MarkerCommand struct {
	Name     string
	Position scene.Coordinate
	IconName string
	Popup    *string
}

// LineCommand draws a named polyline. Style fields are nil when the
// script line did not set them, so the handler can leave the builder's
// own defaults in charge.
type LineCommand struct {
	Name    string
	Points  []scene.Coordinate
	Color   *string
	Weight  *int
	Opacity *float64
}

// AttachCommand puts a cached marker or polyline onto the active map.
type AttachCommand struct {
	Name string
}

// DetachCommand takes a cached marker or polyline off the active map.
type DetachCommand struct {
	Name string
}
