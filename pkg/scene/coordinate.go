package scene

// Coordinate is a WGS84 latitude/longitude pair. Values travel to the
// engine exactly as given: nothing here clamps, wraps or range-checks
// them — an engine may do any of those.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Point is an integer pixel pair, used for icon sizes and anchors.
// Anchor offsets may be negative.
type Point struct {
	X int
	Y int
}
