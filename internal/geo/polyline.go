package geo

import (
	"github.com/Cmooon-dev/gleaflet/pkg/scene"

	geom "github.com/peterstace/simplefeatures/geom"
)

// LineString3857 projects a scene path into web mercator and builds
// the LineString stored by the journal. An empty path yields an empty
// LineString; degenerate lengths are not rejected here, matching the
// facade's pass-through contract.
func LineString3857(points []scene.Coordinate) geom.LineString {
	flat := make([]float64, 0, len(points)*2)
	for _, c := range points {
		p := Point3857From4326(c.Lat, c.Lon)
		xy, _ := p.XY()
		flat = append(flat, xy.X, xy.Y)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	return geom.NewLineString(seq)
}

// Bounds is a WGS84 bounding box over placed scene coordinates.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// BoundsOf returns the box enclosing every given coordinate. The
// second return is false when there are no coordinates to enclose.
func BoundsOf(points []scene.Coordinate) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	flat := make([]float64, 0, len(points)*2)
	for _, c := range points {
		flat = append(flat, c.Lon, c.Lat)
	}
	seq := geom.NewSequence(flat, geom.DimXY)
	env := geom.NewLineString(seq).Envelope()
	lo, ok := env.Min().XY()
	if !ok {
		return Bounds{}, false
	}
	hi, _ := env.Max().XY()
	return Bounds{MinLat: lo.Y, MinLon: lo.X, MaxLat: hi.Y, MaxLon: hi.X}, true
}
