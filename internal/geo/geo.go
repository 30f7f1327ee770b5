package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/Cmooon-dev/gleaflet/pkg/scene"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Journal positions are always stored as EPSG:3857, because SQLite has
// no spatial awareness and geometry columns round-trip through the
// geom types' inherent Scan/Value in WKB form. Scene coordinates stay
// WGS84 (4326) everywhere else; projection happens only at the
// journal write.

// ErrInvalidCoordinates is returned when a coordinate literal cannot
// be parsed.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseCoordinate parses a script literal in the format "lat,lon"
// into a scene coordinate. Values are not range-checked; the facade
// passes them through as-is.
func ParseCoordinate(s string) (scene.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return scene.Coordinate{}, ErrInvalidCoordinates
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return scene.Coordinate{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return scene.Coordinate{}, ErrInvalidCoordinates
	}
	return scene.Coordinate{Lat: lat, Lon: lon}, nil
}

// Point3857From4326 projects a WGS84 position into web mercator for
// journal storage.
func Point3857From4326(lat, lon float64) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(lon, lat, 0)
	return geom.NewPoint(
		geom.Coordinates{
			XY: geom.XY{X: x, Y: y},
		},
	)
}
