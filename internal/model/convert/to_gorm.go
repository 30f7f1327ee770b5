// Package convert provides functions to convert between viewer document entries and GORM journal records
package convert

import (
	"database/sql"
	"encoding/json"

	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/geo"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
	"gorm.io/datatypes"
)

// handlesToJSON converts an attach set to datatypes.JSON for DB storage.
func handlesToJSON(ids []uint64) datatypes.JSON {
	if len(ids) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(ids)
	return datatypes.JSON(data)
}

// tileLayersToJSON converts a tile layer list to datatypes.JSON for DB storage.
func tileLayersToJSON(layers []exportv1.TileLayer) datatypes.JSON {
	if len(layers) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(layers)
	return datatypes.JSON(data)
}

// stringsToJSON converts a string list to datatypes.JSON for DB storage.
func stringsToJSON(values []string) datatypes.JSON {
	if len(values) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

// pointsToJSON converts [lat, lon] pairs to datatypes.JSON for DB storage.
func pointsToJSON(points [][2]float64) datatypes.JSON {
	if len(points) == 0 {
		return datatypes.JSON("[]")
	}
	data, _ := json.Marshal(points)
	return datatypes.JSON(data)
}

// MapViewToRecord converts a document MapView to a GORM MapRecord.
// MapView.ID maps to MapRecord.HandleID.
func MapViewToRecord(sessionID uint, mv exportv1.MapView) model.MapRecord {
	record := model.MapRecord{
		SessionID:         sessionID,
		HandleID:          mv.ID,
		SurfaceID:         mv.SurfaceID,
		TileLayers:        tileLayersToJSON(mv.TileLayers),
		GLStyles:          stringsToJSON(mv.GLStyles),
		AttachedMarkers:   handlesToJSON(mv.MarkerIDs),
		AttachedPolylines: handlesToJSON(mv.PolylineIDs),
	}
	if mv.View != nil {
		record.ViewLat = mv.View.Lat
		record.ViewLon = mv.View.Lon
		record.ViewZoom = mv.View.Zoom
		record.HasView = true
	}
	return record
}

// MarkerEntryToRecord converts a document MarkerEntry to a GORM MarkerRecord,
// projecting the position into EPSG:3857 for the geometry column.
func MarkerEntryToRecord(sessionID uint, e exportv1.MarkerEntry) model.MarkerRecord {
	record := model.MarkerRecord{
		SessionID: sessionID,
		HandleID:  e.ID,
		Lat:       e.Lat,
		Lon:       e.Lon,
		Position:  geo.Point3857From4326(e.Lat, e.Lon),
	}
	if e.Icon != nil {
		data, _ := json.Marshal(e.Icon)
		record.Icon = datatypes.JSON(data)
	}
	if e.Popup != nil {
		record.Popup = sql.NullString{String: *e.Popup, Valid: true}
	}
	return record
}

// PolylineEntryToRecord converts a document PolylineEntry to a GORM PolylineRecord,
// projecting the path into EPSG:3857 for the geometry column.
func PolylineEntryToRecord(sessionID uint, e exportv1.PolylineEntry) model.PolylineRecord {
	coords := make([]scene.Coordinate, len(e.Points))
	for i, pt := range e.Points {
		coords[i] = scene.Coordinate{Lat: pt[0], Lon: pt[1]}
	}
	return model.PolylineRecord{
		SessionID: sessionID,
		HandleID:  e.ID,
		Points:    pointsToJSON(e.Points),
		Geometry:  geo.LineString3857(coords),
		Color:     e.Color,
		Weight:    e.Weight,
		Opacity:   e.Opacity,
	}
}
