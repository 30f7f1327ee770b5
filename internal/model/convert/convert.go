// Package convert provides functions to convert GORM journal records to viewer document entries
package convert

import (
	"encoding/json"

	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"gorm.io/datatypes"
)

// jsonToTileLayers decodes a stored tile layer list, empty on any decode miss.
func jsonToTileLayers(data datatypes.JSON) []exportv1.TileLayer {
	layers := []exportv1.TileLayer{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &layers)
	}
	return layers
}

// jsonToStrings decodes a stored string list.
func jsonToStrings(data datatypes.JSON) []string {
	values := []string{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &values)
	}
	return values
}

// jsonToHandles decodes a stored attach set of handle IDs.
func jsonToHandles(data datatypes.JSON) []uint64 {
	ids := []uint64{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &ids)
	}
	return ids
}

// jsonToPoints decodes stored [lat, lon] pairs.
func jsonToPoints(data datatypes.JSON) [][2]float64 {
	points := [][2]float64{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &points)
	}
	return points
}

// RecordToMapView converts a GORM MapRecord to a document MapView.
// MapRecord.HandleID maps to MapView.ID.
func RecordToMapView(r model.MapRecord) exportv1.MapView {
	mv := exportv1.MapView{
		ID:          r.HandleID,
		SurfaceID:   r.SurfaceID,
		TileLayers:  jsonToTileLayers(r.TileLayers),
		GLStyles:    jsonToStrings(r.GLStyles),
		MarkerIDs:   jsonToHandles(r.AttachedMarkers),
		PolylineIDs: jsonToHandles(r.AttachedPolylines),
	}
	if r.HasView {
		mv.View = &exportv1.View{
			Lat:  r.ViewLat,
			Lon:  r.ViewLon,
			Zoom: r.ViewZoom,
		}
	}
	return mv
}

// RecordToMarkerEntry converts a GORM MarkerRecord to a document MarkerEntry.
// The raw WGS84 columns are authoritative; the 3857 geometry column is
// never read back.
func RecordToMarkerEntry(r model.MarkerRecord) exportv1.MarkerEntry {
	entry := exportv1.MarkerEntry{
		ID:  r.HandleID,
		Lat: r.Lat,
		Lon: r.Lon,
	}
	if len(r.Icon) > 0 && string(r.Icon) != "null" {
		var icon exportv1.IconEntry
		if err := json.Unmarshal(r.Icon, &icon); err == nil {
			entry.Icon = &icon
		}
	}
	if r.Popup.Valid {
		popup := r.Popup.String
		entry.Popup = &popup
	}
	return entry
}

// RecordToPolylineEntry converts a GORM PolylineRecord to a document PolylineEntry.
func RecordToPolylineEntry(r model.PolylineRecord) exportv1.PolylineEntry {
	return exportv1.PolylineEntry{
		ID:      r.HandleID,
		Points:  jsonToPoints(r.Points),
		Color:   r.Color,
		Weight:  r.Weight,
		Opacity: r.Opacity,
	}
}
