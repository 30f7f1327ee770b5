package convert

import (
	"testing"

	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestHandlesToJSONEmpty(t *testing.T) {
	assert.Equal(t, datatypes.JSON("[]"), handlesToJSON(nil))
	assert.Equal(t, datatypes.JSON("[]"), handlesToJSON([]uint64{}))
}

func TestMapViewToRecord(t *testing.T) {
	mv := exportv1.MapView{
		ID:        1,
		SurfaceID: "main",
		View:      &exportv1.View{Lat: 59.437, Lon: 24.7536, Zoom: 13},
		TileLayers: []exportv1.TileLayer{
			{URLTemplate: "https://tile.openstreetmap.org/{z}/{x}/{y}.png", MaxZoom: 19, Opacity: 1, Attribution: "© OpenStreetMap"},
		},
		GLStyles:    []string{"https://demotiles.maplibre.org/style.json"},
		MarkerIDs:   []uint64{2, 4},
		PolylineIDs: []uint64{3},
	}

	record := MapViewToRecord(7, mv)

	assert.Equal(t, uint(7), record.SessionID)
	assert.Equal(t, uint64(1), record.HandleID)
	assert.Equal(t, "main", record.SurfaceID)
	assert.True(t, record.HasView)
	assert.Equal(t, 59.437, record.ViewLat)
	assert.Equal(t, 13, record.ViewZoom)
	assert.JSONEq(t, `[2,4]`, string(record.AttachedMarkers))
	assert.JSONEq(t, `[3]`, string(record.AttachedPolylines))
	assert.JSONEq(t, `["https://demotiles.maplibre.org/style.json"]`, string(record.GLStyles))
}

func TestMapViewToRecordNoView(t *testing.T) {
	mv := exportv1.MapView{ID: 1, SurfaceID: "radar"}

	record := MapViewToRecord(1, mv)

	assert.False(t, record.HasView)
	assert.Equal(t, datatypes.JSON("[]"), record.TileLayers)
	assert.Equal(t, datatypes.JSON("[]"), record.AttachedMarkers)
}

func TestMapViewRoundTrip(t *testing.T) {
	mv := exportv1.MapView{
		ID:        5,
		SurfaceID: "main",
		View:      &exportv1.View{Lat: -33.8688, Lon: 151.2093, Zoom: 11},
		TileLayers: []exportv1.TileLayer{
			{URLTemplate: "https://tiles.example.com/{z}/{x}/{y}.png", MaxZoom: 18, MinZoom: 2, Opacity: 0.9, Attribution: "Example"},
		},
		GLStyles:    []string{},
		MarkerIDs:   []uint64{8},
		PolylineIDs: []uint64{},
	}

	got := RecordToMapView(MapViewToRecord(2, mv))

	assert.Equal(t, mv, got)
}

func TestMarkerEntryToRecord(t *testing.T) {
	popup := "Pier 6"
	e := exportv1.MarkerEntry{
		ID:  2,
		Lat: 59.437,
		Lon: 24.7536,
		Icon: &exportv1.IconEntry{
			IconURL:      "https://example.com/pin.png",
			IconSize:     [2]int{32, 32},
			ShadowSize:   [2]int{41, 41},
			IconAnchor:   [2]int{16, 32},
			ShadowAnchor: [2]int{12, 41},
			PopupAnchor:  [2]int{0, -34},
		},
		Popup: &popup,
	}

	record := MarkerEntryToRecord(4, e)

	assert.Equal(t, uint(4), record.SessionID)
	assert.Equal(t, uint64(2), record.HandleID)
	assert.Equal(t, 59.437, record.Lat)
	assert.Equal(t, 24.7536, record.Lon)

	coords, ok := record.Position.Coordinates()
	require.True(t, ok)
	// Tallinn sits north-east of the meridian crossing.
	assert.Greater(t, coords.X, 0.0)
	assert.Greater(t, coords.Y, 0.0)

	require.True(t, record.Popup.Valid)
	assert.Equal(t, "Pier 6", record.Popup.String)
	assert.JSONEq(t, `{"iconUrl":"https://example.com/pin.png","shadowUrl":"","iconSize":[32,32],"shadowSize":[41,41],"iconAnchor":[16,32],"shadowAnchor":[12,41],"popupAnchor":[0,-34]}`, string(record.Icon))
}

func TestMarkerEntryToRecordStockIcon(t *testing.T) {
	e := exportv1.MarkerEntry{ID: 2, Lat: 40.7128, Lon: -74.006}

	record := MarkerEntryToRecord(1, e)

	assert.Nil(t, record.Icon)
	assert.False(t, record.Popup.Valid)
}

func TestMarkerEntryRoundTrip(t *testing.T) {
	popup := "Hello"
	e := exportv1.MarkerEntry{
		ID:    9,
		Lat:   51.5074,
		Lon:   -0.1278,
		Icon:  &exportv1.IconEntry{IconURL: "https://example.com/a.png", IconSize: [2]int{25, 41}},
		Popup: &popup,
	}

	got := RecordToMarkerEntry(MarkerEntryToRecord(1, e))

	assert.Equal(t, e, got)
}

func TestPolylineEntryToRecord(t *testing.T) {
	e := exportv1.PolylineEntry{
		ID:      3,
		Points:  [][2]float64{{59.437, 24.7536}, {59.4489, 24.7535}, {59.46, 24.76}},
		Color:   "#3388ff",
		Weight:  5,
		Opacity: 0.5,
	}

	record := PolylineEntryToRecord(6, e)

	assert.Equal(t, uint(6), record.SessionID)
	assert.Equal(t, uint64(3), record.HandleID)
	assert.JSONEq(t, `[[59.437,24.7536],[59.4489,24.7535],[59.46,24.76]]`, string(record.Points))
	assert.Equal(t, 3, record.Geometry.Coordinates().Length())
	assert.Equal(t, "#3388ff", record.Color)
}

func TestPolylineEntryToRecordEmptyPath(t *testing.T) {
	e := exportv1.PolylineEntry{ID: 3, Points: [][2]float64{}}

	record := PolylineEntryToRecord(1, e)

	assert.Equal(t, datatypes.JSON("[]"), record.Points)
	assert.Equal(t, 0, record.Geometry.Coordinates().Length())
}

func TestPolylineEntryRoundTrip(t *testing.T) {
	e := exportv1.PolylineEntry{
		ID:      11,
		Points:  [][2]float64{{-33.8688, 151.2093}, {-33.86, 151.21}},
		Color:   "#ff0000",
		Weight:  2,
		Opacity: 1,
	}

	got := RecordToPolylineEntry(PolylineEntryToRecord(1, e))

	assert.Equal(t, e, got)
}
