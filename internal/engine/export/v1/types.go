// Package v1 contains the v1 snapshot format for scene data.
// This format is what the gleaflet-web viewer loads for offline replay.
package v1

import "github.com/Cmooon-dev/gleaflet/internal/geo"

// SceneDocument is the root JSON structure for v1 snapshots
type SceneDocument struct {
	FormatVersion int             `json:"formatVersion"`
	SceneName     string          `json:"sceneName"`
	EngineKind    string          `json:"engineKind"`
	CapturedAt    string          `json:"capturedAt"`
	Bounds        *geo.Bounds     `json:"bounds,omitempty"`
	Maps          []MapView       `json:"maps"`
	Markers       []MarkerEntry   `json:"markers"`
	Polylines     []PolylineEntry `json:"polylines"`
}

// MapView describes one map instance and everything registered on it.
// Attached ids reference entries in the document's markers and
// polylines lists.
type MapView struct {
	ID          uint64      `json:"id"`
	SurfaceID   string      `json:"surfaceId"`
	View        *View       `json:"view,omitempty"`
	TileLayers  []TileLayer `json:"tileLayers"`
	GLStyles    []string    `json:"glStyles"`
	MarkerIDs   []uint64    `json:"markerIds"`
	PolylineIDs []uint64    `json:"polylineIds"`
}

// View is a map camera: center position and zoom level
type View struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

// TileLayer is a raster tile source registered on a map
type TileLayer struct {
	URLTemplate string  `json:"urlTemplate"`
	MaxZoom     int     `json:"maxZoom"`
	MinZoom     int     `json:"minZoom"`
	Opacity     float64 `json:"opacity"`
	Attribution string  `json:"attribution"`
}

// MarkerEntry is one marker object with its resolved icon and popup.
// A nil Icon means the viewer renders its stock marker art; a nil
// Popup means no popup was ever bound.
type MarkerEntry struct {
	ID    uint64     `json:"id"`
	Lat   float64    `json:"lat"`
	Lon   float64    `json:"lon"`
	Icon  *IconEntry `json:"icon,omitempty"`
	Popup *string    `json:"popup,omitempty"`
}

// IconEntry is the resolved pixel geometry of custom marker art
type IconEntry struct {
	IconURL      string `json:"iconUrl"`
	ShadowURL    string `json:"shadowUrl"`
	IconSize     [2]int `json:"iconSize"`
	ShadowSize   [2]int `json:"shadowSize"`
	IconAnchor   [2]int `json:"iconAnchor"`
	ShadowAnchor [2]int `json:"shadowAnchor"`
	PopupAnchor  [2]int `json:"popupAnchor"`
}

// PolylineEntry is one polyline geometry with its stroke styling.
// Points are [lat, lon] pairs in draw order.
type PolylineEntry struct {
	ID      uint64       `json:"id"`
	Points  [][2]float64 `json:"points"`
	Color   string       `json:"color"`
	Weight  int          `json:"weight"`
	Opacity float64      `json:"opacity"`
}
