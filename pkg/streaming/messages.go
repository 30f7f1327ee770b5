package streaming

import "encoding/json"

// Message type constants matching the scene streaming protocol. Every
// engine call maps to exactly one message type.
const (
	TypeSessionStart   = "session_start"
	TypeCreateMap      = "create_map"
	TypeSetView        = "set_view"
	TypeAddTileLayer   = "add_tile_layer"
	TypeAddGLStyle     = "add_gl_style"
	TypeCreateMarker   = "create_marker"
	TypeCreatePolyline = "create_polyline"
	TypeBindPopup      = "bind_popup"
	TypeAttachMarker   = "attach_marker"
	TypeDetachMarker   = "detach_marker"
	TypeAttachPolyline = "attach_polyline"
	TypeDetachPolyline = "detach_polyline"
	TypeAck            = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewEnvelope marshals a payload into an Envelope of the given type.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: msgType, Payload: raw}, nil
}

// AckMessage is the viewer's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// SessionStartPayload announces a new bridge run to the viewer.
type SessionStartPayload struct {
	SceneName  string `json:"sceneName"`
	EngineKind string `json:"engineKind"`
	StartedAt  string `json:"startedAt"` // RFC3339
	Version    string `json:"version"`
}

// IconPayload is the wire form of a resolved icon.
type IconPayload struct {
	IconURL      string `json:"iconUrl"`
	ShadowURL    string `json:"shadowUrl"`
	IconSize     [2]int `json:"iconSize"`
	ShadowSize   [2]int `json:"shadowSize"`
	IconAnchor   [2]int `json:"iconAnchor"`
	ShadowAnchor [2]int `json:"shadowAnchor"`
	PopupAnchor  [2]int `json:"popupAnchor"`
}

// PathOptionsPayload is the wire form of polyline stroke styling.
type PathOptionsPayload struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

// LayerOptionsPayload is the wire form of tile layer options.
type LayerOptionsPayload struct {
	MaxZoom     int     `json:"maxZoom"`
	MinZoom     int     `json:"minZoom"`
	Opacity     float64 `json:"opacity"`
	Attribution string  `json:"attribution"`
}

// CreateMapPayload binds a new map to a viewer surface. The sending
// engine mints the id.
type CreateMapPayload struct {
	MapID     uint64 `json:"mapId"`
	SurfaceID string `json:"surfaceId"`
}

// SetViewPayload recenters a map.
type SetViewPayload struct {
	MapID uint64  `json:"mapId"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Zoom  int     `json:"zoom"`
}

// AddTileLayerPayload registers a raster tile source on a map.
type AddTileLayerPayload struct {
	MapID       uint64              `json:"mapId"`
	URLTemplate string              `json:"urlTemplate"`
	Options     LayerOptionsPayload `json:"options"`
}

// AddGLStylePayload registers a MapLibre GL style on a map.
type AddGLStylePayload struct {
	MapID    uint64 `json:"mapId"`
	StyleURL string `json:"styleUrl"`
}

// CreateMarkerPayload allocates a marker. Icon is omitted entirely
// when the marker uses the viewer's stock art — absence is meaningful
// and must survive the wire.
type CreateMarkerPayload struct {
	MarkerID uint64       `json:"markerId"`
	Lat      float64      `json:"lat"`
	Lon      float64      `json:"lon"`
	Icon     *IconPayload `json:"icon,omitempty"`
}

// CreatePolylinePayload allocates drawable geometry. Points are
// [lat, lon] pairs in draw order.
type CreatePolylinePayload struct {
	PolylineID uint64             `json:"polylineId"`
	Points     [][2]float64       `json:"points"`
	Options    PathOptionsPayload `json:"options"`
}

// BindPopupPayload associates popup text with a marker.
type BindPopupPayload struct {
	MarkerID uint64 `json:"markerId"`
	Text     string `json:"text"`
}

// AttachMarkerPayload puts a marker into a map's render tree.
type AttachMarkerPayload struct {
	MapID    uint64 `json:"mapId"`
	MarkerID uint64 `json:"markerId"`
}

// DetachMarkerPayload removes a marker from a map's render tree.
type DetachMarkerPayload struct {
	MapID    uint64 `json:"mapId"`
	MarkerID uint64 `json:"markerId"`
}

// AttachPolylinePayload puts a polyline into a map's render tree.
type AttachPolylinePayload struct {
	MapID      uint64 `json:"mapId"`
	PolylineID uint64 `json:"polylineId"`
}

// DetachPolylinePayload removes a polyline from a map's render tree.
type DetachPolylinePayload struct {
	MapID      uint64 `json:"mapId"`
	PolylineID uint64 `json:"polylineId"`
}
