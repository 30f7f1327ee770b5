package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Cmooon-dev/gleaflet/pkg/scene"
	"github.com/Cmooon-dev/gleaflet/pkg/streaming"
)

// Config holds WebSocket engine configuration.
type Config struct {
	URL       string
	Secret    string
	SceneName string
	Version   string
}

// Engine streams scene operations over WebSocket to a live viewer.
// The viewer owns the rendered state; locally the engine only mints
// handles and keeps the setup messages needed for reconnect replay.
type Engine struct {
	conn   *connection
	cfg    Config
	nextID atomic.Uint64
}

// New creates a new WebSocket scene engine.
func New(cfg Config) *Engine {
	return &Engine{
		conn: newConnection(slog.Default()),
		cfg:  cfg,
	}
}

// Init connects to the viewer and announces the session, waiting for
// the server ack.
func (e *Engine) Init() error {
	if err := e.conn.dial(e.cfg.URL, e.cfg.Secret); err != nil {
		return err
	}

	data, err := marshalEnvelope(streaming.TypeSessionStart, streaming.SessionStartPayload{
		SceneName:  e.cfg.SceneName,
		EngineKind: "websocket",
		StartedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:    e.cfg.Version,
	})
	if err != nil {
		return err
	}

	// Cache first: a replayed scene must re-announce the session before
	// any of its setup messages.
	e.conn.cacheSetup(data)

	return e.conn.sendAndWait(data, streaming.TypeSessionStart, ackTimeout)
}

// Close disconnects from the viewer.
func (e *Engine) Close() error {
	return e.conn.close()
}

// QueueLen reports how many encoded messages are waiting for the write
// loop.
func (e *Engine) QueueLen() int {
	return len(e.conn.sendCh)
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	env, err := streaming.NewEnvelope(msgType, payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (e *Engine) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	e.conn.send(data)
	return nil
}

// sendSetupEnvelope is sendEnvelope for scene-setup messages: the
// encoded envelope is also cached for reconnect replay.
func (e *Engine) sendSetupEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	e.conn.cacheSetup(data)
	e.conn.send(data)
	return nil
}

// CreateMap mints a map handle and binds it to a viewer surface.
func (e *Engine) CreateMap(surfaceID string) (scene.MapHandle, error) {
	id := e.nextID.Add(1)
	return scene.MapHandle(id), e.sendSetupEnvelope(streaming.TypeCreateMap, streaming.CreateMapPayload{
		MapID:     id,
		SurfaceID: surfaceID,
	})
}

// SetView recenters a map.
func (e *Engine) SetView(m scene.MapHandle, lat, lon float64, zoom int) error {
	return e.sendSetupEnvelope(streaming.TypeSetView, streaming.SetViewPayload{
		MapID: uint64(m),
		Lat:   lat,
		Lon:   lon,
		Zoom:  zoom,
	})
}

// AddTileLayer registers a raster tile source on a map.
func (e *Engine) AddTileLayer(m scene.MapHandle, urlTemplate string, opts scene.LayerOptions) error {
	return e.sendSetupEnvelope(streaming.TypeAddTileLayer, streaming.AddTileLayerPayload{
		MapID:       uint64(m),
		URLTemplate: urlTemplate,
		Options: streaming.LayerOptionsPayload{
			MaxZoom:     opts.MaxZoom,
			MinZoom:     opts.MinZoom,
			Opacity:     opts.Opacity,
			Attribution: opts.Attribution,
		},
	})
}

// AddGLStyle registers a MapLibre GL style on a map.
func (e *Engine) AddGLStyle(m scene.MapHandle, styleURL string) error {
	return e.sendSetupEnvelope(streaming.TypeAddGLStyle, streaming.AddGLStylePayload{
		MapID:    uint64(m),
		StyleURL: styleURL,
	})
}

// CreateMarker mints a marker handle and streams the marker. A nil
// icon stays absent on the wire so the viewer uses its stock art.
func (e *Engine) CreateMarker(lat, lon float64, icon *scene.Icon) (scene.MarkerHandle, error) {
	id := e.nextID.Add(1)
	return scene.MarkerHandle(id), e.sendEnvelope(streaming.TypeCreateMarker, streaming.CreateMarkerPayload{
		MarkerID: id,
		Lat:      lat,
		Lon:      lon,
		Icon:     iconPayload(icon),
	})
}

// CreatePolyline mints a polyline handle and streams the geometry.
func (e *Engine) CreatePolyline(points []scene.Coordinate, opts scene.PathOptions) (scene.PolylineHandle, error) {
	id := e.nextID.Add(1)
	pts := make([][2]float64, len(points))
	for i, p := range points {
		pts[i] = [2]float64{p.Lat, p.Lon}
	}
	return scene.PolylineHandle(id), e.sendEnvelope(streaming.TypeCreatePolyline, streaming.CreatePolylinePayload{
		PolylineID: id,
		Points:     pts,
		Options: streaming.PathOptionsPayload{
			Color:   opts.Color,
			Weight:  opts.Weight,
			Opacity: opts.Opacity,
		},
	})
}

// BindPopup associates popup text with a marker.
func (e *Engine) BindPopup(m scene.MarkerHandle, text string) error {
	return e.sendEnvelope(streaming.TypeBindPopup, streaming.BindPopupPayload{
		MarkerID: uint64(m),
		Text:     text,
	})
}

// AttachMarker puts a marker into a map's render tree.
func (e *Engine) AttachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	return e.sendEnvelope(streaming.TypeAttachMarker, streaming.AttachMarkerPayload{
		MapID:    uint64(mp),
		MarkerID: uint64(m),
	})
}

// DetachMarker removes a marker from a map's render tree.
func (e *Engine) DetachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	return e.sendEnvelope(streaming.TypeDetachMarker, streaming.DetachMarkerPayload{
		MapID:    uint64(mp),
		MarkerID: uint64(m),
	})
}

// AttachPolyline puts a polyline into a map's render tree.
func (e *Engine) AttachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	return e.sendEnvelope(streaming.TypeAttachPolyline, streaming.AttachPolylinePayload{
		MapID:      uint64(mp),
		PolylineID: uint64(p),
	})
}

// DetachPolyline removes a polyline from a map's render tree.
func (e *Engine) DetachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	return e.sendEnvelope(streaming.TypeDetachPolyline, streaming.DetachPolylinePayload{
		MapID:      uint64(mp),
		PolylineID: uint64(p),
	})
}

func iconPayload(ic *scene.Icon) *streaming.IconPayload {
	if ic == nil {
		return nil
	}
	return &streaming.IconPayload{
		IconURL:      ic.IconURL(),
		ShadowURL:    ic.ShadowURL(),
		IconSize:     pointPair(ic.IconSize()),
		ShadowSize:   pointPair(ic.ShadowSize()),
		IconAnchor:   pointPair(ic.IconAnchor()),
		ShadowAnchor: pointPair(ic.ShadowAnchor()),
		PopupAnchor:  pointPair(ic.PopupAnchor()),
	}
}

func pointPair(p scene.Point) [2]int {
	return [2]int{p.X, p.Y}
}
