// Package journal implements the scene.Engine interface on a GORM
// database with an internal operations queue and a background DB
// writer goroutine. Every call is journaled twice: as a row in the
// append-only operations log, and folded into per-handle record rows
// that always hold the latest scene state.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/database"
	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/logging"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"github.com/Cmooon-dev/gleaflet/internal/model/convert"
	"github.com/Cmooon-dev/gleaflet/internal/queue"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
	"github.com/Cmooon-dev/gleaflet/pkg/streaming"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const writeInterval = 2 * time.Second

// Config carries the journal settings plus the session identity
// stamped into the sessions table.
type Config struct {
	Journal   config.JournalConfig
	SceneName string
	Version   string
}

// Dependencies holds all dependencies for the journal engine.
// A nil DB together with an empty configured driver puts the engine
// in queue-only mode: calls accumulate and nothing is written.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// mapState is the live form of one journaled map. Attach sets are
// kept as sets so repeated attach and detach stay idempotent; they
// flatten to sorted id lists at write time.
type mapState struct {
	view      exportv1.MapView
	markers   map[uint64]struct{}
	polylines map[uint64]struct{}
}

// Engine implements scene.Engine by journaling calls into a database.
// Unknown handles are rejected the same way the memory engine rejects
// them, and rejected calls leave no trace in the journal.
type Engine struct {
	cfg  Config
	deps Dependencies
	mgr  *database.Manager

	mu        sync.Mutex
	idCounter uint64
	seq       uint
	closed    bool
	maps      map[uint64]*mapState
	markers   map[uint64]*exportv1.MarkerEntry
	polylines map[uint64]*exportv1.PolylineEntry

	ops       *queue.Queue[model.Operation]
	sessionID atomic.Uint64
	stopChan  chan struct{}
	dbReady   bool
}

// New creates a new journal engine.
func New(cfg Config, deps Dependencies) *Engine {
	return &Engine{
		cfg:  cfg,
		deps: deps,
	}
}

// Init creates the internal queue and scene mirrors, connects and
// migrates the database, opens the session row, and starts the DB
// writer goroutine. If no DB was injected via Dependencies, it
// connects using the configured journal driver.
func (e *Engine) Init() error {
	e.ops = queue.New[model.Operation]()
	e.stopChan = make(chan struct{})
	e.maps = make(map[uint64]*mapState)
	e.markers = make(map[uint64]*exportv1.MarkerEntry)
	e.polylines = make(map[uint64]*exportv1.PolylineEntry)

	if e.deps.DB == nil {
		if e.cfg.Journal.Driver == "" {
			return nil
		}
		mgr := database.NewManager(zerolog.New(os.Stderr).With().Timestamp().Logger())
		if err := mgr.Connect(e.cfg.Journal); err != nil {
			return fmt.Errorf("failed to connect journal database: %w", err)
		}
		if err := mgr.Setup(); err != nil {
			return fmt.Errorf("failed to setup journal database: %w", err)
		}
		e.mgr = mgr
		e.deps.DB = mgr.DB
	} else if err := e.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}

	session := model.Session{
		SceneName:  e.cfg.SceneName,
		EngineKind: "journal",
		Version:    e.cfg.Version,
		StartedAt:  time.Now(),
	}
	if err := e.deps.DB.Create(&session).Error; err != nil {
		return fmt.Errorf("failed to insert new session: %w", err)
	}
	e.sessionID.Store(uint64(session.ID))
	e.dbReady = true

	e.startDBWriter()
	return nil
}

// setupDB migrates the journal schema on an injected database.
func (e *Engine) setupDB() error {
	db := e.deps.DB

	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE Extension IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS Extension: %w", err)
		}
	}

	if db.Dialector.Name() == "sqlite" {
		return db.AutoMigrate(model.DatabaseModelsSQLite...)
	}
	return db.AutoMigrate(model.DatabaseModels...)
}

// SessionID returns the id of the session row this run journals into.
func (e *Engine) SessionID() uint {
	return uint(e.sessionID.Load())
}

// QueueLen reports the number of operations not yet written.
func (e *Engine) QueueLen() int {
	return e.ops.Len()
}

// pushOp queues one journaled call. Callers hold the state lock, so
// sequence numbers follow call order exactly.
func (e *Engine) pushOp(kind string, payload any) {
	data, _ := json.Marshal(payload)
	e.seq++
	e.ops.Push(model.Operation{
		Time:    time.Now(),
		Seq:     e.seq,
		Kind:    kind,
		Payload: datatypes.JSON(data),
	})
}

// CreateMap allocates a map bound to the named host surface.
func (e *Engine) CreateMap(surfaceID string) (scene.MapHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.idCounter++
	id := e.idCounter
	e.maps[id] = &mapState{
		view: exportv1.MapView{
			ID:         id,
			SurfaceID:  surfaceID,
			TileLayers: []exportv1.TileLayer{},
			GLStyles:   []string{},
		},
		markers:   make(map[uint64]struct{}),
		polylines: make(map[uint64]struct{}),
	}
	e.pushOp(streaming.TypeCreateMap, streaming.CreateMapPayload{MapID: id, SurfaceID: surfaceID})
	return scene.MapHandle(id), nil
}

// SetView recenters a map and sets its zoom level. The record keeps
// the last view; the operations log keeps them all.
func (e *Engine) SetView(m scene.MapHandle, lat, lon float64, zoom int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	st.view.View = &exportv1.View{Lat: lat, Lon: lon, Zoom: zoom}
	e.pushOp(streaming.TypeSetView, streaming.SetViewPayload{MapID: uint64(m), Lat: lat, Lon: lon, Zoom: zoom})
	return nil
}

// AddTileLayer registers a raster tile source on a map.
func (e *Engine) AddTileLayer(m scene.MapHandle, urlTemplate string, opts scene.LayerOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	st.view.TileLayers = append(st.view.TileLayers, exportv1.TileLayer{
		URLTemplate: urlTemplate,
		MaxZoom:     opts.MaxZoom,
		MinZoom:     opts.MinZoom,
		Opacity:     opts.Opacity,
		Attribution: opts.Attribution,
	})
	e.pushOp(streaming.TypeAddTileLayer, streaming.AddTileLayerPayload{
		MapID:       uint64(m),
		URLTemplate: urlTemplate,
		Options: streaming.LayerOptionsPayload{
			MaxZoom:     opts.MaxZoom,
			MinZoom:     opts.MinZoom,
			Opacity:     opts.Opacity,
			Attribution: opts.Attribution,
		},
	})
	return nil
}

// AddGLStyle registers a MapLibre GL style source on a map.
func (e *Engine) AddGLStyle(m scene.MapHandle, styleURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(m)]
	if !ok {
		return fmt.Errorf("map %d not found", m)
	}
	st.view.GLStyles = append(st.view.GLStyles, styleURL)
	e.pushOp(streaming.TypeAddGLStyle, streaming.AddGLStylePayload{MapID: uint64(m), StyleURL: styleURL})
	return nil
}

// CreateMarker allocates a marker at a position.
func (e *Engine) CreateMarker(lat, lon float64, icon *scene.Icon) (scene.MarkerHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.idCounter++
	id := e.idCounter
	entry := &exportv1.MarkerEntry{ID: id, Lat: lat, Lon: lon}
	if icon != nil {
		entry.Icon = exportv1.NewIconEntry(*icon)
	}
	e.markers[id] = entry
	e.pushOp(streaming.TypeCreateMarker, streaming.CreateMarkerPayload{
		MarkerID: id,
		Lat:      lat,
		Lon:      lon,
		Icon:     iconPayload(icon),
	})
	return scene.MarkerHandle(id), nil
}

// CreatePolyline allocates drawable geometry for a path. An empty
// path is legal and journaled empty.
func (e *Engine) CreatePolyline(points []scene.Coordinate, opts scene.PathOptions) (scene.PolylineHandle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pts := make([][2]float64, len(points))
	for i, pt := range points {
		pts[i] = [2]float64{pt.Lat, pt.Lon}
	}

	e.idCounter++
	id := e.idCounter
	e.polylines[id] = &exportv1.PolylineEntry{
		ID:      id,
		Points:  pts,
		Color:   opts.Color,
		Weight:  opts.Weight,
		Opacity: opts.Opacity,
	}
	e.pushOp(streaming.TypeCreatePolyline, streaming.CreatePolylinePayload{
		PolylineID: id,
		Points:     pts,
		Options: streaming.PathOptionsPayload{
			Color:   opts.Color,
			Weight:  opts.Weight,
			Opacity: opts.Opacity,
		},
	})
	return scene.PolylineHandle(id), nil
}

// BindPopup associates popup text with a marker. Rebinding replaces
// the previous text in the record.
func (e *Engine) BindPopup(m scene.MarkerHandle, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entry, ok := e.markers[uint64(m)]
	if !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	entry.Popup = &text
	e.pushOp(streaming.TypeBindPopup, streaming.BindPopupPayload{MarkerID: uint64(m), Text: text})
	return nil
}

// AttachMarker puts a marker into a map's render tree. Repeats are
// no-ops for the record but still journaled as operations.
func (e *Engine) AttachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.markers[uint64(m)]; !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	st.markers[uint64(m)] = struct{}{}
	e.pushOp(streaming.TypeAttachMarker, streaming.AttachMarkerPayload{MapID: uint64(mp), MarkerID: uint64(m)})
	return nil
}

// DetachMarker takes a marker out of a map's render tree.
func (e *Engine) DetachMarker(mp scene.MapHandle, m scene.MarkerHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.markers[uint64(m)]; !ok {
		return fmt.Errorf("marker %d not found", m)
	}
	delete(st.markers, uint64(m))
	e.pushOp(streaming.TypeDetachMarker, streaming.DetachMarkerPayload{MapID: uint64(mp), MarkerID: uint64(m)})
	return nil
}

// AttachPolyline puts a polyline into a map's render tree.
func (e *Engine) AttachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.polylines[uint64(p)]; !ok {
		return fmt.Errorf("polyline %d not found", p)
	}
	st.polylines[uint64(p)] = struct{}{}
	e.pushOp(streaming.TypeAttachPolyline, streaming.AttachPolylinePayload{MapID: uint64(mp), PolylineID: uint64(p)})
	return nil
}

// DetachPolyline takes a polyline out of a map's render tree.
func (e *Engine) DetachPolyline(mp scene.MapHandle, p scene.PolylineHandle) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.maps[uint64(mp)]
	if !ok {
		return fmt.Errorf("map %d not found", mp)
	}
	if _, ok := e.polylines[uint64(p)]; !ok {
		return fmt.Errorf("polyline %d not found", p)
	}
	delete(st.polylines, uint64(p))
	e.pushOp(streaming.TypeDetachPolyline, streaming.DetachPolylinePayload{MapID: uint64(mp), PolylineID: uint64(p)})
	return nil
}

// Flush upserts the scene mirrors and drains the operations queue in
// one transaction. Records are upserted rather than inserted because
// their rows change in place across flushes; failed operations go
// back on the queue and their Seq column preserves true call order.
func (e *Engine) Flush() error {
	if e.deps.DB == nil || !e.dbReady {
		return nil
	}

	sessionID := uint(e.sessionID.Load())

	e.mu.Lock()
	mapRecords := make([]model.MapRecord, 0, len(e.maps))
	for _, st := range e.maps {
		mv := st.view
		mv.MarkerIDs = sortedHandles(st.markers)
		mv.PolylineIDs = sortedHandles(st.polylines)
		mapRecords = append(mapRecords, convert.MapViewToRecord(sessionID, mv))
	}
	markerRecords := make([]model.MarkerRecord, 0, len(e.markers))
	for _, entry := range e.markers {
		markerRecords = append(markerRecords, convert.MarkerEntryToRecord(sessionID, *entry))
	}
	polylineRecords := make([]model.PolylineRecord, 0, len(e.polylines))
	for _, entry := range e.polylines {
		polylineRecords = append(polylineRecords, convert.PolylineEntryToRecord(sessionID, *entry))
	}
	e.mu.Unlock()

	ops := e.ops.Drain()
	for i := range ops {
		ops[i].SessionID = sessionID
	}

	tx := e.deps.DB.Begin()
	if err := upsertRecords(tx, mapRecords, markerRecords, polylineRecords); err != nil {
		tx.Rollback()
		e.ops.Requeue(ops)
		return err
	}
	if len(ops) > 0 {
		batchSize := e.cfg.Journal.BatchSize
		if batchSize <= 0 {
			batchSize = 500
		}
		if err := tx.CreateInBatches(&ops, batchSize).Error; err != nil {
			tx.Rollback()
			e.ops.Requeue(ops)
			return fmt.Errorf("error creating operations: %w", err)
		}
	}
	tx.Commit()
	return nil
}

// upsertRecords writes the scene mirrors. Empty slices are skipped so
// a flush with only queued operations stays cheap.
func upsertRecords(tx *gorm.DB, maps []model.MapRecord, markers []model.MarkerRecord, polylines []model.PolylineRecord) error {
	if len(maps) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&maps).Error; err != nil {
			return fmt.Errorf("error upserting map records: %w", err)
		}
	}
	if len(markers) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&markers).Error; err != nil {
			return fmt.Errorf("error upserting marker records: %w", err)
		}
	}
	if len(polylines) > 0 {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&polylines).Error; err != nil {
			return fmt.Errorf("error upserting polyline records: %w", err)
		}
	}
	return nil
}

// startDBWriter starts the background goroutine that periodically
// drains the queue into the DB.
func (e *Engine) startDBWriter() {
	go func() {
		for {
			select {
			case <-e.stopChan:
				return
			default:
			}

			time.Sleep(writeInterval)

			if e.QueueLen() == 0 {
				continue
			}
			if err := e.Flush(); err != nil {
				e.logWrite(fmt.Sprintf("Error flushing journal: %v", err), "ERROR")
			}
		}
	}()
}

// logWrite reports writer activity through the log manager when one
// was injected.
func (e *Engine) logWrite(msg, level string) {
	if e.deps.LogManager == nil {
		return
	}
	e.deps.LogManager.WriteLog(":DB:WRITER:", msg, level)
}

// Close stops the writer, flushes what is queued, and stamps the
// session end time. A run that fell back to the in-memory database
// is dumped to the configured journal path so it is not lost.
// Closing an already closed engine is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	if e.stopChan != nil {
		close(e.stopChan)
	}
	if e.deps.DB == nil || !e.dbReady {
		return nil
	}

	if err := e.Flush(); err != nil {
		return err
	}

	endedAt := sql.NullTime{Time: time.Now(), Valid: true}
	err := e.deps.DB.Model(&model.Session{}).
		Where("id = ?", uint(e.sessionID.Load())).
		Update("ended_at", endedAt).Error
	if err != nil {
		return fmt.Errorf("error stamping session end: %w", err)
	}

	if e.mgr != nil && e.mgr.ShouldSaveLocal && e.mgr.SqliteFilePath != "" {
		return e.mgr.DumpMemoryToDisk()
	}
	return nil
}

// iconPayload converts an icon to its wire form, nil for stock art.
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

// sortedHandles flattens an attach set to ascending handle order.
func sortedHandles(set map[uint64]struct{}) []uint64 {
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
