package model

import (
	"database/sql"
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Session{},
	&MapRecord{},
	&MarkerRecord{},
	&PolylineRecord{},
	&Operation{},
}

var DatabaseModelsSQLite = []interface{}{
	&Session{},
	&MapRecord{},
	&MarkerRecord{},
	&PolylineRecord{},
	&Operation{},
}

////////////////////////
// JOURNAL MODELS //
////////////////////////

// Session is one run of the bridge against a single engine
type Session struct {
	gorm.Model
	SceneName  string       `json:"sceneName" gorm:"size:200"`
	EngineKind string       `json:"engineKind" gorm:"size:32"`
	Version    string       `json:"version" gorm:"size:64"`
	StartedAt  time.Time    `json:"startedAt" gorm:"type:timestamptz;index:idx_session_started"`
	EndedAt    sql.NullTime `json:"endedAt" gorm:"type:timestamptz;default:NULL"` // NULL while the session is live

	Maps       []MapRecord
	Markers    []MarkerRecord
	Polylines  []PolylineRecord
	Operations []Operation
}

func (*Session) TableName() string {
	return "sessions"
}

// GetLatest loads the most recently started session.
func (s *Session) GetLatest(db *gorm.DB) (err error) {
	err = db.Order(
		"started_at DESC",
	).First(s).Error
	return err
}

// MapRecord is the journaled state of one map
// Uses composite primary key (SessionID, HandleID) - HandleID is the engine-assigned sequential ID
//
// Wire type: create_map
type MapRecord struct {
	SessionID uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	HandleID  uint64         `json:"handleId" gorm:"primaryKey;autoIncrement:false"` // Engine-assigned sequential ID
	Session   Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`

	SurfaceID         string         `json:"surfaceId" gorm:"size:128"`                        // Host surface the map is bound to
	ViewLat           float64        `json:"viewLat"`                                          // Last set_view center, WGS84 degrees
	ViewLon           float64        `json:"viewLon"`
	ViewZoom          int            `json:"viewZoom"`
	HasView           bool           `json:"hasView" gorm:"default:false"`                     // False until the first set_view
	TileLayers        datatypes.JSON `json:"tileLayers" gorm:"type:jsonb;default:'[]'"`        // Tile layer registrations in add order
	GLStyles          datatypes.JSON `json:"glStyles" gorm:"type:jsonb;default:'[]'"`          // MapLibre GL style URLs in add order
	AttachedMarkers   datatypes.JSON `json:"attachedMarkers" gorm:"type:jsonb;default:'[]'"`   // Handle IDs of markers in the render tree
	AttachedPolylines datatypes.JSON `json:"attachedPolylines" gorm:"type:jsonb;default:'[]'"` // Handle IDs of polylines in the render tree
}

func (*MapRecord) TableName() string {
	return "map_records"
}

// MarkerRecord is the journaled state of one marker
// Uses composite primary key (SessionID, HandleID)
//
// Wire types: create_marker, bind_popup
type MarkerRecord struct {
	SessionID uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	HandleID  uint64         `json:"handleId" gorm:"primaryKey;autoIncrement:false"`
	Session   Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`

	Lat      float64        `json:"lat"` // Position as supplied by the caller, WGS84 degrees
	Lon      float64        `json:"lon"`
	Position geom.Point     `json:"position"`                            // Same position in EPSG:3857
	Icon     datatypes.JSON `json:"icon" gorm:"type:jsonb;default:NULL"` // Custom icon set, NULL for stock art
	Popup    sql.NullString `json:"popup" gorm:"size:2000"`              // Bound popup text, NULL when never bound
}

func (*MarkerRecord) TableName() string {
	return "marker_records"
}

// PolylineRecord is the journaled state of one polyline
// Uses composite primary key (SessionID, HandleID)
//
// Wire type: create_polyline
type PolylineRecord struct {
	SessionID uint           `json:"sessionId" gorm:"primaryKey;autoIncrement:false"`
	HandleID  uint64         `json:"handleId" gorm:"primaryKey;autoIncrement:false"`
	Session   Session        `gorm:"foreignkey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"deletedAt" gorm:"index"`

	Points   datatypes.JSON  `json:"points" gorm:"type:jsonb;default:'[]'"` // [lat, lon] pairs in caller order
	Geometry geom.LineString `json:"geometry"`                              // Same path in EPSG:3857
	Color    string          `json:"color" gorm:"size:32"`
	Weight   int             `json:"weight"`
	Opacity  float64         `json:"opacity"`
}

func (*PolylineRecord) TableName() string {
	return "polyline_records"
}

// Operation is one journaled engine call in session call order
type Operation struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time      `json:"time" gorm:"type:timestamptz;"` // Server time when the call arrived
	SessionID uint           `json:"sessionId" gorm:"index:idx_operation_session_id"`
	Session   Session        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Seq       uint           `json:"seq" gorm:"index:idx_operation_seq"`      // Position in the session's call order
	Kind      string         `json:"kind" gorm:"size:32"`                     // Streaming message type of the call
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb;default:'{}'"` // Streaming payload of the call
}

func (*Operation) TableName() string {
	return "operations"
}
