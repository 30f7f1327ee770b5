package journal

import (
	"fmt"
	"time"

	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/geo"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"github.com/Cmooon-dev/gleaflet/internal/model/convert"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"
	"gorm.io/gorm"
)

// ExportSession reassembles a scene document from the journaled
// records of one session. A sessionID of 0 selects the most recently
// started session.
func ExportSession(db *gorm.DB, sessionID uint) (*exportv1.SceneDocument, error) {
	var session model.Session
	if sessionID == 0 {
		if err := session.GetLatest(db); err != nil {
			return nil, fmt.Errorf("error finding latest session: %w", err)
		}
	} else if err := db.First(&session, sessionID).Error; err != nil {
		return nil, fmt.Errorf("error finding session %d: %w", sessionID, err)
	}

	var mapRecords []model.MapRecord
	if err := db.Where("session_id = ?", session.ID).Order("handle_id").Find(&mapRecords).Error; err != nil {
		return nil, fmt.Errorf("error loading map records: %w", err)
	}
	var markerRecords []model.MarkerRecord
	if err := db.Where("session_id = ?", session.ID).Order("handle_id").Find(&markerRecords).Error; err != nil {
		return nil, fmt.Errorf("error loading marker records: %w", err)
	}
	var polylineRecords []model.PolylineRecord
	if err := db.Where("session_id = ?", session.ID).Order("handle_id").Find(&polylineRecords).Error; err != nil {
		return nil, fmt.Errorf("error loading polyline records: %w", err)
	}

	doc := &exportv1.SceneDocument{
		FormatVersion: 1,
		SceneName:     session.SceneName,
		EngineKind:    session.EngineKind,
		CapturedAt:    capturedAt(session),
		Maps:          make([]exportv1.MapView, 0, len(mapRecords)),
		Markers:       make([]exportv1.MarkerEntry, 0, len(markerRecords)),
		Polylines:     make([]exportv1.PolylineEntry, 0, len(polylineRecords)),
	}

	coords := []scene.Coordinate{}
	for _, r := range mapRecords {
		doc.Maps = append(doc.Maps, convert.RecordToMapView(r))
	}
	for _, r := range markerRecords {
		entry := convert.RecordToMarkerEntry(r)
		doc.Markers = append(doc.Markers, entry)
		coords = append(coords, scene.Coordinate{Lat: entry.Lat, Lon: entry.Lon})
	}
	for _, r := range polylineRecords {
		entry := convert.RecordToPolylineEntry(r)
		doc.Polylines = append(doc.Polylines, entry)
		for _, pt := range entry.Points {
			coords = append(coords, scene.Coordinate{Lat: pt[0], Lon: pt[1]})
		}
	}
	if bounds, ok := geo.BoundsOf(coords); ok {
		doc.Bounds = &bounds
	}

	return doc, nil
}

// capturedAt picks the timestamp stamped into the document. A live or
// crashed session exports its last flush, so the start time stands in
// until the session is closed.
func capturedAt(session model.Session) string {
	if session.EndedAt.Valid {
		return session.EndedAt.Time.UTC().Format(time.RFC3339)
	}
	return session.StartedAt.UTC().Format(time.RFC3339)
}
