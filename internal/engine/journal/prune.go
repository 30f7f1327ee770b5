package journal

import (
	"fmt"

	"github.com/Cmooon-dev/gleaflet/internal/model"
	"gorm.io/gorm"
)

// PruneSessions deletes every session except the keep most recently
// started ones, along with their journaled records and operations.
// Child rows are deleted explicitly because SQLite does not enforce
// the FK cascade unless foreign keys were switched on for the
// connection. Returns the number of sessions removed.
func PruneSessions(db *gorm.DB, keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be >= 0, got %d", keep)
	}

	var stale []model.Session
	err := db.Unscoped().Order("started_at DESC").Offset(keep).Find(&stale).Error
	if err != nil {
		return 0, fmt.Errorf("error finding stale sessions: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(stale))
	for _, session := range stale {
		ids = append(ids, session.ID)
	}

	tx := db.Begin()
	for _, child := range []any{
		&model.Operation{},
		&model.MapRecord{},
		&model.MarkerRecord{},
		&model.PolylineRecord{},
	} {
		if err := tx.Unscoped().Where("session_id IN ?", ids).Delete(child).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("error deleting session children: %w", err)
		}
	}
	if err := tx.Unscoped().Delete(&model.Session{}, ids).Error; err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("error deleting sessions: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("error committing prune: %w", err)
	}

	return len(stale), nil
}
