package services

import (
	"time"

	"gorm.io/gorm"

	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/logger"
	"ratrace/internal/models"
)

// adminService handles maintenance operations.
type adminService struct {
	db *gorm.DB
}

// NewAdminService creates a new AdminServicer.
func NewAdminService(db *gorm.DB) AdminServicer {
	return &adminService{db: db}
}

// PurgeCompleted permanently removes games completed before the cutoff and
// games soft-deleted before it, with their registries, event log and
// snapshots. It returns the number of games removed.
func (s *adminService) PurgeCompleted(completedBefore time.Time) (int64, error) {
	var purged int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Unscoped().Model(&models.GameSession{}).
			Where("(status = ? AND completed_at < ?) OR (deleted_at IS NOT NULL AND deleted_at < ?)",
				engine.StatusCompleted, completedBefore, completedBefore).
			Pluck("id", &ids).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(ids) == 0 {
			return nil
		}

		children := []any{
			&models.TurnSnapshot{},
			&models.GameEvent{},
			&models.PlayerDoodad{},
			&models.Liability{},
			&models.Investment{},
			&models.Player{},
		}
		for _, model := range children {
			if err := tx.Unscoped().Where("game_id IN ?", ids).Delete(model).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result := tx.Unscoped().Where("id IN ?", ids).Delete(&models.GameSession{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		purged = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Get().Infow("purged games", "count", purged, "before", completedBefore)
	return purged, nil
}
