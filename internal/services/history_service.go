package services

import (
	"gorm.io/gorm"

	apperrors "ratrace/internal/errors"
	"ratrace/internal/models"
	"ratrace/internal/pagination"
)

// historyService serves a game's event log and turn snapshots.
type historyService struct {
	db *gorm.DB
}

// NewHistoryService creates a new HistoryServicer.
func NewHistoryService(db *gorm.DB) HistoryServicer {
	return &historyService{db: db}
}

// ListEvents returns committed commands in the order they were applied.
func (s *historyService) ListEvents(ownerID, gameID string, page pagination.PageRequest) (*pagination.PageResponse[models.GameEvent], error) {
	if err := gameExists(s.db, ownerID, gameID); err != nil {
		return nil, err
	}
	query := s.db.Model(&models.GameEvent{}).Where("game_id = ?", gameID)
	result, err := pagination.Find[models.GameEvent](query, page, "id ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &result, nil
}

// ListSnapshots returns end-of-turn snapshots, oldest turn first.
func (s *historyService) ListSnapshots(ownerID, gameID string, page pagination.PageRequest) (*pagination.PageResponse[models.TurnSnapshot], error) {
	if err := gameExists(s.db, ownerID, gameID); err != nil {
		return nil, err
	}
	query := s.db.Model(&models.TurnSnapshot{}).Where("game_id = ?", gameID)
	result, err := pagination.Find[models.TurnSnapshot](query, page, "turn ASC")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &result, nil
}
