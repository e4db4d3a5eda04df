package services

import (
	"gorm.io/gorm"

	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/logger"
	"ratrace/internal/models"
	"ratrace/internal/pagination"
	"ratrace/internal/uuid"
)

// gameService handles session lifecycle and read models.
type gameService struct {
	runner *GameRunner
}

// NewGameService creates a new GameServicer.
func NewGameService(runner *GameRunner) GameServicer {
	return &gameService{runner: runner}
}

// CreateGame starts a new session for professionID and persists it.
func (s *gameService) CreateGame(ownerID, professionID string) (*GameView, error) {
	seed, err := s.runner.seed()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	sess, err := s.runner.eng.Start(professionID, seed)
	if err != nil {
		return nil, err
	}

	st := sess.State()
	game, err := newGameModel(ownerID, st, sess.DiceState())
	if err != nil {
		return nil, err
	}

	err = s.runner.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(game).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return appendEvent(tx, game.ID, ActionStart, st.Player.CurrentTurn, st.Player.CashOnHand,
			map[string]any{"profession_id": professionID}, "")
	})
	if err != nil {
		return nil, err
	}

	logger.ForGame(game.ID).Infow("game started",
		"owner_id", ownerID,
		"profession_id", professionID,
		"cash_on_hand", st.Player.CashOnHand,
	)
	return newGameView(game, sess), nil
}

// GetGame returns the current view of a game.
func (s *gameService) GetGame(ownerID, gameID string) (*GameView, error) {
	game, sess, err := s.runner.read(ownerID, gameID)
	if err != nil {
		return nil, err
	}
	return newGameView(game, sess), nil
}

// ListGames returns the owner's games, newest first.
func (s *gameService) ListGames(ownerID string, page pagination.PageRequest, filter GameFilter) (*pagination.PageResponse[models.GameSession], error) {
	page.Defaults()

	base := s.runner.db.Model(&models.GameSession{}).Where("owner_id = ?", ownerID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var games []models.GameSession
	if err := base.Preload("Player").Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&games).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(games, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// DeleteGame soft-deletes a game. Its history stays in the database until
// an admin purge.
func (s *gameService) DeleteGame(ownerID, gameID string) error {
	if !uuid.Valid(gameID) {
		return apperrors.ErrGameNotFound
	}
	unlock := s.runner.locks.lock(gameID)
	defer unlock()

	result := s.runner.db.Where("id = ? AND owner_id = ?", gameID, ownerID).Delete(&models.GameSession{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrGameNotFound
	}

	logger.ForGame(gameID).Infow("game deleted", "owner_id", ownerID)
	return nil
}

// EndGame completes the session. Every later command is rejected.
func (s *gameService) EndGame(cmd Command) (*CommandResult[FinalScore], error) {
	return runCommand(s.runner, cmd, ActionEndGame, func(_ *gorm.DB, sess *engine.Session) (FinalScore, error) {
		if err := sess.EndGame(); err != nil {
			return FinalScore{}, err
		}
		st := sess.State()
		return FinalScore{
			TotalTurns:        st.TotalTurns,
			NetWorth:          sess.Statement().NetWorth,
			PassiveIncome:     st.Player.PassiveIncome,
			HasEscapedRatRace: st.Player.HasEscapedRatRace,
			IsOnFastTrack:     st.Player.IsOnFastTrack,
		}, nil
	})
}

// GetStatement returns the game's income statement and balance sheet.
func (s *gameService) GetStatement(ownerID, gameID string) (*engine.Statement, error) {
	_, sess, err := s.runner.read(ownerID, gameID)
	if err != nil {
		return nil, err
	}
	st := sess.Statement()
	return &st, nil
}
