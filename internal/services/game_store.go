package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/models"
	"ratrace/internal/uuid"
)

// loadGame fetches a game with its player and registries. Games owned by
// someone else are reported as not found.
func loadGame(db *gorm.DB, ownerID, gameID string) (*models.GameSession, error) {
	if !uuid.Valid(gameID) {
		return nil, apperrors.ErrGameNotFound
	}

	var game models.GameSession
	err := db.
		Preload("Player").
		Preload("Investments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Liabilities", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Doodads", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ? AND owner_id = ?", gameID, ownerID).
		First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGameNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &game, nil
}

// gameExists checks ownership without loading the registries.
func gameExists(db *gorm.DB, ownerID, gameID string) error {
	if !uuid.Valid(gameID) {
		return apperrors.ErrGameNotFound
	}
	var count int64
	if err := db.Model(&models.GameSession{}).
		Where("id = ? AND owner_id = ?", gameID, ownerID).
		Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return apperrors.ErrGameNotFound
	}
	return nil
}

// stateFromModel rebuilds engine state from its persisted columns and rows.
func stateFromModel(g *models.GameSession) (engine.State, error) {
	st := engine.State{
		ID:              g.ID,
		ProfessionID:    g.ProfessionID,
		Status:          g.Status,
		CurrentPhase:    g.CurrentPhase,
		TotalTurns:      g.TotalTurns,
		TurnState:       g.TurnState,
		SettledThisTurn: g.SettledThisTurn,
		CreatedAt:       g.CreatedAt,
		Player: engine.Player{
			CashOnHand:        g.Player.CashOnHand,
			Savings:           g.Player.Savings,
			NumChildren:       g.Player.NumChildren,
			CurrentTurn:       g.Player.CurrentTurn,
			CurrentPosition:   g.Player.CurrentPosition,
			PassiveIncome:     g.Player.PassiveIncome,
			HasEscapedRatRace: g.Player.HasEscapedRatRace,
			IsOnFastTrack:     g.Player.IsOnFastTrack,
		},
	}

	if err := decodeJSON(g.Pending, &st.Pending); err != nil {
		return st, fmt.Errorf("decode pending: %w", err)
	}
	if err := decodeJSON(g.Decks, &st.Decks); err != nil {
		return st, fmt.Errorf("decode decks: %w", err)
	}
	if err := decodeJSON(g.Modifiers, &st.Modifiers); err != nil {
		return st, fmt.Errorf("decode modifiers: %w", err)
	}
	if err := decodeJSON(g.LastRoll, &st.LastRoll); err != nil {
		return st, fmt.Errorf("decode last roll: %w", err)
	}

	for _, inv := range g.Investments {
		st.Investments = append(st.Investments, engine.Investment{
			ID:                inv.ID,
			CardID:            inv.CardID,
			Title:             inv.Title,
			Kind:              inv.Kind,
			PurchasePrice:     inv.PurchasePrice,
			DownPaymentPaid:   inv.DownPaymentPaid,
			Mortgage:          inv.Mortgage,
			Shares:            inv.Shares,
			CurrentCashFlow:   inv.CurrentCashFlow,
			TotalIncomeEarned: inv.TotalIncomeEarned,
			PurchasedTurn:     inv.PurchasedTurn,
			PurchasedAt:       inv.PurchasedAt,
		})
	}
	for _, l := range g.Liabilities {
		st.Liabilities = append(st.Liabilities, engine.Liability{
			ID:               l.ID,
			Type:             l.Type,
			PrincipalAmount:  l.PrincipalAmount,
			RemainingBalance: l.RemainingBalance,
			MonthlyPayment:   l.MonthlyPayment,
			InterestRate:     l.InterestRate,
			TakenAt:          l.TakenAt,
		})
	}
	for _, d := range g.Doodads {
		st.Doodads = append(st.Doodads, engine.PlayerDoodad{
			ID:          d.ID,
			DoodadID:    d.DoodadID,
			Title:       d.Title,
			Category:    d.Category,
			Cost:        d.Cost,
			Turn:        d.Turn,
			PurchasedAt: d.PurchasedAt,
		})
	}
	return st, nil
}

// newGameModel builds the rows for a freshly started session.
func newGameModel(ownerID string, st engine.State, diceState []byte) (*models.GameSession, error) {
	cols, err := encodeSessionColumns(st)
	if err != nil {
		return nil, err
	}
	return &models.GameSession{
		Base:            models.Base{ID: st.ID, CreatedAt: st.CreatedAt},
		OwnerID:         ownerID,
		ProfessionID:    st.ProfessionID,
		Status:          st.Status,
		CurrentPhase:    st.CurrentPhase,
		TotalTurns:      st.TotalTurns,
		TurnState:       st.TurnState,
		SettledThisTurn: st.SettledThisTurn,
		Pending:         cols.pending,
		Decks:           cols.decks,
		Modifiers:       cols.modifiers,
		LastRoll:        cols.lastRoll,
		DiceState:       diceState,
		Player:          playerModel(st.Player),
	}, nil
}

type jsonColumns struct {
	pending, decks, modifiers, lastRoll datatypes.JSON
}

func encodeSessionColumns(st engine.State) (jsonColumns, error) {
	var cols jsonColumns
	var err error
	if st.Pending != nil {
		if cols.pending, err = json.Marshal(st.Pending); err != nil {
			return cols, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if cols.decks, err = json.Marshal(st.Decks); err != nil {
		return cols, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(st.Modifiers) > 0 {
		if cols.modifiers, err = json.Marshal(st.Modifiers); err != nil {
			return cols, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	if len(st.LastRoll) > 0 {
		if cols.lastRoll, err = json.Marshal(st.LastRoll); err != nil {
			return cols, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return cols, nil
}

func decodeJSON(raw datatypes.JSON, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func playerModel(p engine.Player) models.Player {
	return models.Player{
		CashOnHand:        p.CashOnHand,
		Savings:           p.Savings,
		NumChildren:       p.NumChildren,
		CurrentTurn:       p.CurrentTurn,
		CurrentPosition:   p.CurrentPosition,
		PassiveIncome:     p.PassiveIncome,
		HasEscapedRatRace: p.HasEscapedRatRace,
		IsOnFastTrack:     p.IsOnFastTrack,
	}
}

// saveGame writes st over the loaded game. The version column guards
// against a concurrent writer that slipped past the in-process lock.
func saveGame(tx *gorm.DB, game *models.GameSession, st engine.State, diceState []byte, now func() time.Time) error {
	cols, err := encodeSessionColumns(st)
	if err != nil {
		return err
	}

	updates := map[string]any{
		"status":            st.Status,
		"current_phase":     st.CurrentPhase,
		"total_turns":       st.TotalTurns,
		"turn_state":        st.TurnState,
		"settled_this_turn": st.SettledThisTurn,
		"pending":           cols.pending,
		"decks":             cols.decks,
		"modifiers":         cols.modifiers,
		"last_roll":         cols.lastRoll,
		"dice_state":        diceState,
		"version":           game.Version + 1,
	}
	if st.Status == engine.StatusCompleted && game.CompletedAt == nil {
		completedAt := now()
		updates["completed_at"] = completedAt
		game.CompletedAt = &completedAt
	}

	result := tx.Model(&models.GameSession{}).
		Where("id = ? AND version = ?", game.ID, game.Version).
		Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrStaleGame
	}
	game.Version++

	p := st.Player
	if err := tx.Model(&models.Player{}).
		Where("game_id = ?", game.ID).
		Updates(map[string]any{
			"cash_on_hand":         p.CashOnHand,
			"savings":              p.Savings,
			"num_children":         p.NumChildren,
			"current_turn":         p.CurrentTurn,
			"current_position":     p.CurrentPosition,
			"passive_income":       p.PassiveIncome,
			"has_escaped_rat_race": p.HasEscapedRatRace,
			"is_on_fast_track":     p.IsOnFastTrack,
		}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := saveInvestments(tx, game, st.Investments); err != nil {
		return err
	}
	if err := saveLiabilities(tx, game, st.Liabilities); err != nil {
		return err
	}
	return saveDoodads(tx, game, st.Doodads)
}

func saveInvestments(tx *gorm.DB, game *models.GameSession, investments []engine.Investment) error {
	existing := make(map[string]bool, len(game.Investments))
	for _, inv := range game.Investments {
		existing[inv.ID] = true
	}

	kept := make([]string, 0, len(investments))
	for _, inv := range investments {
		kept = append(kept, inv.ID)
		if existing[inv.ID] {
			// Only accrued income changes on a held investment.
			if err := tx.Model(&models.Investment{}).
				Where("id = ?", inv.ID).
				Update("total_income_earned", inv.TotalIncomeEarned).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			continue
		}
		row := models.Investment{
			Base:              models.Base{ID: inv.ID},
			GameID:            game.ID,
			CardID:            inv.CardID,
			Title:             inv.Title,
			Kind:              inv.Kind,
			PurchasePrice:     inv.PurchasePrice,
			DownPaymentPaid:   inv.DownPaymentPaid,
			Mortgage:          inv.Mortgage,
			Shares:            inv.Shares,
			CurrentCashFlow:   inv.CurrentCashFlow,
			TotalIncomeEarned: inv.TotalIncomeEarned,
			PurchasedTurn:     inv.PurchasedTurn,
			PurchasedAt:       inv.PurchasedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return deleteMissing(tx, &models.Investment{}, game.ID, kept)
}

func saveLiabilities(tx *gorm.DB, game *models.GameSession, liabilities []engine.Liability) error {
	existing := make(map[string]bool, len(game.Liabilities))
	for _, l := range game.Liabilities {
		existing[l.ID] = true
	}

	kept := make([]string, 0, len(liabilities))
	for _, l := range liabilities {
		kept = append(kept, l.ID)
		if existing[l.ID] {
			continue
		}
		row := models.Liability{
			Base:             models.Base{ID: l.ID},
			GameID:           game.ID,
			Type:             l.Type,
			PrincipalAmount:  l.PrincipalAmount,
			RemainingBalance: l.RemainingBalance,
			MonthlyPayment:   l.MonthlyPayment,
			InterestRate:     l.InterestRate,
			TakenAt:          l.TakenAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return deleteMissing(tx, &models.Liability{}, game.ID, kept)
}

// Doodad purchases are append-only.
func saveDoodads(tx *gorm.DB, game *models.GameSession, doodads []engine.PlayerDoodad) error {
	existing := make(map[string]bool, len(game.Doodads))
	for _, d := range game.Doodads {
		existing[d.ID] = true
	}
	for _, d := range doodads {
		if existing[d.ID] {
			continue
		}
		row := models.PlayerDoodad{
			Base:        models.Base{ID: d.ID},
			GameID:      game.ID,
			DoodadID:    d.DoodadID,
			Title:       d.Title,
			Category:    d.Category,
			Cost:        d.Cost,
			Turn:        d.Turn,
			PurchasedAt: d.PurchasedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// deleteMissing soft-deletes a game's registry rows that are no longer live.
func deleteMissing(tx *gorm.DB, model any, gameID string, kept []string) error {
	q := tx.Where("game_id = ?", gameID)
	if len(kept) > 0 {
		q = q.Where("id NOT IN ?", kept)
	}
	if err := q.Delete(model).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// newGameView renders a session for clients.
func newGameView(game *models.GameSession, s *engine.Session) *GameView {
	st := s.State()
	view := &GameView{
		ID:           st.ID,
		OwnerID:      game.OwnerID,
		ProfessionID: st.ProfessionID,
		Status:       st.Status,
		CurrentPhase: st.CurrentPhase,
		TotalTurns:   st.TotalTurns,
		TurnState:    st.TurnState,
		Pending:      st.Pending,
		LastRoll:     st.LastRoll,
		Modifiers:    st.Modifiers,
		Player:       st.Player,
		Investments:  st.Investments,
		Liabilities:  st.Liabilities,
		Doodads:      st.Doodads,
		Ledger:       s.Ledger(),
		Version:      game.Version,
		CreatedAt:    st.CreatedAt,
	}
	if view.Modifiers == nil {
		view.Modifiers = []engine.Modifier{}
	}
	if view.Investments == nil {
		view.Investments = []engine.Investment{}
	}
	if view.Liabilities == nil {
		view.Liabilities = []engine.Liability{}
	}
	if view.Doodads == nil {
		view.Doodads = []engine.PlayerDoodad{}
	}
	return view
}

// pendingOf reports the decision a session currently owes, if any.
func pendingOf(s *engine.Session) Passed {
	st := s.State()
	if st.Pending == nil {
		return Passed{}
	}
	return Passed{Space: st.Pending.Space, CardID: st.Pending.CardID}
}
