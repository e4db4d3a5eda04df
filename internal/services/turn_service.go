package services

import (
	"time"

	"gorm.io/gorm"

	"ratrace/internal/engine"
	apperrors "ratrace/internal/errors"
	"ratrace/internal/models"
)

// turnService handles the roll, decide, settle cycle.
type turnService struct {
	runner *GameRunner
}

// NewTurnService creates a new TurnServicer.
func NewTurnService(runner *GameRunner) TurnServicer {
	return &turnService{runner: runner}
}

// RollDice rolls and resolves the landed space.
func (s *turnService) RollDice(cmd Command, suggested *int) (*CommandResult[engine.RollResult], error) {
	return runCommand(s.runner, cmd, ActionRoll, func(_ *gorm.DB, sess *engine.Session) (engine.RollResult, error) {
		return sess.RollDice(suggested)
	})
}

// DrawCard returns the pending card. It changes nothing.
func (s *turnService) DrawCard(ownerID, gameID string) (*engine.Draw, error) {
	_, sess, err := s.runner.read(ownerID, gameID)
	if err != nil {
		return nil, err
	}
	draw, err := sess.DrawCard()
	if err != nil {
		return nil, err
	}
	return &draw, nil
}

// ResolveCharity accepts or declines a pending charity offer.
func (s *turnService) ResolveCharity(cmd Command, accept bool) (*CommandResult[CharityOutcome], error) {
	return runCommand(s.runner, cmd, ActionCharity, func(_ *gorm.DB, sess *engine.Session) (CharityOutcome, error) {
		if !accept {
			return CharityOutcome{}, sess.DeclineCharity()
		}
		paid, err := sess.AcceptCharity()
		if err != nil {
			return CharityOutcome{}, err
		}
		return CharityOutcome{Accepted: true, Donation: paid}, nil
	})
}

// EndTurn settles the turn, evaluates the phase and records a snapshot of
// the player's finances.
func (s *turnService) EndTurn(cmd Command) (*CommandResult[engine.TurnResult], error) {
	return runCommand(s.runner, cmd, ActionEndTurn, func(tx *gorm.DB, sess *engine.Session) (engine.TurnResult, error) {
		res, err := sess.EndTurn()
		if err != nil {
			return res, err
		}
		if err := recordSnapshot(tx, sess, res.Turn-1, s.runner.now()); err != nil {
			return res, err
		}
		return res, nil
	})
}

// recordSnapshot stores the finances the player carries out of turn.
func recordSnapshot(tx *gorm.DB, sess *engine.Session, turn int, recordedAt time.Time) error {
	st := sess.State()
	stmt := sess.Statement()
	snap := &models.TurnSnapshot{
		GameID:        st.ID,
		Turn:          turn,
		Phase:         st.CurrentPhase,
		RecordedAt:    recordedAt,
		CashOnHand:    st.Player.CashOnHand,
		PassiveIncome: st.Player.PassiveIncome,
		TotalIncome:   stmt.TotalIncome,
		TotalExpenses: stmt.TotalExpenses,
		CashFlow:      stmt.CashFlow,
		NetWorth:      stmt.NetWorth,
	}
	if err := tx.Create(snap).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
