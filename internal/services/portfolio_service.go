package services

import (
	"gorm.io/gorm"

	"ratrace/internal/engine"
)

// portfolioService handles buying and selling assets, doodads and loans.
type portfolioService struct {
	runner *GameRunner
}

// NewPortfolioService creates a new PortfolioServicer.
func NewPortfolioService(runner *GameRunner) PortfolioServicer {
	return &portfolioService{runner: runner}
}

// Purchase buys the pending opportunity card.
func (s *portfolioService) Purchase(cmd Command, cardID string) (*CommandResult[engine.Investment], error) {
	return runCommand(s.runner, cmd, ActionPurchase, func(_ *gorm.DB, sess *engine.Session) (engine.Investment, error) {
		return sess.Purchase(cardID)
	})
}

// PassCard declines the pending opportunity card.
func (s *portfolioService) PassCard(cmd Command) (*CommandResult[Passed], error) {
	return runCommand(s.runner, cmd, ActionPassCard, func(_ *gorm.DB, sess *engine.Session) (Passed, error) {
		passed := pendingOf(sess)
		return passed, sess.PassCard()
	})
}

// Sell sells an owned investment at salePrice.
func (s *portfolioService) Sell(cmd Command, investmentID string, salePrice int64) (*CommandResult[engine.Sale], error) {
	return runCommand(s.runner, cmd, ActionSell, func(_ *gorm.DB, sess *engine.Session) (engine.Sale, error) {
		return sess.Sell(investmentID, salePrice)
	})
}

// BuyDoodad pays for the pending doodad.
func (s *portfolioService) BuyDoodad(cmd Command, doodadID string) (*CommandResult[engine.PlayerDoodad], error) {
	return runCommand(s.runner, cmd, ActionBuyDoodad, func(_ *gorm.DB, sess *engine.Session) (engine.PlayerDoodad, error) {
		return sess.BuyDoodad(doodadID)
	})
}

// PassDoodad declines the pending doodad.
func (s *portfolioService) PassDoodad(cmd Command) (*CommandResult[Passed], error) {
	return runCommand(s.runner, cmd, ActionPassDoodad, func(_ *gorm.DB, sess *engine.Session) (Passed, error) {
		passed := pendingOf(sess)
		return passed, sess.PassDoodad()
	})
}

// TakeLoan borrows amount from the bank.
func (s *portfolioService) TakeLoan(cmd Command, amount int64) (*CommandResult[engine.Liability], error) {
	return runCommand(s.runner, cmd, ActionTakeLoan, func(_ *gorm.DB, sess *engine.Session) (engine.Liability, error) {
		return sess.TakeLoan(amount)
	})
}

// PayOffLoan repays a loan in full.
func (s *portfolioService) PayOffLoan(cmd Command, liabilityID string) (*CommandResult[engine.Liability], error) {
	return runCommand(s.runner, cmd, ActionPayOffLoan, func(_ *gorm.DB, sess *engine.Session) (engine.Liability, error) {
		return sess.PayOffLoan(liabilityID)
	})
}
