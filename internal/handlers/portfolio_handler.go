package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ratrace/internal/services"
)

// PortfolioHandler handles asset, doodad and loan decisions.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// PurchaseRequest represents the request payload for buying the pending card.
type PurchaseRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

// SellRequest represents the request payload for selling an investment.
type SellRequest struct {
	InvestmentID string `json:"investment_id" binding:"required"`
	SalePrice    int64  `json:"sale_price" binding:"required,gt=0"`
}

// BuyDoodadRequest represents the request payload for buying the pending doodad.
type BuyDoodadRequest struct {
	DoodadID string `json:"doodad_id" binding:"required"`
}

// TakeLoanRequest represents the request payload for borrowing.
type TakeLoanRequest struct {
	Amount int64 `json:"amount" binding:"required,loan_amount"`
}

// Purchase handles buying the pending opportunity card.
// @Summary     Buy the pending card
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string          true  "Game ID"
// @Param       Idempotency-Key header string          false "Client command key"
// @Param       request         body   PurchaseRequest true  "Card to buy"
// @Success     200 {object} services.CommandResult[engine.Investment]
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game or card not found"
// @Failure     409 {object} ErrorResponse "No pending card"
// @Router      /games/{id}/purchase [post]
func (h *PortfolioHandler) Purchase(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req PurchaseRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.portfolioService.Purchase(cmd, req.CardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PassCard handles declining the pending opportunity card.
// @Summary     Pass on the pending card
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string true  "Game ID"
// @Param       Idempotency-Key header string false "Client command key"
// @Success     200 {object} services.CommandResult[services.Passed]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "No pending card"
// @Router      /games/{id}/pass [post]
func (h *PortfolioHandler) PassCard(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.portfolioService.PassCard(cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Sell handles selling a held investment.
// @Summary     Sell an investment
// @Description Sell at a price inside the card's sale range. Proceeds net the mortgage.
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string      true  "Game ID"
// @Param       Idempotency-Key header string      false "Client command key"
// @Param       request         body   SellRequest true  "Investment and price"
// @Success     200 {object} services.CommandResult[engine.Sale]
// @Failure     400 {object} ErrorResponse "Sale price out of range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game or investment not found"
// @Router      /games/{id}/sell [post]
func (h *PortfolioHandler) Sell(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SellRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.portfolioService.Sell(cmd, req.InvestmentID, req.SalePrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// BuyDoodad handles buying the pending doodad.
// @Summary     Buy the pending doodad
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string           true  "Game ID"
// @Param       Idempotency-Key header string           false "Client command key"
// @Param       request         body   BuyDoodadRequest true  "Doodad to buy"
// @Success     200 {object} services.CommandResult[engine.PlayerDoodad]
// @Failure     400 {object} ErrorResponse "Insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game or doodad not found"
// @Failure     409 {object} ErrorResponse "No pending doodad"
// @Router      /games/{id}/doodads [post]
func (h *PortfolioHandler) BuyDoodad(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BuyDoodadRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.portfolioService.BuyDoodad(cmd, req.DoodadID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PassDoodad handles declining the pending doodad.
// @Summary     Pass on the pending doodad
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string true  "Game ID"
// @Param       Idempotency-Key header string false "Client command key"
// @Success     200 {object} services.CommandResult[services.Passed]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "No pending doodad"
// @Router      /games/{id}/doodads/pass [post]
func (h *PortfolioHandler) PassDoodad(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.portfolioService.PassDoodad(cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TakeLoan handles borrowing from the bank.
// @Summary     Take a loan
// @Description Borrow a positive multiple of the loan increment
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string          true  "Game ID"
// @Param       Idempotency-Key header string          false "Client command key"
// @Param       request         body   TakeLoanRequest true  "Loan amount"
// @Success     201 {object} services.CommandResult[engine.Liability]
// @Failure     400 {object} ErrorResponse "Invalid amount"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id}/loans [post]
func (h *PortfolioHandler) TakeLoan(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TakeLoanRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.portfolioService.TakeLoan(cmd, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// PayOffLoan handles repaying a loan in full.
// @Summary     Pay off a loan
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string true  "Game ID"
// @Param       loanId          path   string true  "Liability ID"
// @Param       Idempotency-Key header string false "Client command key"
// @Success     200 {object} services.CommandResult[engine.Liability]
// @Failure     400 {object} ErrorResponse "Insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game or loan not found"
// @Router      /games/{id}/loans/{loanId}/payoff [post]
func (h *PortfolioHandler) PayOffLoan(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.portfolioService.PayOffLoan(cmd, c.Param("loanId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
