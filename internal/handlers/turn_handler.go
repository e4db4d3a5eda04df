package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "ratrace/internal/errors"
	"ratrace/internal/services"
)

// TurnHandler handles the roll, draw and end-turn cycle.
type TurnHandler struct {
	turnService services.TurnServicer
}

// NewTurnHandler creates a new TurnHandler.
func NewTurnHandler(turnService services.TurnServicer) *TurnHandler {
	return &TurnHandler{turnService: turnService}
}

// RollDiceRequest represents the optional request payload for a roll. The
// server always rolls its own dice; a suggested value is only range-checked.
type RollDiceRequest struct {
	DiceValue *int `json:"dice_value" binding:"omitempty,dice_value"`
}

// CharityRequest represents the answer to a charity offer.
type CharityRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// RollDice handles rolling and resolving the landed space.
// @Summary     Roll the dice
// @Description Roll, move and resolve the landed space. The body is optional.
// @Tags        turns
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string          true  "Game ID"
// @Param       Idempotency-Key header string          false "Client command key"
// @Param       request         body   RollDiceRequest false "Suggested dice value"
// @Success     200 {object} services.CommandResult[engine.RollResult]
// @Failure     400 {object} ErrorResponse "Invalid dice value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "Decision pending or game completed"
// @Router      /games/{id}/roll [post]
func (h *TurnHandler) RollDice(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RollDiceRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithError(c, apperrors.ErrInvalidDiceValue)
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.turnService.RollDice(cmd, req.DiceValue)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DrawCard handles re-reading the pending card.
// @Summary     Get the pending card
// @Description Return the card or offer awaiting a decision without changing the game
// @Tags        turns
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Game ID"
// @Success     200 {object} engine.Draw
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "No pending decision"
// @Router      /games/{id}/draw [post]
func (h *TurnHandler) DrawCard(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	draw, err := h.turnService.DrawCard(ownerID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, draw)
}

// ResolveCharity handles accepting or declining a charity offer.
// @Summary     Answer a charity offer
// @Tags        turns
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string         true  "Game ID"
// @Param       Idempotency-Key header string         false "Client command key"
// @Param       request         body   CharityRequest true  "Accept or decline"
// @Success     200 {object} services.CommandResult[services.CharityOutcome]
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "No pending charity offer"
// @Router      /games/{id}/charity [post]
func (h *TurnHandler) ResolveCharity(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CharityRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.turnService.ResolveCharity(cmd, *req.Accept)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EndTurn handles settling the turn and advancing the counter.
// @Summary     End the turn
// @Description Settle payday, evaluate escape and win, and advance the turn
// @Tags        turns
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string true  "Game ID"
// @Param       Idempotency-Key header string false "Client command key"
// @Success     200 {object} services.CommandResult[engine.TurnResult]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "Not rolled yet or decision pending"
// @Router      /games/{id}/end-turn [post]
func (h *TurnHandler) EndTurn(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.turnService.EndTurn(cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
