package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ratrace/internal/errors"
	"ratrace/internal/engine"
	"ratrace/internal/pagination"
	"ratrace/internal/services"
)

// GameHandler handles game session lifecycle requests.
type GameHandler struct {
	gameService services.GameServicer
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService services.GameServicer) *GameHandler {
	return &GameHandler{gameService: gameService}
}

// CreateGameRequest represents the request payload for starting a game.
type CreateGameRequest struct {
	ProfessionID string `json:"profession_id" binding:"required,max=64"`
}

// ListGamesQuery holds the optional filters for listing games.
type ListGamesQuery struct {
	Status string `form:"status" binding:"omitempty,game_status"`
}

// CreateGame handles starting a new game session.
// @Summary     Start a game
// @Description Start a new single-player session from a profession template
// @Tags        games
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body     CreateGameRequest true "Profession to play"
// @Success     201     {object} services.GameView
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Failure     404     {object} ErrorResponse "Profession not found"
// @Router      /games [post]
func (h *GameHandler) CreateGame(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGameRequest
	if !bindJSON(c, &req) {
		return
	}

	game, err := h.gameService.CreateGame(ownerID, req.ProfessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, game)
}

// ListGames handles listing the caller's games.
// @Summary     List games
// @Description Get the authenticated user's games, newest first
// @Tags        games
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active, completed)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.GameSession] "Paginated games"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /games [get]
func (h *GameHandler) ListGames(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListGamesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.GameFilter
	if query.Status != "" {
		status := engine.Status(query.Status)
		filter.Status = &status
	}

	result, err := h.gameService.ListGames(ownerID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGame handles retrieving a single game.
// @Summary     Get a game
// @Description Get the current view of a game session
// @Tags        games
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Game ID"
// @Success     200 {object} services.GameView
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id} [get]
func (h *GameHandler) GetGame(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	game, err := h.gameService.GetGame(ownerID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, game)
}

// DeleteGame handles abandoning a game.
// @Summary     Delete a game
// @Description Soft-delete a game session
// @Tags        games
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Game ID"
// @Success     200 {object} map[string]string "Deletion confirmation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id} [delete]
func (h *GameHandler) DeleteGame(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.gameService.DeleteGame(ownerID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted successfully"})
}

// EndGame handles finishing a game.
// @Summary     End a game
// @Description Mark the session completed and return its final score
// @Tags        games
// @Produce     json
// @Security    BearerAuth
// @Param       id              path   string true  "Game ID"
// @Param       Idempotency-Key header string false "Client command key"
// @Success     200 {object} services.CommandResult[services.FinalScore]
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Failure     409 {object} ErrorResponse "Game already completed"
// @Router      /games/{id}/end [post]
func (h *GameHandler) EndGame(c *gin.Context) {
	cmd, err := commandFrom(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.gameService.EndGame(cmd)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStatement handles retrieving the financial statement of a game.
// @Summary     Get financial statement
// @Description Get the income, expense, asset and liability breakdown of a game
// @Tags        games
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Game ID"
// @Success     200 {object} engine.Statement
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id}/statement [get]
func (h *GameHandler) GetStatement(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	statement, err := h.gameService.GetStatement(ownerID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}
