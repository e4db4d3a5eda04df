package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "ratrace/internal/errors"
	"ratrace/internal/pagination"
	"ratrace/internal/services"
)

// HistoryHandler handles a game's event log and turn snapshots.
type HistoryHandler struct {
	historyService services.HistoryServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService services.HistoryServicer) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// ListEvents handles listing the commands applied to a game.
// @Summary     List game events
// @Description Get the game's command log in the order it was applied
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Game ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.GameEvent] "Paginated events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id}/events [get]
func (h *HistoryHandler) ListEvents(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.historyService.ListEvents(ownerID, c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListSnapshots handles listing the per-turn financial snapshots of a game.
// @Summary     List turn snapshots
// @Tags        history
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Game ID"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.TurnSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Game not found"
// @Router      /games/{id}/snapshots [get]
func (h *HistoryHandler) ListSnapshots(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.historyService.ListSnapshots(ownerID, c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
