package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ratrace/internal/services"
)

// AdminHandler handles maintenance endpoints guarded by the admin API key.
type AdminHandler struct {
	adminService services.AdminServicer
	retention    time.Duration
	now          func() time.Time
}

// NewAdminHandler creates a new AdminHandler. Completed games older than
// retention are eligible for purging.
func NewAdminHandler(adminService services.AdminServicer, retention time.Duration) *AdminHandler {
	return &AdminHandler{adminService: adminService, retention: retention, now: time.Now}
}

// PurgeCompleted handles removing completed games past the retention window.
// @Summary     Purge completed games
// @Description Permanently delete games completed or soft-deleted before the retention window
// @Tags        admin
// @Produce     json
// @Param       X-API-Key header   string true "Admin API key"
// @Success     200       {object} map[string]int64 "Purged game count"
// @Failure     401       {object} ErrorResponse    "Invalid API key"
// @Failure     503       {object} ErrorResponse    "Admin API not configured"
// @Router      /admin/games/purge [post]
func (h *AdminHandler) PurgeCompleted(c *gin.Context) {
	cutoff := h.now().Add(-h.retention)

	purged, err := h.adminService.PurgeCompleted(cutoff)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games_purged": purged})
}
