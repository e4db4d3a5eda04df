package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ratrace/internal/catalog"
)

// ProfessionHandler serves the catalog's profession templates.
type ProfessionHandler struct {
	catalog *catalog.Catalog
}

// NewProfessionHandler creates a new ProfessionHandler.
func NewProfessionHandler(cat *catalog.Catalog) *ProfessionHandler {
	return &ProfessionHandler{catalog: cat}
}

// ListProfessions handles listing the playable professions.
// @Summary     List professions
// @Tags        catalog
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]catalog.Profession "Professions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /professions [get]
func (h *ProfessionHandler) ListProfessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.catalog.Professions})
}
