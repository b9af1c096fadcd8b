package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/services"
	"github.com/atelierware/suivi-backend/internal/types"
)

// OverviewHandler serves the per-station list views, merging the latest
// planning with the readiness overlay.
type OverviewHandler struct {
	log             *logger.Logger
	overviewService services.OverviewService
}

func NewOverviewHandler(log *logger.Logger, overviewService services.OverviewService) *OverviewHandler {
	return &OverviewHandler{
		log:             log.With("handler", "OverviewHandler"),
		overviewService: overviewService,
	}
}

// GET /matiere/of/:poste
func (h *OverviewHandler) ListMatiere(c *gin.Context) {
	h.list(c, types.ClassMaterial)
}

// GET /outils/:poste
func (h *OverviewHandler) ListOutils(c *gin.Context) {
	h.list(c, types.ClassTooling)
}

// GET /production/:poste
func (h *OverviewHandler) ListProduction(c *gin.Context) {
	h.list(c, types.ClassProduction)
}

func (h *OverviewHandler) list(c *gin.Context, class types.ResourceClass) {
	rows, err := h.overviewService.ListStation(c.Request.Context(), c.Param("poste"), class)
	if err != nil {
		h.log.Warn("Station list failed", "poste", c.Param("poste"), "class", class, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
