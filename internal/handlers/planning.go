package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/normalization"
	"github.com/atelierware/suivi-backend/internal/services"
)

type planningImportRequest struct {
	Rows []map[string]any `json:"rows"`
}

type PlanningHandler struct {
	log             *logger.Logger
	planningService services.PlanningService
}

func NewPlanningHandler(log *logger.Logger, planningService services.PlanningService) *PlanningHandler {
	return &PlanningHandler{
		log:             log.With("handler", "PlanningHandler"),
		planningService: planningService,
	}
}

// POST /planning/:poste
func (h *PlanningHandler) Import(c *gin.Context) {
	var req planningImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucune ligne à importer"})
		return
	}
	saved, err := h.planningService.ImportRows(c.Request.Context(), c.Param("poste"), req.Rows)
	if err != nil {
		// Only unrecognized row shapes are client errors; store failures
		// stay internal.
		var rowErr *normalization.UnrecognizedRowError
		if errors.As(err, &rowErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Warn("Planning import failed", "poste", c.Param("poste"), "error", err)
		RespondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "planning importé", "count": len(saved)})
}

// GET /planning/:poste
func (h *PlanningHandler) List(c *gin.Context) {
	lines, err := h.planningService.ListByStation(c.Request.Context(), c.Param("poste"))
	if err != nil {
		h.log.Warn("Planning list failed", "poste", c.Param("poste"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, lines)
}
