package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/services"
	"github.com/atelierware/suivi-backend/internal/types"
)

type notificationPayload struct {
	Cause  string `json:"cause"`
	Detail string `json:"detail"`
}

type statutRequest struct {
	Statut        string               `json:"statut"`
	BesoinMachine string               `json:"besoin_machine"`
	Ordre         *int                 `json:"ordre"`
	Notification  *notificationPayload `json:"notification"`
}

type productionStatutRequest struct {
	StatutOF     string               `json:"statut_of"`
	Duree        *float64             `json:"duree"`
	Ordre        *int                 `json:"ordre"`
	Notification *notificationPayload `json:"notification"`
}

// StatutHandler carries the three readiness transition endpoints. They all
// funnel into the same transition service, varying only the resource class
// and body shape.
type StatutHandler struct {
	log               *logger.Logger
	transitionService services.TransitionService
}

func NewStatutHandler(log *logger.Logger, transitionService services.TransitionService) *StatutHandler {
	return &StatutHandler{
		log:               log.With("handler", "StatutHandler"),
		transitionService: transitionService,
	}
}

// PUT /statut_matiere/:poste/:of
func (h *StatutHandler) UpdateMatiere(c *gin.Context) {
	h.applyStatut(c, types.ClassMaterial)
}

// PUT /statut/:poste/:of
func (h *StatutHandler) UpdateOutil(c *gin.Context) {
	h.applyStatut(c, types.ClassTooling)
}

func (h *StatutHandler) applyStatut(c *gin.Context, class types.ResourceClass) {
	var req statutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	tr := services.TransitionRequest{
		Poste:       c.Param("poste"),
		Ordre:       c.Param("of"),
		Class:       class,
		Target:      types.Status(req.Statut),
		MachineNeed: req.BesoinMachine,
	}
	if req.Ordre != nil {
		tr.Sequence = *req.Ordre
	}
	if req.Notification != nil {
		tr.Cause = req.Notification.Cause
		tr.Detail = req.Notification.Detail
	}
	if _, err := h.transitionService.Apply(c.Request.Context(), tr); err != nil {
		RespondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statut mis à jour"})
}

// PUT /production/statut/:poste/:of
func (h *StatutHandler) UpdateProduction(c *gin.Context) {
	var req productionStatutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	tr := services.TransitionRequest{
		Poste:    c.Param("poste"),
		Ordre:    c.Param("of"),
		Class:    types.ClassProduction,
		Target:   types.Status(req.StatutOF),
		Duration: req.Duree,
	}
	if req.Ordre != nil {
		tr.Sequence = *req.Ordre
	}
	if req.Notification != nil {
		tr.Cause = req.Notification.Cause
		tr.Detail = req.Notification.Detail
	}
	if _, err := h.transitionService.Apply(c.Request.Context(), tr); err != nil {
		RespondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "statut production mis à jour"})
}
