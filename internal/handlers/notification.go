package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/services"
)

type NotificationHandler struct {
	log                 *logger.Logger
	notificationService services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		log:                 log.With("handler", "NotificationHandler"),
		notificationService: notificationService,
	}
}

// GET /notifications/:poste
func (h *NotificationHandler) ListByStation(c *gin.Context) {
	rows, err := h.notificationService.ListByStation(c.Request.Context(), c.Param("poste"))
	if err != nil {
		h.log.Warn("Notification list failed", "poste", c.Param("poste"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

// DELETE /notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}
	if err := h.notificationService.Delete(c.Request.Context(), id); err != nil {
		h.log.Warn("Notification delete failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification supprimée"})
}
