package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/faults"
)

// RespondTransitionError maps the transition taxonomy onto the HTTP
// contract: validation rejections are 400 (with structured details for
// prerequisite failures), anything else is a 500.
func RespondTransitionError(c *gin.Context, err error) {
	var prereq *faults.PrerequisiteError
	if errors.As(err, &prereq) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": prereq.Error(),
			"code":  string(faults.CodePrerequisiteNotMet),
			"details": gin.H{
				"matiere_status": prereq.MatiereStatus,
				"outil_status":   prereq.OutilStatus,
			},
		})
		return
	}
	var rejection *faults.TransitionError
	if errors.As(err, &rejection) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": rejection.Message,
			"code":  string(rejection.Code),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
}
