package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/services"
	"github.com/atelierware/suivi-backend/internal/types"
)

type saveSummaryRequest struct {
	Rows       []services.ResumeRow `json:"rows"`
	DateValue  string               `json:"date_value"`
	Source     string               `json:"source"`
	ImportedBy string               `json:"imported_by"`
}

type saveWeeklyRequest struct {
	Year int `json:"year"`
	Week int `json:"week"`
	Rows []struct {
		Poste        string  `json:"poste"`
		EngagedHours float64 `json:"engaged_hours"`
		ClosedCount  int     `json:"closed_count"`
		Comment      string  `json:"comment"`
	} `json:"rows"`
}

type JournalHandler struct {
	log            *logger.Logger
	journalService services.JournalService
}

func NewJournalHandler(log *logger.Logger, journalService services.JournalService) *JournalHandler {
	return &JournalHandler{
		log:            log.With("handler", "JournalHandler"),
		journalService: journalService,
	}
}

// GET /journalier?date=YYYY-MM-DD
func (h *JournalHandler) GetDaily(c *gin.Context) {
	dateStr := c.Query("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre date invalide, format attendu YYYY-MM-DD"})
		return
	}
	report, err := h.journalService.GetDaily(c.Request.Context(), date)
	if err != nil {
		h.log.Warn("Journalier failed", "date", dateStr, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// POST /journalier/saveSummary
func (h *JournalHandler) SaveSummary(c *gin.Context) {
	var req saveSummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if _, err := time.Parse("2006-01-02", req.DateValue); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_value invalide, format attendu YYYY-MM-DD"})
		return
	}
	err := h.journalService.SaveSummary(c.Request.Context(), services.SaveSummaryInput{
		Date:       req.DateValue,
		Rows:       req.Rows,
		Source:     req.Source,
		ImportedBy: req.ImportedBy,
	})
	if err != nil {
		h.log.Warn("Save summary failed", "date", req.DateValue, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "résumé enregistré"})
}

// GET /hebdo?year=&week=
func (h *JournalHandler) GetWeekly(c *gin.Context) {
	year, errYear := strconv.Atoi(c.Query("year"))
	week, errWeek := strconv.Atoi(c.Query("week"))
	if errYear != nil || errWeek != nil || week < 1 || week > 53 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètres year/week invalides"})
		return
	}
	rows, err := h.journalService.GetWeekly(c.Request.Context(), year, week)
	if err != nil {
		h.log.Warn("Weekly recap failed", "year", year, "week", week, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// POST /hebdo/save
func (h *JournalHandler) SaveWeekly(c *gin.Context) {
	var req saveWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corps de requête invalide"})
		return
	}
	if req.Week < 1 || req.Week > 53 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "semaine invalide"})
		return
	}
	rows := make([]*types.WeeklyRecapSnapshot, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, &types.WeeklyRecapSnapshot{
			ISOYear:      req.Year,
			ISOWeek:      req.Week,
			Poste:        r.Poste,
			EngagedHours: r.EngagedHours,
			ClosedCount:  r.ClosedCount,
			Comment:      r.Comment,
		})
	}
	if err := h.journalService.SaveWeekly(c.Request.Context(), rows); err != nil {
		h.log.Warn("Save weekly recap failed", "year", req.Year, "week", req.Week, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur interne"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "récap hebdomadaire enregistré"})
}
