package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/handlers"
)

type RouterConfig struct {
	AllowOrigins        []string
	StatutHandler       *handlers.StatutHandler
	OverviewHandler     *handlers.OverviewHandler
	JournalHandler      *handlers.JournalHandler
	PlanningHandler     *handlers.PlanningHandler
	NotificationHandler *handlers.NotificationHandler
}

// DefaultAllowOrigins is used when CORS_ORIGINS is not configured.
var DefaultAllowOrigins = []string{
	"http://localhost:80",
	"http://localhost:3000",
	"http://localhost:5173",
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = DefaultAllowOrigins
	}

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	// Transitions
	router.PUT("/statut_matiere/:poste/:of", cfg.StatutHandler.UpdateMatiere)
	router.PUT("/statut/:poste/:of", cfg.StatutHandler.UpdateOutil)
	router.PUT("/production/statut/:poste/:of", cfg.StatutHandler.UpdateProduction)

	// Station list views
	router.GET("/matiere/of/:poste", cfg.OverviewHandler.ListMatiere)
	router.GET("/outils/:poste", cfg.OverviewHandler.ListOutils)
	router.GET("/production/:poste", cfg.OverviewHandler.ListProduction)

	// Reports
	router.GET("/journalier", cfg.JournalHandler.GetDaily)
	router.POST("/journalier/saveSummary", cfg.JournalHandler.SaveSummary)
	router.GET("/hebdo", cfg.JournalHandler.GetWeekly)
	router.POST("/hebdo/save", cfg.JournalHandler.SaveWeekly)

	// Planning
	router.POST("/planning/:poste", cfg.PlanningHandler.Import)
	router.GET("/planning/:poste", cfg.PlanningHandler.List)

	// Notifications
	router.GET("/notifications/:poste", cfg.NotificationHandler.ListByStation)
	router.DELETE("/notifications/:id", cfg.NotificationHandler.Delete)

	return router
}
