package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/atelierware/suivi-backend/internal/db"
	"github.com/atelierware/suivi-backend/internal/handlers"
	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/server"
	"github.com/atelierware/suivi-backend/internal/services"
	"github.com/atelierware/suivi-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	lineRepo := repos.NewWorkOrderLineRepo(thePG, log)
	readinessRepo := repos.NewReadinessRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)
	snapshotRepo := repos.NewSnapshotRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	launchResolver := services.NewLaunchTimeResolver(log, readinessRepo, lineRepo, nil)
	transitionService := services.NewTransitionService(thePG, log, readinessRepo, notificationRepo, launchResolver, nil)
	planningService := services.NewPlanningService(thePG, log, lineRepo)
	overviewService := services.NewOverviewService(thePG, log, lineRepo, readinessRepo)
	journalService := services.NewJournalService(thePG, log, readinessRepo, lineRepo, notificationRepo, snapshotRepo)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	statutHandler := handlers.NewStatutHandler(log, transitionService)
	overviewHandler := handlers.NewOverviewHandler(log, overviewService)
	journalHandler := handlers.NewJournalHandler(log, journalService)
	planningHandler := handlers.NewPlanningHandler(log, planningService)
	notificationHandler := handlers.NewNotificationHandler(log, notificationService)

	// Router
	log.Info("Setting up router from main...")
	corsOrigins := strings.Split(utils.GetEnv("CORS_ORIGINS", strings.Join(server.DefaultAllowOrigins, ","), log), ",")

	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:        corsOrigins,
		StatutHandler:       statutHandler,
		OverviewHandler:     overviewHandler,
		JournalHandler:      journalHandler,
		PlanningHandler:     planningHandler,
		NotificationHandler: notificationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
