package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/atelierware/suivi-backend/internal/handlers"
	"github.com/atelierware/suivi-backend/internal/logger"
)

func newTestRouter(t *testing.T, origins []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()
	return NewRouter(RouterConfig{
		AllowOrigins:        origins,
		StatutHandler:       handlers.NewStatutHandler(log, nil),
		OverviewHandler:     handlers.NewOverviewHandler(log, nil),
		JournalHandler:      handlers.NewJournalHandler(log, nil),
		PlanningHandler:     handlers.NewPlanningHandler(log, nil),
		NotificationHandler: handlers.NewNotificationHandler(log, nil),
	})
}

func preflight(router *gin.Engine, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/statut/P1/OF1001", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "PUT")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterUsesConfiguredCorsOrigins(t *testing.T) {
	router := newTestRouter(t, []string{"http://atelier.example"})

	rec := preflight(router, "http://atelier.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://atelier.example" {
		t.Fatalf("configured origin not allowed, header %q status %d", got, rec.Code)
	}

	rec = preflight(router, "http://other.example")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected origin allowed: %q", got)
	}
}

func TestRouterFallsBackToDefaultOrigins(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := preflight(router, "http://localhost:3000")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("default origin not allowed, header %q status %d", got, rec.Code)
	}
}
