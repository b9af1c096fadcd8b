package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/services"
	"github.com/atelierware/suivi-backend/internal/types"
)

func newPlanningRouter(t *testing.T, migrate bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrate {
		if err := gdb.AutoMigrate(&types.WorkOrderLine{}); err != nil {
			t.Fatalf("auto migrate: %v", err)
		}
	}

	log := logger.Nop()
	planningService := services.NewPlanningService(gdb, log, repos.NewWorkOrderLineRepo(gdb, log))
	handler := NewPlanningHandler(log, planningService)

	router := gin.New()
	router.POST("/planning/:poste", handler.Import)
	return router
}

func postPlanning(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/planning/P1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPlanningImportStoreFailureIsInternal(t *testing.T) {
	// No migrated table, so a well-formed import fails inside the store.
	router := newPlanningRouter(t, false)

	rec := postPlanning(t, router, `{"rows":[{"ordre":"OF1001","sequence":10}]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for store failure, got %d body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "erreur interne" {
		t.Fatalf("store failure leaked to caller: %q", body["error"])
	}
}

func TestPlanningImportUnrecognizedRowIsBadRequest(t *testing.T) {
	router := newPlanningRouter(t, true)

	rec := postPlanning(t, router, `{"rows":[{"machine":"A61 NX"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unrecognized row, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !strings.Contains(body["error"], "ordre") {
		t.Fatalf("expected the missing field in the message, got %q", body["error"])
	}
}

func TestPlanningImportValidRowsAccepted(t *testing.T) {
	router := newPlanningRouter(t, true)

	rec := postPlanning(t, router, `{"rows":[{"N° OF":"OF1001","Séquence":10,"Durée":"3,5"}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body %s", rec.Code, rec.Body.String())
	}
}
