package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// fakeClock lets tests pin and move the transition timestamps.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.t = t
}

type fixture struct {
	db            *gorm.DB
	clock         *fakeClock
	lineRepo      repos.WorkOrderLineRepo
	readinessRepo repos.ReadinessRepo
	notifRepo     repos.NotificationRepo
	snapshotRepo  repos.SnapshotRepo
	resolver      LaunchTimeResolver
	transitions   TransitionService
	planning      PlanningService
	overview      OverviewService
	journal       JournalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = gdb.AutoMigrate(
		&types.WorkOrderLine{},
		&types.ReadinessRecord{},
		&types.NotificationRecord{},
		&types.DailyResumeSnapshot{},
		&types.WeeklyRecapSnapshot{},
	)
	if err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	log := logger.Nop()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)}
	lineRepo := repos.NewWorkOrderLineRepo(gdb, log)
	readinessRepo := repos.NewReadinessRepo(gdb, log)
	notifRepo := repos.NewNotificationRepo(gdb, log)
	snapshotRepo := repos.NewSnapshotRepo(gdb, log)
	resolver := NewLaunchTimeResolver(log, readinessRepo, lineRepo, clock.Now)

	return &fixture{
		db:            gdb,
		clock:         clock,
		lineRepo:      lineRepo,
		readinessRepo: readinessRepo,
		notifRepo:     notifRepo,
		snapshotRepo:  snapshotRepo,
		resolver:      resolver,
		transitions:   NewTransitionService(gdb, log, readinessRepo, notifRepo, resolver, clock.Now),
		planning:      NewPlanningService(gdb, log, lineRepo),
		overview:      NewOverviewService(gdb, log, lineRepo, readinessRepo),
		journal:       NewJournalService(gdb, log, readinessRepo, lineRepo, notifRepo, snapshotRepo),
	}
}

func (f *fixture) apply(t *testing.T, class types.ResourceClass, target types.Status, cause string) *types.ReadinessRecord {
	t.Helper()
	rec, err := f.applyErr(class, target, cause)
	if err != nil {
		t.Fatalf("apply %s -> %s: %v", class, target, err)
	}
	return rec
}

func (f *fixture) applyErr(class types.ResourceClass, target types.Status, cause string) (*types.ReadinessRecord, error) {
	return f.transitions.Apply(context.Background(), TransitionRequest{
		Poste:    "P1",
		Ordre:    "OF1001",
		Sequence: 10,
		Class:    class,
		Target:   target,
		Cause:    cause,
	})
}

func (f *fixture) getRecord(t *testing.T, class types.ResourceClass) *types.ReadinessRecord {
	t.Helper()
	rec, err := f.readinessRepo.Get(context.Background(), nil, "P1", "OF1001", 10, class)
	if err != nil {
		t.Fatalf("get %s record: %v", class, err)
	}
	return rec
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}
