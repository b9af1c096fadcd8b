package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/atelierware/suivi-backend/internal/types"
)

func TestJournalierStoredSnapshotWinsOverLiveState(t *testing.T) {
	f := newFixture(t)

	// Live ledger state that would compute differently.
	seedLine(t, f, "OF1001", 10, "A61 NX")
	closedAt := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	seedClosedProduction(t, f, "OF1001", 10, closedAt)

	err := f.journal.SaveSummary(context.Background(), SaveSummaryInput{
		Date:       "2025-03-10",
		Rows:       []ResumeRow{{Poste: "A61NX", OFClotures: 5, OFEnCours: 2, HeuresRendues: 12.5}},
		ImportedBy: "chef.atelier",
	})
	if err != nil {
		t.Fatalf("save summary: %v", err)
	}

	report, err := f.journal.GetDaily(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if report.Source != SourceStored {
		t.Fatalf("expected source=stored, got %q", report.Source)
	}
	if len(report.Resume) != 1 {
		t.Fatalf("expected the persisted row verbatim, got %d rows", len(report.Resume))
	}
	row := report.Resume[0]
	if row.Poste != "A61NX" || row.OFClotures != 5 || row.OFEnCours != 2 || row.HeuresRendues != 12.5 {
		t.Fatalf("stored row not returned verbatim: %+v", row)
	}
}

func TestJournalierCalculatedFallback(t *testing.T) {
	f := newFixture(t)
	seedLine(t, f, "OF1001", 10, "A61 NX")

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	seedClosedProduction(t, f, "OF1001", 10, day.Add(16*time.Hour))

	// A started order on another line of the station.
	startedAt := day.Add(9 * time.Hour)
	err := f.readinessRepo.Upsert(context.Background(), nil, &types.ReadinessRecord{
		Poste:         "P1",
		Ordre:         "OF1002",
		Sequence:      20,
		ResourceClass: types.ClassProduction,
		Status:        types.StatusStarted,
		ValidatedAt:   &startedAt,
	})
	if err != nil {
		t.Fatalf("seed started record: %v", err)
	}

	report, err := f.journal.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if report.Source != SourceCalculated {
		t.Fatalf("expected source=calculated, got %q", report.Source)
	}
	if len(report.Resume) != 1 {
		t.Fatalf("expected one station row, got %d", len(report.Resume))
	}
	row := report.Resume[0]
	if row.Poste != "P1" || row.OFClotures != 1 || row.OFEnCours != 1 {
		t.Fatalf("unexpected calculated row: %+v", row)
	}
}

func TestJournalierUsesPlannedHoursForClosures(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	line := &types.WorkOrderLine{
		ID:            uuid.New(),
		Poste:         "P1",
		Ordre:         "OF1001",
		Sequence:      10,
		DurationHours: 3.5,
		Version:       1,
	}
	if _, err := f.lineRepo.Create(context.Background(), nil, []*types.WorkOrderLine{line}); err != nil {
		t.Fatalf("seed line: %v", err)
	}
	seedClosedProduction(t, f, "OF1001", 10, day.Add(15*time.Hour))

	report, err := f.journal.GetDaily(context.Background(), day)
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if report.Resume[0].HeuresRendues != 3.5 {
		t.Fatalf("expected 3.5 rendered hours from planning, got %v", report.Resume[0].HeuresRendues)
	}
}

func TestJournalierSignalsAndCounts(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))
	f.apply(t, types.ClassMaterial, types.StatusMissing, "brut non livré")
	f.apply(t, types.ClassTooling, types.StatusMissing, "fraise cassée")

	report, err := f.journal.GetDaily(context.Background(), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if len(report.Signals) != 2 {
		t.Fatalf("expected 2 signals, got %d", len(report.Signals))
	}
	if report.Counts["material"] != 1 || report.Counts["tooling"] != 1 {
		t.Fatalf("unexpected occurrence counts: %v", report.Counts)
	}

	// Signals from another day stay out.
	other, err := f.journal.GetDaily(context.Background(), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("get daily: %v", err)
	}
	if len(other.Signals) != 0 {
		t.Fatalf("signals leaked across days: %d", len(other.Signals))
	}
}

func TestSaveSummaryLatestWriteWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, hours := range []float64{8, 11.5} {
		err := f.journal.SaveSummary(ctx, SaveSummaryInput{
			Date: "2025-03-10",
			Rows: []ResumeRow{{Poste: "A61NX", OFClotures: 3, HeuresRendues: hours}},
		})
		if err != nil {
			t.Fatalf("save summary: %v", err)
		}
	}

	rows, err := f.snapshotRepo.GetDaily(ctx, nil, "2025-03-10")
	if err != nil {
		t.Fatalf("get daily snapshot: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected a single upserted row, got %d", len(rows))
	}
	if rows[0].HeuresRendues != 11.5 {
		t.Fatalf("latest write did not win: %v", rows[0].HeuresRendues)
	}
}

func TestWeeklyRecapRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.journal.SaveWeekly(ctx, []*types.WeeklyRecapSnapshot{
		{ISOYear: 2025, ISOWeek: 11, Poste: "P1", EngagedHours: 38, ClosedCount: 9},
	})
	if err != nil {
		t.Fatalf("save weekly: %v", err)
	}
	err = f.journal.SaveWeekly(ctx, []*types.WeeklyRecapSnapshot{
		{ISOYear: 2025, ISOWeek: 11, Poste: "P1", EngagedHours: 40, ClosedCount: 10},
	})
	if err != nil {
		t.Fatalf("save weekly again: %v", err)
	}

	rows, err := f.journal.GetWeekly(ctx, 2025, 11)
	if err != nil {
		t.Fatalf("get weekly: %v", err)
	}
	if len(rows) != 1 || rows[0].EngagedHours != 40 || rows[0].ClosedCount != 10 {
		t.Fatalf("weekly upsert did not keep the latest write: %+v", rows)
	}
}
