package services

import (
	"context"
	"errors"
	"testing"

	"github.com/atelierware/suivi-backend/internal/faults"
	"github.com/atelierware/suivi-backend/internal/normalization"
	"github.com/atelierware/suivi-backend/internal/types"
)

func TestPlanningImportIsVersionedAppendOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.planning.ImportRows(ctx, "P1", []map[string]any{
		{"Ordre": "OF1001", "Séquence": 10, "Machine": "A61 NX", "Durée": 3.5, "Commentaire": "série pilote"},
	})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if first[0].Version != 1 || first[0].MachineKey != "a61 nx" {
		t.Fatalf("unexpected first version: %+v", first[0])
	}

	second, err := f.planning.ImportRows(ctx, "P1", []map[string]any{
		{"Ordre": "OF1001", "Séquence": 10, "Machine": "A61 NX", "Durée": 4.0},
	})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if second[0].Version != 2 {
		t.Fatalf("expected version 2, got %d", second[0].Version)
	}

	// Both versions persist; only the latest is live.
	if n := f.countRows(t, &types.WorkOrderLine{}); n != 2 {
		t.Fatalf("expected 2 persisted versions, got %d", n)
	}
	live, err := f.planning.ListByStation(ctx, "P1")
	if err != nil {
		t.Fatalf("list station: %v", err)
	}
	if len(live) != 1 || live[0].Version != 2 || live[0].DurationHours != 4.0 {
		t.Fatalf("live view should expose only the latest version: %+v", live)
	}
}

func TestPlanningImportRejectsUnrecognizedRowAtomically(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.planning.ImportRows(ctx, "P1", []map[string]any{
		{"Ordre": "OF1001", "Séquence": 10},
		{"colonne_inconnue": "x"},
	})
	var rowErr *normalization.UnrecognizedRowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected a typed normalization error, got %v", err)
	}
	if n := f.countRows(t, &types.WorkOrderLine{}); n != 0 {
		t.Fatalf("malformed import left %d partial rows", n)
	}
}

func TestPlanningListOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.planning.ImportRows(ctx, "P1", []map[string]any{
		{"of": "OF1003", "seq": 30, "machine": "M2"},
		{"of": "OF1001", "seq": 10, "machine": "M1"},
		{"of": "OF1002", "seq": 20, "machine": "M1"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	live, err := f.planning.ListByStation(ctx, "P1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(live) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(live))
	}
	for i, want := range []int{10, 20, 30} {
		if live[i].Sequence != want {
			t.Fatalf("ordering broken at %d: got sequence %d", i, live[i].Sequence)
		}
	}
}

func TestOverviewDefaultsToPendingAndOverlays(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.planning.ImportRows(ctx, "P1", []map[string]any{
		{"of": "OF1001", "seq": 10, "machine": "A61 NX", "duree": 3.5},
		{"of": "OF1002", "seq": 20, "machine": "A61 NX"},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	f.apply(t, types.ClassMaterial, types.StatusReady, "")

	rows, err := f.overview.ListStation(ctx, "P1", types.ClassMaterial)
	if err != nil {
		t.Fatalf("list station: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != types.StatusReady || rows[0].ValidatedAt == nil {
		t.Fatalf("readiness overlay missing on validated line: %+v", rows[0])
	}
	if rows[1].Status != types.StatusPending || rows[1].ValidatedAt != nil {
		t.Fatalf("untouched line must default to pending: %+v", rows[1])
	}
}

func TestPlanningImportRequiresPoste(t *testing.T) {
	f := newFixture(t)

	_, err := f.planning.ImportRows(context.Background(), "   ", []map[string]any{
		{"Ordre": "OF1001", "Séquence": 10},
	})
	var rejection *faults.TransitionError
	if !errors.As(err, &rejection) || rejection.Code != faults.CodeMissingField {
		t.Fatalf("expected MissingField for blank poste, got %v", err)
	}
}
