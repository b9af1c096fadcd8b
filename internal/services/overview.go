package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// StationRow merges the latest planning import with the readiness overlay
// for one resource class. A line with no readiness row shows as pending.
type StationRow struct {
	Poste           string       `json:"poste"`
	Ordre           string       `json:"ordre"`
	Sequence        int          `json:"sequence"`
	Machine         string       `json:"machine"`
	DurationHours   float64      `json:"duration_hours"`
	Comment         string       `json:"comment,omitempty"`
	Status          types.Status `json:"statut"`
	ValidatedAt     *time.Time   `json:"validated_at,omitempty"`
	ReportedAt      *time.Time   `json:"reported_at,omitempty"`
	Cause           string       `json:"cause,omitempty"`
	Detail          string       `json:"detail,omitempty"`
	MachineNeed     string       `json:"besoin_machine,omitempty"`
	Duration        *float64     `json:"duree,omitempty"`
	DerivedLaunchAt *time.Time   `json:"derived_launch_at,omitempty"`
}

// OverviewService serves the per-station list views.
type OverviewService interface {
	ListStation(ctx context.Context, poste string, class types.ResourceClass) ([]StationRow, error)
}

type overviewService struct {
	db            *gorm.DB
	log           *logger.Logger
	lineRepo      repos.WorkOrderLineRepo
	readinessRepo repos.ReadinessRepo
}

func NewOverviewService(db *gorm.DB, log *logger.Logger, lineRepo repos.WorkOrderLineRepo, readinessRepo repos.ReadinessRepo) OverviewService {
	return &overviewService{
		db:            db,
		log:           log.With("service", "OverviewService"),
		lineRepo:      lineRepo,
		readinessRepo: readinessRepo,
	}
}

func (s *overviewService) ListStation(ctx context.Context, poste string, class types.ResourceClass) ([]StationRow, error) {
	lines, err := s.lineRepo.ListLiveByStation(ctx, nil, poste)
	if err != nil {
		return nil, err
	}
	records, err := s.readinessRepo.ListByStation(ctx, nil, poste, class)
	if err != nil {
		return nil, err
	}

	type key struct {
		ordre    string
		sequence int
	}
	overlay := make(map[key]*types.ReadinessRecord, len(records))
	for _, rec := range records {
		overlay[key{rec.Ordre, rec.Sequence}] = rec
	}

	rows := make([]StationRow, 0, len(lines))
	for _, line := range lines {
		row := StationRow{
			Poste:         line.Poste,
			Ordre:         line.Ordre,
			Sequence:      line.Sequence,
			Machine:       line.Machine,
			DurationHours: line.DurationHours,
			Comment:       line.Comment,
			Status:        types.StatusPending,
		}
		if rec, ok := overlay[key{line.Ordre, line.Sequence}]; ok {
			row.Status = rec.Status
			row.ValidatedAt = rec.ValidatedAt
			row.ReportedAt = rec.ReportedAt
			row.Cause = rec.Cause
			row.Detail = rec.Detail
			row.MachineNeed = rec.MachineNeed
			row.Duration = rec.Duration
			if class == types.ClassProduction {
				row.DerivedLaunchAt = rec.DerivedLaunchAt
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
