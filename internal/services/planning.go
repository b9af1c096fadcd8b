package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/faults"
	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/normalization"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// PlanningService imports and versions the planning rows for a station.
// Edits never overwrite: saving a key that already has a live version stamps
// it superseded and inserts the next version.
type PlanningService interface {
	ImportRows(ctx context.Context, poste string, rows []map[string]any) ([]*types.WorkOrderLine, error)
	ListByStation(ctx context.Context, poste string) ([]*types.WorkOrderLine, error)
}

type planningService struct {
	db       *gorm.DB
	log      *logger.Logger
	lineRepo repos.WorkOrderLineRepo
}

func NewPlanningService(db *gorm.DB, log *logger.Logger, lineRepo repos.WorkOrderLineRepo) PlanningService {
	return &planningService{
		db:       db,
		log:      log.With("service", "PlanningService"),
		lineRepo: lineRepo,
	}
}

func (s *planningService) ImportRows(ctx context.Context, poste string, rows []map[string]any) ([]*types.WorkOrderLine, error) {
	poste = normalization.ParseInputString(poste)
	if poste == "" {
		return nil, faults.MissingField("poste")
	}

	// Normalize everything before touching the store so a malformed row
	// rejects the whole import with no partial write.
	parsed := make([]*normalization.PlanningRow, 0, len(rows))
	raws := make([]datatypes.JSON, 0, len(rows))
	for i, raw := range rows {
		row, err := normalization.ParsePlanningRow(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		parsed = append(parsed, row)
		raws = append(raws, datatypes.JSON(encoded))
	}

	var saved []*types.WorkOrderLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, row := range parsed {
			line, err := s.saveVersioned(ctx, tx, poste, row, raws[i])
			if err != nil {
				return err
			}
			saved = append(saved, line)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("Planning import failed", "poste", poste, "error", err)
		return nil, faults.Persistence(err)
	}
	s.log.Info("Planning imported", "poste", poste, "rows", len(saved))
	return saved, nil
}

func (s *planningService) saveVersioned(ctx context.Context, tx *gorm.DB, poste string, row *normalization.PlanningRow, raw datatypes.JSON) (*types.WorkOrderLine, error) {
	live, err := s.lineRepo.GetLive(ctx, tx, poste, row.Ordre, row.Sequence)
	if err != nil {
		return nil, err
	}
	version := 1
	if live != nil {
		version = live.Version + 1
		if err := s.lineRepo.Supersede(ctx, tx, poste, row.Ordre, row.Sequence, time.Now().UTC()); err != nil {
			return nil, err
		}
	}
	line := &types.WorkOrderLine{
		ID:            uuid.New(),
		Poste:         poste,
		Ordre:         row.Ordre,
		Sequence:      row.Sequence,
		Machine:       row.Machine,
		MachineKey:    normalization.NormalizeMachine(row.Machine),
		DurationHours: row.DurationHours,
		Comment:       row.Comment,
		Raw:           raw,
		Version:       version,
	}
	if _, err := s.lineRepo.Create(ctx, tx, []*types.WorkOrderLine{line}); err != nil {
		return nil, err
	}
	return line, nil
}

func (s *planningService) ListByStation(ctx context.Context, poste string) ([]*types.WorkOrderLine, error) {
	return s.lineRepo.ListLiveByStation(ctx, nil, poste)
}
