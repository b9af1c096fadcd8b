package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// LaunchTimeResolver derives the launch instant of a work-order line when
// production starts. The result is memoized in derived_launch_at: once set
// it is returned unchanged forever, even if the inputs move afterwards.
type LaunchTimeResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int) (time.Time, error)
}

type launchTimeResolver struct {
	log           *logger.Logger
	readinessRepo repos.ReadinessRepo
	lineRepo      repos.WorkOrderLineRepo
	now           func() time.Time
}

func NewLaunchTimeResolver(log *logger.Logger, readinessRepo repos.ReadinessRepo, lineRepo repos.WorkOrderLineRepo, now func() time.Time) LaunchTimeResolver {
	if now == nil {
		now = time.Now
	}
	return &launchTimeResolver{
		log:           log.With("service", "LaunchTimeResolver"),
		readinessRepo: readinessRepo,
		lineRepo:      lineRepo,
		now:           now,
	}
}

// Resolve computes the launch time as the latest of: material validation,
// tooling validation, and the completion of the closed predecessor queued on
// the same machine. With no candidate available it falls back to the
// wall clock. The caller persists the result inside its own transaction so
// the status write and the launch-time write land together.
func (r *launchTimeResolver) Resolve(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int) (time.Time, error) {
	prod, err := r.readinessRepo.Get(ctx, tx, poste, ordre, sequence, types.ClassProduction)
	if err != nil {
		return time.Time{}, err
	}
	if prod.DerivedLaunchAt != nil {
		return *prod.DerivedLaunchAt, nil
	}

	var candidates []time.Time

	mat, err := r.readinessRepo.Get(ctx, tx, poste, ordre, sequence, types.ClassMaterial)
	if err != nil {
		return time.Time{}, err
	}
	if mat.Status == types.StatusReady && mat.ValidatedAt != nil {
		candidates = append(candidates, *mat.ValidatedAt)
	}

	tool, err := r.readinessRepo.Get(ctx, tx, poste, ordre, sequence, types.ClassTooling)
	if err != nil {
		return time.Time{}, err
	}
	if tool.Status == types.StatusReady && tool.ValidatedAt != nil {
		candidates = append(candidates, *tool.ValidatedAt)
	}

	predecessor, err := r.closedPredecessorValidatedAt(ctx, tx, poste, ordre, sequence)
	if err != nil {
		return time.Time{}, err
	}
	if predecessor != nil {
		candidates = append(candidates, *predecessor)
	}

	if len(candidates) == 0 {
		return r.now(), nil
	}
	launch := candidates[0]
	for _, c := range candidates[1:] {
		if c.After(launch) {
			launch = c
		}
	}
	return launch, nil
}

// closedPredecessorValidatedAt walks the lower-sequence lines queued on the
// same machine, highest first, and returns the completion timestamp of the
// first one whose production is closed.
func (r *launchTimeResolver) closedPredecessorValidatedAt(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int) (*time.Time, error) {
	line, err := r.lineRepo.GetLive(ctx, tx, poste, ordre, sequence)
	if err != nil {
		return nil, err
	}
	if line == nil || line.MachineKey == "" {
		return nil, nil
	}
	predecessors, err := r.lineRepo.ListLivePredecessors(ctx, tx, poste, line.MachineKey, sequence)
	if err != nil {
		return nil, err
	}
	for _, pred := range predecessors {
		rec, err := r.readinessRepo.Get(ctx, tx, pred.Poste, pred.Ordre, pred.Sequence, types.ClassProduction)
		if err != nil {
			return nil, err
		}
		if rec.Status == types.StatusClosed && rec.ValidatedAt != nil {
			return rec.ValidatedAt, nil
		}
	}
	return nil, nil
}
