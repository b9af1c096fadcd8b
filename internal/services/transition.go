package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/faults"
	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/normalization"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// TransitionRequest is one desired status change for one resource class of
// one work-order line. Sequence carries the request body's "ordre" field and
// is required on every request.
type TransitionRequest struct {
	Poste    string
	Ordre    string
	Sequence int
	Class    types.ResourceClass
	Target   types.Status
	// Cause and Detail come from the optional notification payload and are
	// required/used only for missing transitions.
	Cause  string
	Detail string
	// MachineNeed and Duration echo the besoin_machine and duree fields.
	MachineNeed string
	Duration    *float64
}

// TransitionService validates and applies readiness transitions. All writes
// of one request (ledger upsert, optional notification insert, launch-time
// derivation) happen in a single database transaction.
type TransitionService interface {
	Apply(ctx context.Context, req TransitionRequest) (*types.ReadinessRecord, error)
}

type transitionService struct {
	db               *gorm.DB
	log              *logger.Logger
	readinessRepo    repos.ReadinessRepo
	notificationRepo repos.NotificationRepo
	launchResolver   LaunchTimeResolver
	now              func() time.Time
}

func NewTransitionService(db *gorm.DB, log *logger.Logger, readinessRepo repos.ReadinessRepo, notificationRepo repos.NotificationRepo, launchResolver LaunchTimeResolver, now func() time.Time) TransitionService {
	if now == nil {
		now = time.Now
	}
	return &transitionService{
		db:               db,
		log:              log.With("service", "TransitionService"),
		readinessRepo:    readinessRepo,
		notificationRepo: notificationRepo,
		launchResolver:   launchResolver,
		now:              now,
	}
}

func (s *transitionService) Apply(ctx context.Context, req TransitionRequest) (*types.ReadinessRecord, error) {
	if !types.LegalStatus(req.Class, req.Target) {
		return nil, faults.InvalidStatus(string(req.Target), string(req.Class))
	}
	if req.Sequence <= 0 {
		return nil, faults.MissingField("ordre")
	}
	req.Cause = normalization.ParseInputString(req.Cause)
	req.Detail = normalization.ParseInputString(req.Detail)

	var applied *types.ReadinessRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.readinessRepo.Get(ctx, tx, req.Poste, req.Ordre, req.Sequence, req.Class)
		if err != nil {
			return faults.Persistence(err)
		}

		if req.Class == types.ClassProduction {
			if rejected := s.checkProductionLock(current.Status, req.Target); rejected != nil {
				return rejected
			}
			// Re-closing an already closed order is a no-op: the close
			// timestamp must not move on a double transition.
			if current.Status == types.StatusClosed && req.Target == types.StatusClosed {
				applied = current
				return nil
			}
			if escalates(req.Target) {
				if err := s.checkPrerequisites(ctx, tx, req); err != nil {
					return err
				}
			}
		}

		if req.Target == types.StatusMissing && req.Cause == "" {
			return faults.MissingCause()
		}

		rec := s.normalize(current, req)

		if req.Class == types.ClassProduction && (req.Target == types.StatusStarted || req.Target == types.StatusClosed) && rec.DerivedLaunchAt == nil {
			launch, err := s.launchResolver.Resolve(ctx, tx, req.Poste, req.Ordre, req.Sequence)
			if err != nil {
				return faults.Persistence(err)
			}
			rec.DerivedLaunchAt = &launch
		}

		if err := s.readinessRepo.Upsert(ctx, tx, rec); err != nil {
			return faults.Persistence(err)
		}

		if req.Target == types.StatusMissing {
			notification := &types.NotificationRecord{
				Poste:       req.Poste,
				Ordre:       req.Ordre,
				Sequence:    req.Sequence,
				ProblemType: req.Class,
				Cause:       rec.Cause,
				Detail:      rec.Detail,
				CreatedAt:   s.now(),
			}
			if err := s.notificationRepo.Create(ctx, tx, notification); err != nil {
				return faults.Persistence(err)
			}
		}

		applied = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// checkProductionLock enforces the ready-locks rule: once production is
// ready or later it cannot regress to pending, and re-requesting ready is a
// conflict. Reporting missing against a ready or started (not closed) order
// is deliberately permitted, reopening the problem.
func (s *transitionService) checkProductionLock(current, target types.Status) error {
	if types.ProgressionRank(current) < types.ProgressionRank(types.StatusReady) {
		return nil
	}
	switch target {
	case types.StatusPending:
		return faults.AlreadyLocked(string(current))
	case types.StatusReady:
		return faults.AlreadyLocked(string(current))
	case types.StatusMissing:
		if current == types.StatusClosed {
			return faults.AlreadyLocked(string(current))
		}
		return nil
	case types.StatusStarted:
		if current == types.StatusClosed {
			return faults.AlreadyLocked(string(current))
		}
		return nil
	default:
		return nil
	}
}

// checkPrerequisites re-checks the cross-resource gate at transition time:
// production may escalate only while material and tooling are both ready.
func (s *transitionService) checkPrerequisites(ctx context.Context, tx *gorm.DB, req TransitionRequest) error {
	mat, err := s.readinessRepo.Get(ctx, tx, req.Poste, req.Ordre, req.Sequence, types.ClassMaterial)
	if err != nil {
		return faults.Persistence(err)
	}
	tool, err := s.readinessRepo.Get(ctx, tx, req.Poste, req.Ordre, req.Sequence, types.ClassTooling)
	if err != nil {
		return faults.Persistence(err)
	}
	if mat.Status != types.StatusReady || tool.Status != types.StatusReady {
		return &faults.PrerequisiteError{
			MatiereStatus: string(mat.Status),
			OutilStatus:   string(tool.Status),
		}
	}
	return nil
}

// normalize applies the field-clearing rules: missing clears validated_at
// and stamps reported_at with the cause; ready/started/closed clear the
// problem fields and stamp validated_at; pending clears everything. The
// memoized derived_launch_at is always carried forward.
func (s *transitionService) normalize(current *types.ReadinessRecord, req TransitionRequest) *types.ReadinessRecord {
	now := s.now()
	rec := &types.ReadinessRecord{
		ID:              current.ID,
		Poste:           req.Poste,
		Ordre:           req.Ordre,
		Sequence:        req.Sequence,
		ResourceClass:   req.Class,
		Status:          req.Target,
		MachineNeed:     current.MachineNeed,
		Duration:        current.Duration,
		DerivedLaunchAt: current.DerivedLaunchAt,
		CreatedAt:       current.CreatedAt,
		UpdatedAt:       now,
	}
	if req.MachineNeed != "" {
		rec.MachineNeed = req.MachineNeed
	}
	if req.Duration != nil {
		rec.Duration = req.Duration
	}

	switch req.Target {
	case types.StatusMissing:
		rec.ValidatedAt = nil
		rec.ReportedAt = &now
		rec.Cause = req.Cause
		rec.Detail = req.Detail
		if rec.Detail == "" {
			rec.Detail = "-"
		}
	case types.StatusReady, types.StatusStarted, types.StatusClosed:
		rec.ValidatedAt = &now
		rec.ReportedAt = nil
		rec.Cause = ""
		rec.Detail = ""
	default: // pending
		rec.ValidatedAt = nil
		rec.ReportedAt = nil
		rec.Cause = ""
		rec.Detail = ""
	}
	return rec
}

func escalates(target types.Status) bool {
	return target == types.StatusReady || target == types.StatusStarted || target == types.StatusClosed
}
