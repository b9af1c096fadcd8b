package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/types"
)

type ReadinessRepo interface {
	// Get returns the persisted record for the key, or an unsaved pending
	// record with nil timestamps when none exists (lazy creation semantics).
	Get(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int, class types.ResourceClass) (*types.ReadinessRecord, error)
	// Upsert inserts or updates in place on the composite key, atomically.
	Upsert(ctx context.Context, tx *gorm.DB, rec *types.ReadinessRecord) error
	ListByStation(ctx context.Context, tx *gorm.DB, poste string, class types.ResourceClass) ([]*types.ReadinessRecord, error)
	// ListProductionValidatedBetween returns production records with the
	// given status whose validated_at falls in [from, to).
	ListProductionValidatedBetween(ctx context.Context, tx *gorm.DB, status types.Status, from, to time.Time) ([]*types.ReadinessRecord, error)
	ListProductionByStatus(ctx context.Context, tx *gorm.DB, status types.Status) ([]*types.ReadinessRecord, error)
}

type readinessRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReadinessRepo(db *gorm.DB, baseLog *logger.Logger) ReadinessRepo {
	return &readinessRepo{db: db, log: baseLog.With("repo", "ReadinessRepo")}
}

func (r *readinessRepo) Get(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int, class types.ResourceClass) (*types.ReadinessRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ReadinessRecord
	if err := transaction.WithContext(ctx).
		Where("poste = ? AND ordre = ? AND sequence = ? AND resource_class = ?", poste, ordre, sequence, class).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		return rows[0], nil
	}
	return &types.ReadinessRecord{
		Poste:         poste,
		Ordre:         ordre,
		Sequence:      sequence,
		ResourceClass: class,
		Status:        types.StatusPending,
	}, nil
}

func (r *readinessRepo) Upsert(ctx context.Context, tx *gorm.DB, rec *types.ReadinessRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "poste"}, {Name: "ordre"}, {Name: "sequence"}, {Name: "resource_class"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "validated_at", "reported_at", "cause", "detail",
				"machine_need", "duree", "derived_launch_at", "updated_at",
			}),
		}).
		Create(rec).Error
}

func (r *readinessRepo) ListByStation(ctx context.Context, tx *gorm.DB, poste string, class types.ResourceClass) ([]*types.ReadinessRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ReadinessRecord
	if err := transaction.WithContext(ctx).
		Where("poste = ? AND resource_class = ?", poste, class).
		Order("sequence ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readinessRepo) ListProductionValidatedBetween(ctx context.Context, tx *gorm.DB, status types.Status, from, to time.Time) ([]*types.ReadinessRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ReadinessRecord
	if err := transaction.WithContext(ctx).
		Where("resource_class = ? AND status = ? AND validated_at >= ? AND validated_at < ?",
			types.ClassProduction, status, from, to).
		Order("poste ASC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *readinessRepo) ListProductionByStatus(ctx context.Context, tx *gorm.DB, status types.Status) ([]*types.ReadinessRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.ReadinessRecord
	if err := transaction.WithContext(ctx).
		Where("resource_class = ? AND status = ?", types.ClassProduction, status).
		Order("poste ASC, sequence ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
