package repos

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/types"
)

type WorkOrderLineRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lines []*types.WorkOrderLine) ([]*types.WorkOrderLine, error)
	// GetLive returns the non-superseded version for the composite key, or
	// nil when no live version exists.
	GetLive(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int) (*types.WorkOrderLine, error)
	// Supersede stamps every live version of the key; planning edits never
	// overwrite or delete.
	Supersede(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int, at time.Time) error
	ListLiveByStation(ctx context.Context, tx *gorm.DB, poste string) ([]*types.WorkOrderLine, error)
	// ListLivePredecessors returns live lines on the same machine with a
	// lower sequence number, highest sequence first.
	ListLivePredecessors(ctx context.Context, tx *gorm.DB, poste, machineKey string, beforeSequence int) ([]*types.WorkOrderLine, error)
}

type workOrderLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkOrderLineRepo(db *gorm.DB, baseLog *logger.Logger) WorkOrderLineRepo {
	return &workOrderLineRepo{db: db, log: baseLog.With("repo", "WorkOrderLineRepo")}
}

func (r *workOrderLineRepo) Create(ctx context.Context, tx *gorm.DB, lines []*types.WorkOrderLine) ([]*types.WorkOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lines) == 0 {
		return []*types.WorkOrderLine{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *workOrderLineRepo) GetLive(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int) (*types.WorkOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.WorkOrderLine
	if err := transaction.WithContext(ctx).
		Where("poste = ? AND ordre = ? AND sequence = ? AND superseded_at IS NULL", poste, ordre, sequence).
		Order("version DESC").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *workOrderLineRepo) Supersede(ctx context.Context, tx *gorm.DB, poste, ordre string, sequence int, at time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.WorkOrderLine{}).
		Where("poste = ? AND ordre = ? AND sequence = ? AND superseded_at IS NULL", poste, ordre, sequence).
		Update("superseded_at", at).Error
}

func (r *workOrderLineRepo) ListLiveByStation(ctx context.Context, tx *gorm.DB, poste string) ([]*types.WorkOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.WorkOrderLine
	if err := transaction.WithContext(ctx).
		Where("poste = ? AND superseded_at IS NULL", poste).
		Order("sequence ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *workOrderLineRepo) ListLivePredecessors(ctx context.Context, tx *gorm.DB, poste, machineKey string, beforeSequence int) ([]*types.WorkOrderLine, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if machineKey == "" {
		return nil, nil
	}
	var rows []*types.WorkOrderLine
	if err := transaction.WithContext(ctx).
		Where("poste = ? AND machine_key = ? AND sequence < ? AND superseded_at IS NULL", poste, machineKey, beforeSequence).
		Order("sequence DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
