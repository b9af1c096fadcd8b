package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.NotificationRecord) error
	ListByStation(ctx context.Context, tx *gorm.DB, poste string) ([]*types.NotificationRecord, error)
	ListCreatedBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.NotificationRecord, error)
	// Delete hard-deletes; notifications have no soft-delete.
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.NotificationRecord) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return transaction.WithContext(ctx).Create(rec).Error
}

func (r *notificationRepo) ListByStation(ctx context.Context, tx *gorm.DB, poste string) ([]*types.NotificationRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.NotificationRecord
	if err := transaction.WithContext(ctx).
		Where("poste = ?", poste).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) ListCreatedBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*types.NotificationRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.NotificationRecord
	if err := transaction.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *notificationRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.NotificationRecord{}).Error
}
