package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/repos"
	"github.com/atelierware/suivi-backend/internal/types"
)

// NotificationService exposes the problem-report log. Records are only ever
// created by the transition path; operators may list and hard-delete them.
type NotificationService interface {
	ListByStation(ctx context.Context, poste string) ([]*types.NotificationRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(db *gorm.DB, log *logger.Logger, notificationRepo repos.NotificationRepo) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) ListByStation(ctx context.Context, poste string) ([]*types.NotificationRecord, error) {
	return s.notificationRepo.ListByStation(ctx, nil, poste)
}

func (s *notificationService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.notificationRepo.Delete(ctx, nil, id)
}
