package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/atelierware/suivi-backend/internal/logger"
	"github.com/atelierware/suivi-backend/internal/types"
)

type SnapshotRepo interface {
	UpsertDaily(ctx context.Context, tx *gorm.DB, rows []*types.DailyResumeSnapshot) error
	GetDaily(ctx context.Context, tx *gorm.DB, resumeDate string) ([]*types.DailyResumeSnapshot, error)
	UpsertWeekly(ctx context.Context, tx *gorm.DB, rows []*types.WeeklyRecapSnapshot) error
	GetWeekly(ctx context.Context, tx *gorm.DB, isoYear, isoWeek int) ([]*types.WeeklyRecapSnapshot, error)
}

type snapshotRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) SnapshotRepo {
	return &snapshotRepo{db: db, log: baseLog.With("repo", "SnapshotRepo")}
}

func (r *snapshotRepo) UpsertDaily(ctx context.Context, tx *gorm.DB, rows []*types.DailyResumeSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	// Latest write wins on (resume_date, poste).
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "resume_date"}, {Name: "poste"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"of_clotures", "of_en_cours", "heures_rendues", "source", "imported_by", "updated_at",
			}),
		}).
		Create(&rows).Error
}

func (r *snapshotRepo) GetDaily(ctx context.Context, tx *gorm.DB, resumeDate string) ([]*types.DailyResumeSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.DailyResumeSnapshot
	if err := transaction.WithContext(ctx).
		Where("resume_date = ?", resumeDate).
		Order("poste ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *snapshotRepo) UpsertWeekly(ctx context.Context, tx *gorm.DB, rows []*types.WeeklyRecapSnapshot) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "iso_year"}, {Name: "iso_week"}, {Name: "poste"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"engaged_hours", "closed_count", "comment", "updated_at",
			}),
		}).
		Create(&rows).Error
}

func (r *snapshotRepo) GetWeekly(ctx context.Context, tx *gorm.DB, isoYear, isoWeek int) ([]*types.WeeklyRecapSnapshot, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*types.WeeklyRecapSnapshot
	if err := transaction.WithContext(ctx).
		Where("iso_year = ? AND iso_week = ?", isoYear, isoWeek).
		Order("poste ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
