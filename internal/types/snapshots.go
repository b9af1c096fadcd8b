package types

import (
	"time"

	"github.com/google/uuid"
)

// DailyResumeSnapshot is a manager-saved résumé row for one station on one
// date. Plain upsert target, latest write wins. When a snapshot exists for a
// date the journalier endpoint serves it verbatim instead of recomputing.
type DailyResumeSnapshot struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ResumeDate    string    `gorm:"not null;uniqueIndex:idx_daily_resume_key,priority:1;column:resume_date" json:"resume_date"`
	Poste         string    `gorm:"not null;uniqueIndex:idx_daily_resume_key,priority:2;column:poste" json:"poste"`
	OFClotures    int       `gorm:"column:of_clotures" json:"of_clotures"`
	OFEnCours     int       `gorm:"column:of_en_cours" json:"of_en_cours"`
	HeuresRendues float64   `gorm:"column:heures_rendues" json:"heures_rendues"`
	Source        string    `gorm:"column:source" json:"source,omitempty"`
	ImportedBy    string    `gorm:"column:imported_by" json:"imported_by,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (DailyResumeSnapshot) TableName() string {
	return "daily_resume_snapshot"
}

// WeeklyRecapSnapshot holds manager-entered weekly totals per station,
// keyed by ISO year/week. Latest write wins.
type WeeklyRecapSnapshot struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ISOYear      int       `gorm:"not null;uniqueIndex:idx_weekly_recap_key,priority:1;column:iso_year" json:"iso_year"`
	ISOWeek      int       `gorm:"not null;uniqueIndex:idx_weekly_recap_key,priority:2;column:iso_week" json:"iso_week"`
	Poste        string    `gorm:"not null;uniqueIndex:idx_weekly_recap_key,priority:3;column:poste" json:"poste"`
	EngagedHours float64   `gorm:"column:engaged_hours" json:"engaged_hours"`
	ClosedCount  int       `gorm:"column:closed_count" json:"closed_count"`
	Comment      string    `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (WeeklyRecapSnapshot) TableName() string {
	return "weekly_recap_snapshot"
}
