package types

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRecord is an append-only log entry written exactly once per
// successful missing transition. Never updated; operators may hard-delete.
type NotificationRecord struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Poste       string        `gorm:"not null;index;column:poste" json:"poste"`
	Ordre       string        `gorm:"not null;column:ordre" json:"ordre"`
	Sequence    int           `gorm:"not null;column:sequence" json:"sequence"`
	ProblemType ResourceClass `gorm:"not null;column:problem_type" json:"problem_type"`
	Cause       string        `gorm:"not null;column:cause" json:"cause"`
	Detail      string        `gorm:"column:detail" json:"detail"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"created_at"`
}

func (NotificationRecord) TableName() string {
	return "notification_record"
}
