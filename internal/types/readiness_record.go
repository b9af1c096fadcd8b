package types

import (
	"time"

	"github.com/google/uuid"
)

// ReadinessRecord is the persisted status of one resource class of one
// work-order line. Rows are created lazily on the first status-changing
// request; a line with no row has implicit pending status.
type ReadinessRecord struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Poste         string        `gorm:"not null;uniqueIndex:idx_readiness_key,priority:1;column:poste" json:"poste"`
	Ordre         string        `gorm:"not null;uniqueIndex:idx_readiness_key,priority:2;column:ordre" json:"ordre"`
	Sequence      int           `gorm:"not null;uniqueIndex:idx_readiness_key,priority:3;column:sequence" json:"sequence"`
	ResourceClass ResourceClass `gorm:"not null;uniqueIndex:idx_readiness_key,priority:4;column:resource_class" json:"resource_class"`
	Status        Status        `gorm:"not null;column:status" json:"status"`
	// ValidatedAt is set when status becomes ready/started/closed,
	// ReportedAt when it becomes missing; each clears the other.
	ValidatedAt *time.Time `gorm:"column:validated_at" json:"validated_at,omitempty"`
	ReportedAt  *time.Time `gorm:"column:reported_at" json:"reported_at,omitempty"`
	Cause       string     `gorm:"column:cause" json:"cause,omitempty"`
	Detail      string     `gorm:"column:detail" json:"detail,omitempty"`
	// MachineNeed and Duration echo the operator-entered besoin_machine and
	// duree request fields.
	MachineNeed string   `gorm:"column:machine_need" json:"machine_need,omitempty"`
	Duration    *float64 `gorm:"column:duree" json:"duree,omitempty"`
	// DerivedLaunchAt is computed once when production starts, then
	// immutable (first write wins). Production class only.
	DerivedLaunchAt *time.Time `gorm:"column:derived_launch_at" json:"derived_launch_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (ReadinessRecord) TableName() string {
	return "readiness_record"
}
