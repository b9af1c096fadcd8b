package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// WorkOrderLine is one operation (sequence step) of one manufacturing order
// at one station. Rows are versioned append-only: a planning edit inserts a
// new version and stamps the prior one superseded, it never overwrites.
type WorkOrderLine struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Poste         string         `gorm:"not null;index:idx_wol_key,priority:1;column:poste" json:"poste"`
	Ordre         string         `gorm:"not null;index:idx_wol_key,priority:2;column:ordre" json:"ordre"`
	Sequence      int            `gorm:"not null;index:idx_wol_key,priority:3;column:sequence" json:"sequence"`
	Machine       string         `gorm:"column:machine" json:"machine"`
	MachineKey    string         `gorm:"index;column:machine_key" json:"-"`
	DurationHours float64        `gorm:"column:duration_hours" json:"duration_hours"`
	Comment       string         `gorm:"column:comment" json:"comment"`
	Raw           datatypes.JSON `gorm:"column:raw" json:"-"`
	Version       int            `gorm:"not null;default:1;column:version" json:"version"`
	SupersededAt  *time.Time     `gorm:"index;column:superseded_at" json:"superseded_at,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
}

func (WorkOrderLine) TableName() string {
	return "work_order_line"
}
