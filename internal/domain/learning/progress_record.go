package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgressRecord is unique per (enrollment, lecture). LectureID intentionally has no
// foreign key: records outlive lectures removed by a later reconcile and are ignored
// by aggregation once dangling.
type ProgressRecord struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_lecture,priority:1" json:"enrollment_id"`
	Enrollment   *Enrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"-"`
	LectureID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_enrollment_lecture,priority:2;index" json:"lecture_id"`

	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProgressRecord) TableName() string { return "progress_record" }

func (p *ProgressRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
