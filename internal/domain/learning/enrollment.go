package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is unique per (learner, course).
type Enrollment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LearnerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course,priority:1" json:"learner_id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_learner_course,priority:2;index" json:"course_id"`
	Course     *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"-"`
	EnrolledAt time.Time `gorm:"column:enrolled_at;not null" json:"enrolled_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	return nil
}
