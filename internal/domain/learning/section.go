package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Section struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	// Order is 1-based and dense within a course.
	Order int `gorm:"column:position;not null" json:"order"`

	Lectures []*Lecture `gorm:"foreignKey:SectionID;references:ID;constraint:OnDelete:CASCADE" json:"lectures,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Section) TableName() string { return "course_section" }

func (s *Section) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
