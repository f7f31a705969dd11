package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InstructorID uuid.UUID `gorm:"type:uuid;not null;index" json:"instructor_id"`

	Title       string `gorm:"column:title;not null" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
	PriceCents  int64  `gorm:"column:price_cents;not null;default:0" json:"price_cents"`
	Currency    string `gorm:"column:currency;not null;default:'USD'" json:"currency"`

	Metadata datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	// Version increments on every structural edit; used for optional compare-and-set.
	Version int64 `gorm:"column:version;not null;default:1" json:"version"`

	Sections []*Section `gorm:"foreignKey:CourseID;references:ID;constraint:OnDelete:CASCADE" json:"sections,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// LectureCount is the number of lectures across all loaded sections.
func (c *Course) LectureCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, s := range c.Sections {
		if s != nil {
			n += len(s.Lectures)
		}
	}
	return n
}
