package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LectureKind string

const (
	LectureKindVideo   LectureKind = "video"
	LectureKindArticle LectureKind = "article"
	LectureKindQuiz    LectureKind = "quiz"
)

func (k LectureKind) Valid() bool {
	switch k {
	case LectureKindVideo, LectureKindArticle, LectureKindQuiz:
		return true
	default:
		return false
	}
}

type Lecture struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`

	Title string `gorm:"column:title;not null" json:"title"`
	// Order is 1-based and dense within a section.
	Order int         `gorm:"column:position;not null" json:"order"`
	Kind  LectureKind `gorm:"column:kind;not null;default:'video'" json:"kind"`

	// Type-specific payload; only the fields matching Kind are meaningful.
	VideoURL        string         `gorm:"column:video_url" json:"video_url,omitempty"`
	DurationSeconds int            `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	ArticleBody     string         `gorm:"column:article_body;type:text" json:"article_body,omitempty"`
	Quiz            datatypes.JSON `gorm:"column:quiz" json:"quiz,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Lecture) TableName() string { return "course_lecture" }

func (l *Lecture) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
