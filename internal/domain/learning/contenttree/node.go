// Package contenttree models a submitted course structure and computes the
// mutation plan that reconciles it with the persisted Course → Section → Lecture tree.
//
// Submitted nodes are a closed tagged union: every section is either an
// ExistingSection (carries a persisted id, update in place) or a NewSection
// (no id yet, insert). Lectures follow the same shape. The planner switches
// exhaustively over the union, so there is no zero-id sentinel to misread.
package contenttree

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

// CourseFields are the scalar course attributes an author may edit.
type CourseFields struct {
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=20000"`
	PriceCents  int64           `json:"price_cents" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	Metadata    json.RawMessage `json:"metadata,omitempty" validate:"omitempty,raw_json"`
}

type SectionFields struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
}

type LectureFields struct {
	Title           string               `json:"title" validate:"required,max=200"`
	Kind            learning.LectureKind `json:"kind" validate:"required,lecture_kind"`
	VideoURL        string               `json:"video_url" validate:"omitempty,url,max=2048"`
	DurationSeconds int                  `json:"duration_seconds" validate:"gte=0"`
	ArticleBody     string               `json:"article_body" validate:"max=200000"`
	Quiz            json.RawMessage      `json:"quiz,omitempty" validate:"omitempty,raw_json"`
}

// SectionNode is implemented only by ExistingSection and NewSection.
type SectionNode interface {
	sectionNode()
	SectionFields() SectionFields
	LectureNodes() []LectureNode
}

// LectureNode is implemented only by ExistingLecture and NewLecture.
type LectureNode interface {
	lectureNode()
	LectureFields() LectureFields
}

type ExistingSection struct {
	ID       uuid.UUID
	Fields   SectionFields
	Lectures []LectureNode
}

type NewSection struct {
	Fields   SectionFields
	Lectures []LectureNode
}

type ExistingLecture struct {
	ID     uuid.UUID
	Fields LectureFields
}

type NewLecture struct {
	Fields LectureFields
}

func (ExistingSection) sectionNode() {}
func (NewSection) sectionNode()      {}
func (ExistingLecture) lectureNode() {}
func (NewLecture) lectureNode()      {}

func (s ExistingSection) SectionFields() SectionFields { return s.Fields }
func (s NewSection) SectionFields() SectionFields      { return s.Fields }
func (s ExistingSection) LectureNodes() []LectureNode  { return s.Lectures }
func (s NewSection) LectureNodes() []LectureNode       { return s.Lectures }
func (l ExistingLecture) LectureFields() LectureFields { return l.Fields }
func (l NewLecture) LectureFields() LectureFields      { return l.Fields }

// Submission is a full snapshot of the desired section list, in display order.
type Submission struct {
	Sections []SectionNode
}

// LectureCount counts lectures across every submitted section.
func (s Submission) LectureCount() int {
	n := 0
	for _, sec := range s.Sections {
		if sec != nil {
			n += len(sec.LectureNodes())
		}
	}
	return n
}
