package contenttree

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

// SectionDraft is the wire shape of a submitted section. A present id (even the
// nil UUID) marks the node as existing; the nil UUID is then rejected by Validate.
// Order is accepted for client convenience and ignored.
type SectionDraft struct {
	ID          *uuid.UUID     `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Order       int            `json:"order,omitempty"`
	Lectures    []LectureDraft `json:"lectures"`
}

type LectureDraft struct {
	ID              *uuid.UUID           `json:"id,omitempty"`
	Title           string               `json:"title"`
	Order           int                  `json:"order,omitempty"`
	Kind            learning.LectureKind `json:"kind"`
	VideoURL        string               `json:"video_url,omitempty"`
	DurationSeconds int                  `json:"duration_seconds"`
	ArticleBody     string               `json:"article_body,omitempty"`
	Quiz            json.RawMessage      `json:"quiz,omitempty"`
}

// FromDrafts converts wire drafts into the tagged submission tree.
func FromDrafts(drafts []SectionDraft) Submission {
	out := Submission{Sections: make([]SectionNode, 0, len(drafts))}
	for _, d := range drafts {
		lectures := make([]LectureNode, 0, len(d.Lectures))
		for _, ld := range d.Lectures {
			lectures = append(lectures, ld.node())
		}
		fields := SectionFields{Title: d.Title, Description: d.Description}
		if d.ID != nil {
			out.Sections = append(out.Sections, ExistingSection{ID: *d.ID, Fields: fields, Lectures: lectures})
		} else {
			out.Sections = append(out.Sections, NewSection{Fields: fields, Lectures: lectures})
		}
	}
	return out
}

func (d LectureDraft) node() LectureNode {
	fields := LectureFields{
		Title:           d.Title,
		Kind:            d.Kind,
		VideoURL:        d.VideoURL,
		DurationSeconds: d.DurationSeconds,
		ArticleBody:     d.ArticleBody,
		Quiz:            d.Quiz,
	}
	if d.ID != nil {
		return ExistingLecture{ID: *d.ID, Fields: fields}
	}
	return NewLecture{Fields: fields}
}

// ToDrafts renders a persisted course back into drafts, every node existing.
// Useful for clients that edit the tree returned by a previous call.
func ToDrafts(c *learning.Course) []SectionDraft {
	if c == nil {
		return nil
	}
	out := make([]SectionDraft, 0, len(c.Sections))
	for _, s := range c.Sections {
		if s == nil {
			continue
		}
		sid := s.ID
		sd := SectionDraft{ID: &sid, Title: s.Title, Description: s.Description, Order: s.Order}
		for _, l := range s.Lectures {
			if l == nil {
				continue
			}
			lid := l.ID
			sd.Lectures = append(sd.Lectures, LectureDraft{
				ID:              &lid,
				Title:           l.Title,
				Order:           l.Order,
				Kind:            l.Kind,
				VideoURL:        l.VideoURL,
				DurationSeconds: l.DurationSeconds,
				ArticleBody:     l.ArticleBody,
				Quiz:            json.RawMessage(l.Quiz),
			})
		}
		out = append(out, sd)
	}
	return out
}
