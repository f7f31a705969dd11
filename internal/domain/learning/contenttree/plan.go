package contenttree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

// ParentRef points a new lecture at its section: either a persisted id or a
// slot in Plan.NewSections whose id is only known after insert.
type ParentRef struct {
	ID    uuid.UUID
	Arena int
}

func persistedParent(id uuid.UUID) ParentRef { return ParentRef{ID: id, Arena: -1} }
func arenaParent(idx int) ParentRef         { return ParentRef{Arena: idx} }

// IsArena reports whether the parent is a section inserted by the same plan.
func (p ParentRef) IsArena() bool { return p.Arena >= 0 }

type SectionUpdate struct {
	ID        uuid.UUID
	FromOrder int
	ToOrder   int
	// Changes maps column name to new value and includes "position" when moved.
	Changes map[string]any
}

func (u SectionUpdate) Moved() bool { return u.FromOrder != u.ToOrder }

type LectureUpdate struct {
	ID        uuid.UUID
	SectionID uuid.UUID
	FromOrder int
	ToOrder   int
	Changes   map[string]any
}

func (u LectureUpdate) Moved() bool { return u.FromOrder != u.ToOrder }

type NewSectionSlot struct {
	Order  int
	Fields SectionFields
}

type NewLectureSlot struct {
	Parent ParentRef
	Order  int
	Fields LectureFields
}

// Plan is the minimal mutation set that turns a persisted tree into a submission.
type Plan struct {
	CourseID uuid.UUID

	DeleteSectionIDs []uuid.UUID
	// DeleteLectureIDs are lectures dropped from sections that are kept.
	DeleteLectureIDs []uuid.UUID
	// CascadedLectures counts lectures removed together with a deleted section.
	CascadedLectures int

	SectionUpdates []SectionUpdate
	LectureUpdates []LectureUpdate

	// NewSections is the arena of sections to insert; the slice index is the
	// temporary id referenced by ParentRef.Arena.
	NewSections []NewSectionSlot
	NewLectures []NewLectureSlot
}

// Empty reports whether applying the plan would change nothing.
func (p *Plan) Empty() bool {
	return p == nil || (len(p.DeleteSectionIDs) == 0 &&
		len(p.DeleteLectureIDs) == 0 &&
		len(p.SectionUpdates) == 0 &&
		len(p.LectureUpdates) == 0 &&
		len(p.NewSections) == 0 &&
		len(p.NewLectures) == 0)
}

// Stats is a compact summary used for logs and API responses.
type Stats struct {
	SectionsDeleted  int `json:"sections_deleted"`
	SectionsUpdated  int `json:"sections_updated"`
	SectionsInserted int `json:"sections_inserted"`
	LecturesDeleted  int `json:"lectures_deleted"`
	LecturesUpdated  int `json:"lectures_updated"`
	LecturesInserted int `json:"lectures_inserted"`
}

func (p *Plan) Stats() Stats {
	if p == nil {
		return Stats{}
	}
	return Stats{
		SectionsDeleted:  len(p.DeleteSectionIDs),
		SectionsUpdated:  len(p.SectionUpdates),
		SectionsInserted: len(p.NewSections),
		LecturesDeleted:  len(p.DeleteLectureIDs) + p.CascadedLectures,
		LecturesUpdated:  len(p.LectureUpdates),
		LecturesInserted: len(p.NewLectures),
	}
}

// BuildPlan diffs the submission against the persisted course by identity.
// persisted must carry its full Sections/Lectures collections. Position in the
// submission is the authoritative order. Returns *ValidationError when an
// existing id does not belong where the submission places it.
func BuildPlan(persisted *learning.Course, sub Submission) (*Plan, error) {
	if persisted == nil {
		return nil, fmt.Errorf("build plan: persisted course is nil")
	}
	plan := &Plan{CourseID: persisted.ID}

	sections := make(map[uuid.UUID]*learning.Section, len(persisted.Sections))
	lectureHome := map[uuid.UUID]uuid.UUID{}
	for _, s := range persisted.Sections {
		if s == nil {
			continue
		}
		sections[s.ID] = s
		for _, l := range s.Lectures {
			if l != nil {
				lectureHome[l.ID] = s.ID
			}
		}
	}

	var issues []Issue
	keptSections := make(map[uuid.UUID]bool, len(sections))

	for i, node := range sub.Sections {
		sp := fmt.Sprintf("sections[%d]", i)
		order := i + 1

		switch s := node.(type) {
		case ExistingSection:
			ps, ok := sections[s.ID]
			if !ok {
				issues = append(issues, Issue{Path: sp + ".id", Message: fmt.Sprintf("section %s does not belong to course %s", s.ID, persisted.ID)})
				continue
			}
			keptSections[s.ID] = true

			changes := sectionChanges(ps, s.Fields)
			if ps.Order != order {
				changes["position"] = order
			}
			if len(changes) > 0 {
				plan.SectionUpdates = append(plan.SectionUpdates, SectionUpdate{
					ID:        ps.ID,
					FromOrder: ps.Order,
					ToOrder:   order,
					Changes:   changes,
				})
			}
			issues = append(issues, plan.diffLectures(sp, ps, s.Lectures, lectureHome)...)

		case NewSection:
			arena := len(plan.NewSections)
			plan.NewSections = append(plan.NewSections, NewSectionSlot{Order: order, Fields: s.Fields})
			for j, lec := range s.Lectures {
				lp := fmt.Sprintf("%s.lectures[%d]", sp, j)
				switch l := lec.(type) {
				case NewLecture:
					plan.NewLectures = append(plan.NewLectures, NewLectureSlot{
						Parent: arenaParent(arena),
						Order:  j + 1,
						Fields: l.Fields,
					})
				case ExistingLecture:
					issues = append(issues, Issue{Path: lp + ".id", Message: fmt.Sprintf("lecture %s cannot move into a new section", l.ID)})
				default:
					issues = append(issues, Issue{Path: lp, Message: "unsupported lecture node"})
				}
			}

		default:
			issues = append(issues, Issue{Path: sp, Message: "unsupported section node"})
		}
	}

	for _, s := range persisted.Sections {
		if s == nil || keptSections[s.ID] {
			continue
		}
		plan.DeleteSectionIDs = append(plan.DeleteSectionIDs, s.ID)
		plan.CascadedLectures += len(s.Lectures)
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return plan, nil
}

func (p *Plan) diffLectures(sp string, ps *learning.Section, nodes []LectureNode, home map[uuid.UUID]uuid.UUID) []Issue {
	var issues []Issue
	existing := make(map[uuid.UUID]*learning.Lecture, len(ps.Lectures))
	for _, l := range ps.Lectures {
		if l != nil {
			existing[l.ID] = l
		}
	}
	kept := make(map[uuid.UUID]bool, len(existing))

	for j, node := range nodes {
		lp := fmt.Sprintf("%s.lectures[%d]", sp, j)
		order := j + 1
		switch l := node.(type) {
		case ExistingLecture:
			pl, ok := existing[l.ID]
			if !ok {
				msg := fmt.Sprintf("lecture %s does not belong to course", l.ID)
				if other, found := home[l.ID]; found {
					msg = fmt.Sprintf("lecture %s belongs to section %s; moving lectures between sections is not supported", l.ID, other)
				}
				issues = append(issues, Issue{Path: lp + ".id", Message: msg})
				continue
			}
			kept[l.ID] = true
			changes := lectureChanges(pl, l.Fields)
			if pl.Order != order {
				changes["position"] = order
			}
			if len(changes) > 0 {
				p.LectureUpdates = append(p.LectureUpdates, LectureUpdate{
					ID:        pl.ID,
					SectionID: ps.ID,
					FromOrder: pl.Order,
					ToOrder:   order,
					Changes:   changes,
				})
			}
		case NewLecture:
			p.NewLectures = append(p.NewLectures, NewLectureSlot{
				Parent: persistedParent(ps.ID),
				Order:  order,
				Fields: l.Fields,
			})
		default:
			issues = append(issues, Issue{Path: lp, Message: "unsupported lecture node"})
		}
	}

	for _, l := range ps.Lectures {
		if l != nil && !kept[l.ID] {
			p.DeleteLectureIDs = append(p.DeleteLectureIDs, l.ID)
		}
	}
	return issues
}

func sectionChanges(cur *learning.Section, f SectionFields) map[string]any {
	changes := map[string]any{}
	if cur.Title != f.Title {
		changes["title"] = f.Title
	}
	if cur.Description != f.Description {
		changes["description"] = f.Description
	}
	return changes
}

func lectureChanges(cur *learning.Lecture, f LectureFields) map[string]any {
	changes := map[string]any{}
	if cur.Title != f.Title {
		changes["title"] = f.Title
	}
	if cur.Kind != f.Kind {
		changes["kind"] = string(f.Kind)
	}
	if cur.VideoURL != f.VideoURL {
		changes["video_url"] = f.VideoURL
	}
	if cur.DurationSeconds != f.DurationSeconds {
		changes["duration_seconds"] = f.DurationSeconds
	}
	if cur.ArticleBody != f.ArticleBody {
		changes["article_body"] = f.ArticleBody
	}
	if !sameJSON(cur.Quiz, f.Quiz) {
		changes["quiz"] = JSONValue(f.Quiz)
	}
	return changes
}

// JSONValue normalizes a submitted JSON payload (quiz, course metadata) for
// storage; empty and null payloads are stored as NULL.
func JSONValue(raw json.RawMessage) datatypes.JSON {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return datatypes.JSON(raw)
	}
	return datatypes.JSON(buf.Bytes())
}

func sameJSON(a datatypes.JSON, b json.RawMessage) bool {
	return bytes.Equal(JSONValue(json.RawMessage(a)), JSONValue(b))
}

// SectionModel builds the row inserted for a new section slot.
func SectionModel(courseID uuid.UUID, slot NewSectionSlot) *learning.Section {
	return &learning.Section{
		CourseID:    courseID,
		Title:       slot.Fields.Title,
		Description: slot.Fields.Description,
		Order:       slot.Order,
	}
}

// LectureModel builds the row inserted for a new lecture slot once its parent id is known.
func LectureModel(sectionID uuid.UUID, slot NewLectureSlot) *learning.Lecture {
	return &learning.Lecture{
		SectionID:       sectionID,
		Title:           slot.Fields.Title,
		Order:           slot.Order,
		Kind:            slot.Fields.Kind,
		VideoURL:        slot.Fields.VideoURL,
		DurationSeconds: slot.Fields.DurationSeconds,
		ArticleBody:     slot.Fields.ArticleBody,
		Quiz:            JSONValue(slot.Fields.Quiz),
	}
}

// CourseChanges returns the course columns that differ from f.
func CourseChanges(cur *learning.Course, f CourseFields) map[string]any {
	changes := map[string]any{}
	if cur == nil {
		return changes
	}
	if cur.Title != f.Title {
		changes["title"] = f.Title
	}
	if cur.Description != f.Description {
		changes["description"] = f.Description
	}
	if cur.PriceCents != f.PriceCents {
		changes["price_cents"] = f.PriceCents
	}
	if cur.Currency != currencyOrDefault(f.Currency) {
		changes["currency"] = currencyOrDefault(f.Currency)
	}
	if !sameJSON(cur.Metadata, f.Metadata) {
		changes["metadata"] = JSONValue(f.Metadata)
	}
	return changes
}

// CourseModel builds the row inserted for a new course with an empty tree.
func CourseModel(instructorID uuid.UUID, f CourseFields) *learning.Course {
	return &learning.Course{
		InstructorID: instructorID,
		Title:        f.Title,
		Description:  f.Description,
		PriceCents:   f.PriceCents,
		Currency:     currencyOrDefault(f.Currency),
		Metadata:     JSONValue(f.Metadata),
		Version:      1,
	}
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
