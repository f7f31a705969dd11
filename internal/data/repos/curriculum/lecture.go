package curriculum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/logger"
)

// LectureRef is a lecture joined with its section, enough to place it in a course.
type LectureRef struct {
	ID              uuid.UUID `gorm:"column:id"`
	SectionID       uuid.UUID `gorm:"column:section_id"`
	Title           string    `gorm:"column:title"`
	Position        int       `gorm:"column:position"`
	SectionTitle    string    `gorm:"column:section_title"`
	SectionPosition int       `gorm:"column:section_position"`
}

type LectureRepo interface {
	Create(dbc dbctx.Context, lectures []*types.Lecture) ([]*types.Lecture, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lecture, error)
	GetBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Lecture, error)
	// GetRefsByCourseID lists every current lecture of a course in display order.
	GetRefsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]LectureRef, error)
	ExistsInCourse(dbc dbctx.Context, courseID uuid.UUID, lectureID uuid.UUID) (bool, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	FullDeleteBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) (int64, error)
}

type lectureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLectureRepo(db *gorm.DB, baseLog *logger.Logger) LectureRepo {
	return &lectureRepo{
		db:  db,
		log: baseLog.With("repo", "LectureRepo"),
	}
}

func (r *lectureRepo) Create(dbc dbctx.Context, lectures []*types.Lecture) ([]*types.Lecture, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lectures) == 0 {
		return []*types.Lecture{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Create(&lectures).Error; err != nil {
		return nil, err
	}
	return lectures, nil
}

func (r *lectureRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Lecture, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Lecture
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lectureRepo) GetBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) ([]*types.Lecture, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Lecture
	if len(sectionIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("section_id IN ?", sectionIDs).
		Order("section_id, position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lectureRepo) GetRefsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]LectureRef, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []LectureRef
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Table("course_lecture AS l").
		Select("l.id, l.section_id, l.title, l.position, s.title AS section_title, s.position AS section_position").
		Joins("JOIN course_section AS s ON s.id = l.section_id").
		Where("s.course_id = ?", courseID).
		Order("s.position ASC, l.position ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lectureRepo) ExistsInCourse(dbc dbctx.Context, courseID uuid.UUID, lectureID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if courseID == uuid.Nil || lectureID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Table("course_lecture AS l").
		Joins("JOIN course_section AS s ON s.id = l.section_id").
		Where("l.id = ? AND s.course_id = ?", lectureID, courseID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *lectureRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Lecture{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *lectureRepo) SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Lecture{}).
		Where("id = ?", id).
		UpdateColumn("position", position).Error
}

func (r *lectureRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Lecture{})
	return res.RowsAffected, res.Error
}

func (r *lectureRepo) FullDeleteBySectionIDs(dbc dbctx.Context, sectionIDs []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sectionIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("section_id IN ?", sectionIDs).
		Delete(&types.Lecture{})
	return res.RowsAffected, res.Error
}
