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

type SectionRepo interface {
	Create(dbc dbctx.Context, sections []*types.Section) ([]*types.Section, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Section, error)
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Section, error)
	GetIDsByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error)
}

type sectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSectionRepo(db *gorm.DB, baseLog *logger.Logger) SectionRepo {
	return &sectionRepo{
		db:  db,
		log: baseLog.With("repo", "SectionRepo"),
	}
}

func (r *sectionRepo) Create(dbc dbctx.Context, sections []*types.Section) ([]*types.Section, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sections) == 0 {
		return []*types.Section{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Omit(clause.Associations).
		Create(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

func (r *sectionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Section, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Section
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

func (r *sectionRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Section, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Section
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id, position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) GetIDsByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]uuid.UUID, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []uuid.UUID
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Section{}).
		Where("course_id IN ?", courseIDs).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sectionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
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
		Model(&types.Section{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetPosition writes only the position column; used to park rows on a
// temporary slot while siblings are renumbered.
func (r *sectionRepo) SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Section{}).
		Where("id = ?", id).
		UpdateColumn("position", position).Error
}

func (r *sectionRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Delete(&types.Section{})
	return res.RowsAffected, res.Error
}

func (r *sectionRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(courseIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("course_id IN ?", courseIDs).
		Delete(&types.Section{})
	return res.RowsAffected, res.Error
}
