package curriculum

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

func TestLectureRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewLectureRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, uuid.Nil, 2, 1)
	other := testutil.SeedCourse(t, ctx, tx, uuid.Nil, 1)
	s1 := c.Sections[0]

	created, err := repo.Create(dbc, []*types.Lecture{{
		SectionID: s1.ID,
		Title:     "quiz",
		Order:     3,
		Kind:      types.LectureKindQuiz,
	}})
	if err != nil || len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: err=%v", err)
	}

	if rows, err := repo.GetBySectionIDs(dbc, []uuid.UUID{s1.ID}); err != nil || len(rows) != 3 || rows[2].Title != "quiz" {
		t.Fatalf("GetBySectionIDs: err=%v len=%d", err, len(rows))
	}

	refs, err := repo.GetRefsByCourseID(dbc, c.ID)
	if err != nil || len(refs) != 4 {
		t.Fatalf("GetRefsByCourseID: err=%v len=%d", err, len(refs))
	}
	if refs[3].SectionID != c.Sections[1].ID || refs[3].SectionPosition != 2 {
		t.Fatalf("refs should be ordered by section then lecture: %+v", refs[3])
	}

	if ok, err := repo.ExistsInCourse(dbc, c.ID, created[0].ID); err != nil || !ok {
		t.Fatalf("ExistsInCourse: err=%v ok=%v", err, ok)
	}
	if ok, err := repo.ExistsInCourse(dbc, other.ID, created[0].ID); err != nil || ok {
		t.Fatalf("ExistsInCourse other course: err=%v ok=%v", err, ok)
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{"duration_seconds": 90}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if rows, _ := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID}); len(rows) != 1 || rows[0].DurationSeconds != 90 {
		t.Fatalf("after UpdateFields: %+v", rows)
	}

	if n, err := repo.FullDeleteByIDs(dbc, []uuid.UUID{created[0].ID}); err != nil || n != 1 {
		t.Fatalf("FullDeleteByIDs: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteBySectionIDs(dbc, []uuid.UUID{s1.ID}); err != nil || n != 2 {
		t.Fatalf("FullDeleteBySectionIDs: err=%v n=%d", err, n)
	}
	if refs, _ := repo.GetRefsByCourseID(dbc, c.ID); len(refs) != 1 {
		t.Fatalf("remaining refs=%d", len(refs))
	}
}
