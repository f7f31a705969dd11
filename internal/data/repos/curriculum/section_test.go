package curriculum

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-curriculum/internal/domain"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/dbctx"
)

func TestSectionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSectionRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, uuid.Nil)
	created, err := repo.Create(dbc, []*types.Section{
		{CourseID: c.ID, Title: "a", Order: 1},
		{CourseID: c.ID, Title: "b", Order: 2},
	})
	if err != nil || len(created) != 2 {
		t.Fatalf("Create: err=%v len=%d", err, len(created))
	}
	for _, s := range created {
		if s.ID == uuid.Nil {
			t.Fatalf("Create should assign ids")
		}
	}

	if _, err := repo.Create(dbc, []*types.Section{{CourseID: c.ID, Title: "dup", Order: 1}}); err == nil {
		t.Fatalf("expected unique (course_id, position) violation")
	}
}

func TestSectionRepoQueriesAndDeletes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewSectionRepo(db, testutil.Logger(t))

	c := testutil.SeedCourse(t, ctx, tx, uuid.Nil, 1, 1, 1)

	if rows, err := repo.GetByCourseIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(rows) != 3 || rows[0].Order != 1 {
		t.Fatalf("GetByCourseIDs: err=%v len=%d", err, len(rows))
	}
	if ids, err := repo.GetIDsByCourseIDs(dbc, []uuid.UUID{c.ID}); err != nil || len(ids) != 3 {
		t.Fatalf("GetIDsByCourseIDs: err=%v len=%d", err, len(ids))
	}
	if err := repo.UpdateFields(dbc, c.Sections[0].ID, map[string]interface{}{"title": "first"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if rows, _ := repo.GetByIDs(dbc, []uuid.UUID{c.Sections[0].ID}); len(rows) != 1 || rows[0].Title != "first" {
		t.Fatalf("after UpdateFields: %+v", rows)
	}

	if n, err := repo.FullDeleteByIDs(dbc, []uuid.UUID{c.Sections[0].ID}); err != nil || n != 1 {
		t.Fatalf("FullDeleteByIDs: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteByCourseIDs(dbc, []uuid.UUID{c.ID}); err != nil || n != 2 {
		t.Fatalf("FullDeleteByCourseIDs: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteByIDs(dbc, nil); err != nil || n != 0 {
		t.Fatalf("FullDeleteByIDs(nil): err=%v n=%d", err, n)
	}
}
