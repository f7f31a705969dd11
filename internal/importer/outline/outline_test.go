package outline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("set row %d: %v", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParseXLSXGroupsBySection(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Section", "Lecture", "Kind", "VideoURL", "DurationSeconds", "ArticleBody"},
		{"Intro", "Welcome", "video", "https://cdn.example.com/w.mp4", 90, ""},
		{"Basics", "Syntax", "article", "", "", "Read me"},
		{"Intro", "Setup", "", "https://cdn.example.com/s.mp4", 300, ""},
		{"Wrap-up", "", "", "", "", ""},
	})

	res, err := ParseXLSX(buf, DefaultConfig())
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if len(res.Skipped) != 0 {
		t.Fatalf("unexpected skipped rows: %v", res.Skipped)
	}
	if len(res.Sections) != 3 || res.Lectures != 3 {
		t.Fatalf("sections=%d lectures=%d", len(res.Sections), res.Lectures)
	}
	intro := res.Sections[0]
	if intro.Title != "Intro" || len(intro.Lectures) != 2 {
		t.Fatalf("intro: %+v", intro)
	}
	if intro.Lectures[1].Title != "Setup" || intro.Lectures[1].Kind != learning.LectureKindVideo || intro.Lectures[1].DurationSeconds != 300 {
		t.Fatalf("setup lecture: %+v", intro.Lectures[1])
	}
	if res.Sections[1].Lectures[0].ArticleBody != "Read me" {
		t.Fatalf("article body: %+v", res.Sections[1].Lectures[0])
	}
	if len(res.Sections[2].Lectures) != 0 {
		t.Fatalf("wrap-up should be empty: %+v", res.Sections[2])
	}

	// Every draft is new, so the outline validates as a fresh tree.
	if err := contenttree.Validate(contenttree.FromDrafts(res.Sections)); err != nil {
		t.Fatalf("outline should validate: %v", err)
	}
}

func TestParseSkipsBadRows(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Section", "Lecture", "Kind", "VideoURL", "DurationSeconds"},
		{"", "Orphan", "video"},
		{"A", "Podcast", "podcast"},
		{"A", "Long", "video", "", "forever"},
		{"A", "Fine", "quiz"},
	})
	res, err := ParseXLSX(buf, DefaultConfig())
	if err != nil {
		t.Fatalf("ParseXLSX: %v", err)
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("skipped: want=3 got=%v", res.Skipped)
	}
	if res.Skipped[0].Row != 2 || !strings.Contains(res.Skipped[1].Error(), "podcast") {
		t.Fatalf("unexpected skipped rows: %v", res.Skipped)
	}
	if res.Lectures != 1 || res.Sections[0].Lectures[0].Kind != learning.LectureKindQuiz {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestParseCSV(t *testing.T) {
	in := "Section,Lecture,Kind,VideoURL,DurationSeconds,ArticleBody\n" +
		"One,First,video,https://cdn.example.com/1.mp4,60,\n" +
		"\n" +
		"Two,Second,article,,,\"body, with comma\"\n"
	res, err := ParseCSV(strings.NewReader(in), DefaultConfig())
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(res.Sections) != 2 || res.Sections[1].Lectures[0].ArticleBody != "body, with comma" {
		t.Fatalf("unexpected result: %+v", res.Sections)
	}
}
