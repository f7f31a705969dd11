// Package outline turns a spreadsheet course outline into section drafts that
// can be submitted as a brand-new course tree.
//
// One row per lecture, columns in this order:
//
//	Section | Lecture | Kind | VideoURL | DurationSeconds | ArticleBody
//
// Rows sharing a section title land in the same section, in first-seen order.
// A row with a section title and no lecture title creates an empty section.
package outline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
)

const (
	colSection = iota
	colLecture
	colKind
	colVideoURL
	colDuration
	colArticle
)

type Config struct {
	// SheetName defaults to the first sheet of the workbook.
	SheetName string
	// StartRow is 1-based; the default of 2 skips a header row.
	StartRow int
}

func DefaultConfig() Config {
	return Config{StartRow: 2}
}

type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

type Result struct {
	Sections []contenttree.SectionDraft
	Lectures int
	Skipped  []RowError
}

// ParseFile reads an .xlsx workbook, or a .csv file with the same columns.
func ParseFile(path string, cfg Config) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open outline: %w", err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return ParseCSV(f, cfg)
	}
	return ParseXLSX(f, cfg)
}

func ParseXLSX(r io.Reader, cfg Config) (*Result, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	defer wb.Close()

	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return build(rows, cfg), nil
}

func ParseCSV(r io.Reader, cfg Config) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return build(rows, cfg), nil
}

func build(rows [][]string, cfg Config) *Result {
	start := cfg.StartRow
	if start <= 0 {
		start = 1
	}
	out := &Result{}
	sectionIdx := map[string]int{}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start || blank(row) {
			continue
		}
		sectionTitle := cell(row, colSection)
		if sectionTitle == "" {
			out.Skipped = append(out.Skipped, RowError{Row: rowNum, Err: fmt.Errorf("section title is empty")})
			continue
		}
		idx, ok := sectionIdx[sectionTitle]
		if !ok {
			idx = len(out.Sections)
			sectionIdx[sectionTitle] = idx
			out.Sections = append(out.Sections, contenttree.SectionDraft{Title: sectionTitle})
		}

		if cell(row, colLecture) == "" {
			continue
		}
		lec, err := lectureFromRow(row)
		if err != nil {
			out.Skipped = append(out.Skipped, RowError{Row: rowNum, Err: err})
			continue
		}
		out.Sections[idx].Lectures = append(out.Sections[idx].Lectures, lec)
		out.Lectures++
	}
	return out
}

func lectureFromRow(row []string) (contenttree.LectureDraft, error) {
	kind := learning.LectureKind(strings.ToLower(cell(row, colKind)))
	if kind == "" {
		kind = learning.LectureKindVideo
	}
	if !kind.Valid() {
		return contenttree.LectureDraft{}, fmt.Errorf("unknown lecture kind %q", kind)
	}
	duration := 0
	if raw := cell(row, colDuration); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 {
			return contenttree.LectureDraft{}, fmt.Errorf("invalid duration %q", raw)
		}
		duration = d
	}
	return contenttree.LectureDraft{
		Title:           cell(row, colLecture),
		Kind:            kind,
		VideoURL:        cell(row, colVideoURL),
		DurationSeconds: duration,
		ArticleBody:     cell(row, colArticle),
	}, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
