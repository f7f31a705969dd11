package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/app"
	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning/contenttree"
	"github.com/yungbote/neurobridge-curriculum/internal/importer/outline"
	"github.com/yungbote/neurobridge-curriculum/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-curriculum/internal/services"
)

func main() {
	var (
		file       string
		sheet      string
		instructor string
		title      string
		priceCents int64
		dryRun     bool
	)
	flag.StringVar(&file, "file", "", "outline .xlsx or .csv file")
	flag.StringVar(&sheet, "sheet", "", "sheet name (defaults to the first sheet)")
	flag.StringVar(&instructor, "instructor", "", "instructor user id owning the new course")
	flag.StringVar(&title, "title", "", "course title")
	flag.Int64Var(&priceCents, "price-cents", 0, "course price in cents")
	flag.BoolVar(&dryRun, "dry-run", false, "parse and validate without writing")
	flag.Parse()

	if strings.TrimSpace(file) == "" || strings.TrimSpace(title) == "" {
		fmt.Println("usage: import_outline -file outline.xlsx -title \"Course\" -instructor <uuid>")
		os.Exit(2)
	}
	instructorID, err := uuid.Parse(strings.TrimSpace(instructor))
	if err != nil && !dryRun {
		fmt.Printf("invalid -instructor: %v\n", err)
		os.Exit(2)
	}

	cfg := outline.DefaultConfig()
	cfg.SheetName = sheet
	res, err := outline.ParseFile(file, cfg)
	if err != nil {
		fmt.Printf("parse outline: %v\n", err)
		os.Exit(1)
	}
	for _, rowErr := range res.Skipped {
		fmt.Printf("skipped %v\n", rowErr)
	}
	fmt.Printf("parsed %d sections, %d lectures\n", len(res.Sections), res.Lectures)

	if dryRun {
		if err := contenttree.Validate(contenttree.FromDrafts(res.Sections)); err != nil {
			fmt.Printf("outline invalid: %v\n", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()
	application, err := app.New(ctx)
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx = ctxutil.WithRequestData(ctx, &ctxutil.RequestData{UserID: instructorID})
	out, err := application.Services.CourseContent.CreateCourse(ctx, services.CreateCourseRequest{
		Course:   contenttree.CourseFields{Title: title, PriceCents: priceCents},
		Sections: res.Sections,
	})
	if err != nil {
		fmt.Printf("create course: %v\n", err)
		application.Close()
		os.Exit(1)
	}
	fmt.Printf("created course %s (%d sections, %d lectures)\n",
		out.Course.ID, out.Stats.SectionsInserted, out.Stats.LecturesInserted)
}
