package contenttree

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-curriculum/internal/domain/learning"
)

// Issue is one structural problem found in a submission.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError lists every structural issue of a submission.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid submission"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return "invalid submission: " + strings.Join(parts, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("lecture_kind", func(fl validator.FieldLevel) bool {
			return learning.LectureKind(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("raw_json", func(fl validator.FieldLevel) bool {
			raw, ok := fl.Field().Interface().(json.RawMessage)
			if !ok {
				return false
			}
			var probe any
			return json.Unmarshal(raw, &probe) == nil
		})
		validate = v
	})
	return validate
}

// Validate checks a submission for structural problems without touching
// persisted state. Reference checks (does an id belong to this course) happen
// in BuildPlan.
func Validate(sub Submission) error {
	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	seenSections := map[uuid.UUID]string{}
	seenLectures := map[uuid.UUID]string{}

	for i, sec := range sub.Sections {
		sp := fmt.Sprintf("sections[%d]", i)
		switch s := sec.(type) {
		case ExistingSection:
			if s.ID == uuid.Nil {
				add(sp+".id", "must not be the nil uuid")
			} else if prev, dup := seenSections[s.ID]; dup {
				add(sp+".id", "duplicates %s", prev)
			} else {
				seenSections[s.ID] = sp
			}
		case NewSection:
		case nil:
			add(sp, "section is null")
			continue
		default:
			add(sp, "unsupported section node %T", sec)
			continue
		}
		issues = append(issues, fieldIssues(sp, sec.SectionFields())...)

		for j, lec := range sec.LectureNodes() {
			lp := fmt.Sprintf("%s.lectures[%d]", sp, j)
			switch l := lec.(type) {
			case ExistingLecture:
				if l.ID == uuid.Nil {
					add(lp+".id", "must not be the nil uuid")
				} else if prev, dup := seenLectures[l.ID]; dup {
					add(lp+".id", "duplicates %s", prev)
				} else {
					seenLectures[l.ID] = lp
				}
			case NewLecture:
			case nil:
				add(lp, "lecture is null")
				continue
			default:
				add(lp, "unsupported lecture node %T", lec)
				continue
			}
			issues = append(issues, fieldIssues(lp, lec.LectureFields())...)
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateCourseFields validates course scalar fields.
func ValidateCourseFields(f CourseFields) error {
	if issues := fieldIssues("course", f); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

// ValidateSectionFields validates a single section field set.
func ValidateSectionFields(f SectionFields) error {
	if issues := fieldIssues("section", f); len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

func fieldIssues(prefix string, fields any) []Issue {
	err := fieldValidator().Struct(fields)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []Issue{{Path: prefix, Message: err.Error()}}
	}
	out := make([]Issue, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, Issue{
			Path:    prefix + "." + fe.Field(),
			Message: describe(fe),
		})
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "exceeds max length " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "url":
		return "must be a valid url"
	case "lecture_kind":
		return fmt.Sprintf("unknown lecture kind %q", fe.Value())
	case "raw_json":
		return "must be valid json"
	default:
		return "failed " + fe.Tag()
	}
}
