package learning

import "testing"

func TestStatusForPercentage(t *testing.T) {
	cases := []struct {
		in   float64
		want ProgressStatus
	}{
		{0, ProgressNotStarted},
		{0.01, ProgressActive},
		{50, ProgressActive},
		{99.99, ProgressActive},
		{100, ProgressCompleted},
	}
	for _, tc := range cases {
		if got := StatusForPercentage(tc.in); got != tc.want {
			t.Fatalf("StatusForPercentage(%v): want=%s got=%s", tc.in, tc.want, got)
		}
	}
}

func TestCourseLectureCount(t *testing.T) {
	var nilCourse *Course
	if nilCourse.LectureCount() != 0 {
		t.Fatalf("nil course should count 0")
	}
	c := &Course{Sections: []*Section{
		{Lectures: []*Lecture{{}, {}}},
		nil,
		{Lectures: []*Lecture{{}}},
		{},
	}}
	if got := c.LectureCount(); got != 3 {
		t.Fatalf("LectureCount: want=3 got=%d", got)
	}
}

func TestLectureKindValid(t *testing.T) {
	for _, k := range []LectureKind{LectureKindVideo, LectureKindArticle, LectureKindQuiz} {
		if !k.Valid() {
			t.Fatalf("expected %q valid", k)
		}
	}
	if LectureKind("podcast").Valid() {
		t.Fatalf("podcast should be invalid")
	}
}
