package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{&Error{Code: CodeNotFound, Op: "learning.course.reconcile", Message: "course missing"}, "learning.course.reconcile: course missing (not_found)"},
		{&Error{Code: CodeConflict, Op: "op"}, "op (conflict)"},
		{&Error{Code: CodePersistence, Message: "disk"}, "disk (persistence)"},
		{&Error{Code: CodeInternal}, "internal"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil error formatting")
	}
}

func TestCodeOfThroughWrapping(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("service: %w", Wrap(CodePersistence, "op", base))
	if !IsCode(err, CodePersistence) {
		t.Fatalf("expected persistence code through fmt wrapping")
	}
	if CodeOf(err) != CodePersistence {
		t.Fatalf("CodeOf: %q", CodeOf(err))
	}
	if !errors.Is(err, base) {
		t.Fatalf("cause should be reachable via errors.Is")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) should be nil")
	}
	if CodeOf(base) != "" {
		t.Fatalf("plain error should have no code")
	}
}

func TestContractsRequireAggregateOwnedTx(t *testing.T) {
	for _, c := range []Contract{CourseContentAggregateContract, ProgressAggregateContract} {
		if !c.RequiresAggregateOwnedTx() {
			t.Fatalf("%s should own its write transactions", c.Name)
		}
	}
}
