package envutil

import (
	"reflect"
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("CURRICULUM_TEST_INT", "42")
	if got := Int("CURRICULUM_TEST_INT", 1); got != 42 {
		t.Fatalf("want=42 got=%d", got)
	}
	t.Setenv("CURRICULUM_TEST_INT", "nope")
	if got := Int("CURRICULUM_TEST_INT", 7); got != 7 {
		t.Fatalf("invalid value should fall back, got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("CURRICULUM_TEST_BOOL", "yes")
	if !Bool("CURRICULUM_TEST_BOOL", false) {
		t.Fatalf("yes should parse as true")
	}
	t.Setenv("CURRICULUM_TEST_BOOL", "off")
	if Bool("CURRICULUM_TEST_BOOL", true) {
		t.Fatalf("off should parse as false")
	}
	t.Setenv("CURRICULUM_TEST_BOOL", "maybe")
	if !Bool("CURRICULUM_TEST_BOOL", true) {
		t.Fatalf("unknown value should fall back")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("CURRICULUM_TEST_DUR", "250ms")
	if got := Duration("CURRICULUM_TEST_DUR", time.Second); got != 250*time.Millisecond {
		t.Fatalf("want=250ms got=%s", got)
	}
	t.Setenv("CURRICULUM_TEST_DUR", "3")
	if got := Duration("CURRICULUM_TEST_DUR", time.Second); got != 3*time.Second {
		t.Fatalf("bare int should be seconds, got=%s", got)
	}
}

func TestList(t *testing.T) {
	t.Setenv("CURRICULUM_TEST_LIST", " a, ,b ,c")
	if got := List("CURRICULUM_TEST_LIST", nil); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected list: %#v", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("CURRICULUM_TEST_FLOAT", "0.25")
	if got := Float("CURRICULUM_TEST_FLOAT", 1); got != 0.25 {
		t.Fatalf("want=0.25 got=%v", got)
	}
	t.Setenv("CURRICULUM_TEST_FLOAT", "nope")
	if got := Float("CURRICULUM_TEST_FLOAT", 1); got != 1 {
		t.Fatalf("invalid value should fall back, got=%v", got)
	}
}
