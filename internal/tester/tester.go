package tester

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func message(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	if format, ok := msgAndArgs[0].(string); ok && len(msgAndArgs) > 1 {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs[0])
}

// Eq asserts that got == want using reflect.DeepEqual for non-comparable types.
func Eq[T any](t *testing.T, got, want T, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		if m := message(msgAndArgs); m != "" {
			t.Fatalf("%s: got=%v want=%v", m, got, want)
		}
		t.Fatalf("got=%v want=%v", got, want)
	}
}

// True asserts that cond is true.
func True(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if !cond {
		if m := message(msgAndArgs); m != "" {
			t.Fatal(m)
		}
		t.Fatalf("expected condition to be true")
	}
}

// False asserts that cond is false.
func False(t *testing.T, cond bool, msgAndArgs ...any) {
	t.Helper()
	if cond {
		if m := message(msgAndArgs); m != "" {
			t.Fatal(m)
		}
		t.Fatalf("expected condition to be false")
	}
}

// NoErr asserts that err is nil.
func NoErr(t *testing.T, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		if m := message(msgAndArgs); m != "" {
			t.Fatalf("%s: %v", m, err)
		}
		t.Fatalf("unexpected error: %v", err)
	}
}

// Contains asserts that s contains sub.
func Contains(t *testing.T, s, sub string, msgAndArgs ...any) {
	t.Helper()
	if !strings.Contains(s, sub) {
		if m := message(msgAndArgs); m != "" {
			t.Fatalf("%s: %q does not contain %q", m, s, sub)
		}
		t.Fatalf("%q does not contain %q", s, sub)
	}
}
