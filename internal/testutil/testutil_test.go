package testutil

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

// recorder captures fatal calls instead of stopping the test.
type recorder struct {
	dir    string
	failed bool
	msg    string
}

func (r *recorder) Helper() {}
func (r *recorder) Fatal(args ...any) {
	r.failed = true
	r.msg = fmt.Sprint(args...)
}
func (r *recorder) Fatalf(format string, args ...any) {
	r.failed = true
	r.msg = fmt.Sprintf(format, args...)
}
func (r *recorder) TempDir() string { return r.dir }

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	AssertNoError(r, nil)
	if r.failed {
		t.Fatal("nil error should pass")
	}

	AssertNoError(r, errors.New("boom"))
	if !r.failed || r.msg != "unexpected error: boom" {
		t.Fatalf("got failed=%v msg=%q", r.failed, r.msg)
	}
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	r := &recorder{}
	AssertError(r, errors.New("test error"))
	if r.failed {
		t.Fatal("non-nil error should pass")
	}

	AssertError(r, nil)
	if !r.failed {
		t.Fatal("expected failure when error is nil")
	}
}

func TestAssertErrorIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	r := &recorder{}
	AssertErrorIs(r, fmt.Errorf("wrapped: %w", sentinel), sentinel)
	if r.failed {
		t.Fatal("wrapped sentinel should pass")
	}

	AssertErrorIs(r, errors.New("other"), sentinel)
	if !r.failed {
		t.Fatal("expected failure for unrelated error")
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	path := WriteFile(t, "a.json", `{"workers":2}`)
	data, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(data) != `{"workers":2}` {
		t.Errorf("contents = %q", data)
	}

	r := &recorder{dir: "/nonexistent/dir"}
	WriteFile(r, "b.json", "{}")
	if !r.failed {
		t.Fatal("expected failure writing into a missing directory")
	}
}
