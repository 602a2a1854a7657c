package rterr

import (
	"errors"
	"testing"
)

func TestErrorStringIncludesKindAndMessage(t *testing.T) {
	err := New(KindEffector, "bad parameter")
	got := err.Error()
	if got != "EffectorError: bad parameter" {
		t.Fatalf("Error() = %q, want %q", got, "EffectorError: bad parameter")
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindModel, cause, "write model")
	got := err.Error()
	if got != "ModelError: write model (caused by: disk full)" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindCompilation, cause, "compile failed")
	if errors.Unwrap(err) != cause {
		t.Fatalf("Unwrap() did not return the wrapped cause")
	}
}

func TestIsMatchesSameKindOnly(t *testing.T) {
	a := New(KindDomain, "first")
	b := New(KindDomain, "second")
	c := New(KindModel, "third")

	if !errors.Is(a, b) {
		t.Fatalf("errors.Is(a,b) = false, want true for same Kind")
	}
	if errors.Is(a, c) {
		t.Fatalf("errors.Is(a,c) = true, want false for different Kind")
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(KindTargetBinding, "effector %q missing", "scan")
	if err.Message != `effector "scan" missing` {
		t.Fatalf("Message = %q", err.Message)
	}
}

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		KindModel:         "ModelError",
		KindCompilation:   "CompilationError",
		KindEffector:      "EffectorError",
		KindDomain:        "DomainError",
		KindTargetBinding: "TargetBindingError",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
