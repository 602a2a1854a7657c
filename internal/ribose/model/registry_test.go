package model

import (
	"testing"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

func TestRegistryInternAssignsStableFirstSeenOrdinals(t *testing.T) {
	r := NewRegistry(0)
	a := r.Intern("alpha")
	b := r.Intern("beta")
	again := r.Intern("alpha")

	if a != 0 || b != 1 {
		t.Fatalf("Intern(alpha)=%d Intern(beta)=%d, want 0,1", a, b)
	}
	if again != a {
		t.Fatalf("re-Intern(alpha) = %d, want %d (stable)", again, a)
	}
}

func TestRegistryLookupAndName(t *testing.T) {
	r := NewRegistry(0)
	ord := r.Intern("gamma")

	got, ok := r.Lookup("gamma")
	if !ok || got != ord {
		t.Fatalf("Lookup(gamma) = (%d,%v), want (%d,true)", got, ok, ord)
	}
	if name := r.Name(ord); name != "gamma" {
		t.Fatalf("Name(%d) = %q, want \"gamma\"", ord, name)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) reported ok=true")
	}
	if name := r.Name(999); name != "" {
		t.Fatalf("Name(out of range) = %q, want \"\"", name)
	}
}

func TestRegistrySeedStartsOrdinalsAtBase(t *testing.T) {
	r := NewRegistry(base.SignalBase, "nul", "nil", "eos")

	nul, ok := r.Lookup("nul")
	if !ok || nul != base.SignalBase {
		t.Fatalf("Lookup(nul) = (%d,%v), want (%d,true)", nul, ok, base.SignalBase)
	}
	nilOrd, _ := r.Lookup("nil")
	if nilOrd != base.SignalBase+1 {
		t.Fatalf("Lookup(nil) = %d, want %d", nilOrd, base.SignalBase+1)
	}
	if r.Len() != int(base.SignalBase)+3 {
		t.Fatalf("Len() = %d, want %d", r.Len(), int(base.SignalBase)+3)
	}
	// Placeholder ordinals below base must render as empty names.
	if name := r.Name(0); name != "" {
		t.Fatalf("Name(0) = %q, want \"\" (reserved placeholder)", name)
	}
}

func TestRegistryNamesOrderMatchesOrdinals(t *testing.T) {
	r := NewRegistry(0, "one", "two", "three")
	names := r.Names()
	want := []string{"one", "two", "three"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i, w := range want {
		if names[i] != w {
			t.Fatalf("Names()[%d] = %q, want %q", i, names[i], w)
		}
	}
}
