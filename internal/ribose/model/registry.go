package model

import "github.com/ribose-rt/ribose/internal/ribose/base"

// Registry is a stable byte-name -> small-integer ordinal map, used for the
// signal, field, effector, and transducer namespaces (spec.md §2). Ordinals
// are assigned in first-seen order, which is also the order names are
// serialized in the model's index block ("array position == ordinal").
type Registry struct {
	names   []string
	ordinal map[string]base.Ordinal
	base    base.Ordinal // first ordinal this registry hands out
}

// NewRegistry returns a registry that assigns ordinals starting at start,
// with any names already known (e.g. reserved or built-in names) seeded in
// order.
func NewRegistry(start base.Ordinal, seed ...string) *Registry {
	r := &Registry{ordinal: map[string]base.Ordinal{}, base: start}
	for i := base.Ordinal(0); i < start; i++ {
		r.names = append(r.names, "")
	}
	for _, name := range seed {
		r.Intern(name)
	}
	return r
}

// Intern returns the ordinal for name, assigning a new one if this is the
// first time name has been seen.
func (r *Registry) Intern(name string) base.Ordinal {
	if ord, ok := r.ordinal[name]; ok {
		return ord
	}
	ord := base.Ordinal(len(r.names))
	r.names = append(r.names, name)
	r.ordinal[name] = ord
	return ord
}

// Lookup returns the ordinal for an already-interned name.
func (r *Registry) Lookup(name string) (base.Ordinal, bool) {
	ord, ok := r.ordinal[name]
	return ord, ok
}

// Name returns the name at a given ordinal, or "" if out of range.
func (r *Registry) Name(ord base.Ordinal) string {
	if int(ord) < 0 || int(ord) >= len(r.names) {
		return ""
	}
	return r.names[ord]
}

// Names returns every interned name in ordinal order, starting from
// ordinal 0 (including any empty placeholder slots below base).
func (r *Registry) Names() []string {
	return r.names
}

// Len returns one past the highest assigned ordinal.
func (r *Registry) Len() int { return len(r.names) }
