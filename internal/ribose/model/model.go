// Package model implements the model file format (spec.md §3 "Model
// file", §6 "Model file (binary)"): the on-disk container that carries
// compiled transducers, name maps, and effector parameter payloads between
// the compiler and the runtime.
package model

import (
	"os"

	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// CurrentVersion and PreviousVersion are the model-format versions a loader
// accepts (spec.md §3 invariant: "refuses the model if ... the version is
// not current/previous").
const (
	CurrentVersion  = "ribose-2"
	PreviousVersion = "ribose-1"
)

// Builder accumulates transducer records and the four ordinal registries
// while the compiler runs, then writes a complete model file in one pass
// (spec.md §3 Lifecycle: "created by compiler in read/write mode, finalized
// by rewriting the preamble").
type Builder struct {
	TargetClassName string
	Signals         *Registry
	Fields          *Registry
	Effectors       *Registry
	Transducers     *Registry

	records []*base.TransducerRecord
	params  [][][]base.Token // indexed by effector ordinal
}

// NewBuilder returns a Builder with the built-in signal and effector names
// pre-seeded at their reserved ordinals.
func NewBuilder(targetClassName string) *Builder {
	return &Builder{
		TargetClassName: targetClassName,
		Signals:         NewRegistry(base.SignalBase, "nul", "nil", "eos"),
		Fields:          NewRegistry(0, "", "*all*"),
		Effectors:       NewRegistry(0, base.BuiltinEffectorNames...),
		Transducers:     NewRegistry(0),
	}
}

// AddRecord appends a compiled transducer record, interning its name in the
// transducer registry.
func (b *Builder) AddRecord(rec *base.TransducerRecord) {
	b.Transducers.Intern(rec.Name)
	b.records = append(b.records, rec)
}

// SetEffectorParams installs the interned parameter-token arrays for one
// effector ordinal.
func (b *Builder) SetEffectorParams(effector base.Ordinal, params [][]base.Token) {
	for len(b.params) <= int(effector) {
		b.params = append(b.params, nil)
	}
	b.params[effector] = params
}

// Write serializes the complete model file to path: preamble, transducer
// bodies, index block, then a final preamble patch with the real index
// offset.
func (b *Builder) Write(path string) error {
	w := NewWriter()
	w.I64(0) // indexOffset placeholder, patched below
	w.String(CurrentVersion)
	w.String(b.TargetClassName)

	offsets := make([]int64, len(b.records))
	for i, rec := range b.records {
		offsets[i] = w.Offset()
		EncodeRecord(w, rec)
	}

	indexOffset := w.Offset()
	b.writeIndex(w, offsets)

	buf := w.Bytes()
	// Patch the index offset now that the body length is known.
	patchI64(buf, 0, indexOffset)

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return rterr.Wrap(rterr.KindModel, err, "model: write "+path)
	}
	return nil
}

func patchI64(buf []byte, at int, v int64) {
	for i := 0; i < 8; i++ {
		buf[at+7-i] = byte(v >> (8 * i))
	}
}

func (b *Builder) writeIndex(w *Writer, offsets []int64) {
	writeRegistry(w, b.Signals)
	writeRegistry(w, b.Fields)
	writeRegistry(w, b.Effectors)
	writeRegistry(w, b.Transducers)

	w.I32(int32(len(b.records)))
	for i, rec := range b.records {
		w.String(rec.Name)
		w.I64(offsets[i])
	}

	encodeEffectorParams(w, b.params)
}

func writeRegistry(w *Writer, r *Registry) {
	names := r.Names()
	w.I32(int32(len(names)))
	for _, n := range names {
		w.String(n)
	}
}

func readRegistry(r *Reader) (*Registry, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	reg := &Registry{ordinal: map[string]base.Ordinal{}}
	reg.names = make([]string, n)
	for i := int32(0); i < n; i++ {
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		reg.names[i] = name
		if name != "" {
			reg.ordinal[name] = base.Ordinal(i)
		}
	}
	return reg, nil
}

// Model is the read-only, loaded view of a model file: its ordinal
// registries and per-transducer index, with transducer bodies loaded
// lazily (see Loader).
type Model struct {
	Version         string
	TargetClassName string
	Signals         *Registry
	Fields          *Registry
	Effectors       *Registry
	Transducers     *Registry
	Params          [][][]base.Token

	loader *Loader
}

// Open loads and validates the preamble and index block of a model file,
// binding it to hostTargetClassName (spec.md §3: "Loading refuses the
// model if the stored target name differs from the host's target class
// name or the version is not current/previous").
func Open(path string, hostTargetClassName string) (*Model, error) {
	l, err := newLoader(path)
	if err != nil {
		return nil, err
	}

	r := NewReader(l.mapped)
	indexOffset, err := r.I64()
	if err != nil {
		return nil, rterr.Wrap(rterr.KindModel, err, "model: read preamble")
	}
	version, err := r.String()
	if err != nil {
		return nil, rterr.Wrap(rterr.KindModel, err, "model: read version")
	}
	if version != CurrentVersion && version != PreviousVersion {
		return nil, rterr.Newf(rterr.KindModel, "model: unsupported version %q", version)
	}
	targetClass, err := r.String()
	if err != nil {
		return nil, rterr.Wrap(rterr.KindModel, err, "model: read target class")
	}
	if targetClass != hostTargetClassName {
		return nil, rterr.Newf(rterr.KindModel, "model: target mismatch: model wants %q, host is %q", targetClass, hostTargetClassName)
	}

	r.Seek(indexOffset)
	signals, err := readRegistry(r)
	if err != nil {
		return nil, errors.Wrap(err, "model: signal map")
	}
	fields, err := readRegistry(r)
	if err != nil {
		return nil, errors.Wrap(err, "model: field map")
	}
	effectors, err := readRegistry(r)
	if err != nil {
		return nil, errors.Wrap(err, "model: effector map")
	}
	transducers, err := readRegistry(r)
	if err != nil {
		return nil, errors.Wrap(err, "model: transducer map")
	}

	count, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: transducer index count")
	}
	offsets := make(map[string]int64, count)
	for i := int32(0); i < count; i++ {
		name, err := r.String()
		if err != nil {
			return nil, err
		}
		off, err := r.I64()
		if err != nil {
			return nil, err
		}
		offsets[name] = off
	}

	params, err := decodeEffectorParams(r)
	if err != nil {
		return nil, errors.Wrap(err, "model: effector parameters")
	}

	l.initLatches(offsets)

	return &Model{
		Version: version, TargetClassName: targetClass,
		Signals: signals, Fields: fields, Effectors: effectors, Transducers: transducers,
		Params: params, loader: l,
	}, nil
}

// Close releases the model's underlying file mapping.
func (m *Model) Close() error { return m.loader.close() }

// Transducer lazily loads and returns the named transducer record,
// per spec.md §3 Lifecycle ("lazily loaded on first reference via an
// atomic 3-state latch per ordinal").
func (m *Model) Transducer(name string) (*base.TransducerRecord, error) {
	ord, ok := m.Transducers.Lookup(name)
	if !ok {
		return nil, rterr.Newf(rterr.KindModel, "model: unknown transducer %q", name)
	}
	return m.loader.load(int(ord), name)
}
