package runtime

import (
	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// transducerFrame is one frame of the transducer stack (spec.md §4.6).
type transducerFrame struct {
	record    *base.TransducerRecord
	state     int
	countdown int
	signal    base.Ordinal
	selected  base.Ordinal
	fieldBase int
	numFields int
}

// TransducerStack is the growable stack of transducer frames, with field
// buffers held in one flat pool shared across frames (spec.md §4.6): each
// frame owns a contiguous run of field slots sized to its transducer's
// field count.
type TransducerStack struct {
	frames []*transducerFrame
	fields [][]byte
}

// NewTransducerStack returns an empty transducer stack.
func NewTransducerStack() *TransducerStack { return &TransducerStack{} }

// Push allocates a fresh field-slot run for rec and pushes a new frame
// selecting the anonymous field, entry state 0 (this implementation's
// dead-state-elimination convention, see compile.Assembler).
func (s *TransducerStack) Push(rec *base.TransducerRecord) {
	base0 := len(s.fields)
	for i := 0; i < rec.NumFields; i++ {
		s.fields = append(s.fields, nil)
	}
	s.frames = append(s.frames, &transducerFrame{
		record: rec, state: 0, selected: base.AnonymousField,
		fieldBase: base0, numFields: rec.NumFields,
	})
}

// Pop releases the top frame's field-slot run.
func (s *TransducerStack) Pop() (last bool) {
	if len(s.frames) == 0 {
		return true
	}
	top := s.frames[len(s.frames)-1]
	s.fields = s.fields[:top.fieldBase]
	s.frames = s.frames[:len(s.frames)-1]
	return len(s.frames) == 0
}

// Empty reports whether the stack has no frames.
func (s *TransducerStack) Empty() bool { return len(s.frames) == 0 }

// Snapshot renders every live frame as an rterr.StackFrame, innermost last,
// for a DomainError diagnostic.
func (s *TransducerStack) Snapshot() []rterr.StackFrame {
	out := make([]rterr.StackFrame, len(s.frames))
	for i, f := range s.frames {
		out[i] = rterr.StackFrame{Transducer: f.record.Name, State: f.state}
	}
	return out
}

// top returns the current (innermost) frame, or nil if the stack is empty.
func (s *TransducerStack) top() *transducerFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

func (s *TransducerStack) fieldIndex(f *transducerFrame, ordinal base.Ordinal) int {
	return f.fieldBase + int(ordinal)
}

// Field returns the current contents of a field in the top frame.
func (s *TransducerStack) Field(ordinal base.Ordinal) []byte {
	f := s.top()
	if f == nil {
		return nil
	}
	return s.fields[s.fieldIndex(f, ordinal)]
}

// AppendToSelected appends b to the top frame's selected field.
func (s *TransducerStack) AppendToSelected(b []byte) {
	f := s.top()
	if f == nil {
		return
	}
	i := s.fieldIndex(f, f.selected)
	s.fields[i] = append(s.fields[i], b...)
}

// Select switches the top frame's append target.
func (s *TransducerStack) Select(ordinal base.Ordinal) {
	if f := s.top(); f != nil {
		f.selected = ordinal
	}
}

// ClearField zeros one field slot, or every slot in the top frame when
// ordinal == base.AllFields.
func (s *TransducerStack) ClearField(ordinal base.Ordinal) {
	f := s.top()
	if f == nil {
		return
	}
	if ordinal == base.AllFields {
		for i := 0; i < f.numFields; i++ {
			s.fields[f.fieldBase+i] = nil
		}
		return
	}
	s.fields[s.fieldIndex(f, ordinal)] = nil
}
