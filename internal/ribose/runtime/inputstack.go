package runtime

import (
	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// inputFrame is one frame of the input stack (spec.md §4.5): a byte array
// with a read position and an optional clip limit, or a synthetic
// one-token signal frame.
type inputFrame struct {
	data     []byte
	pos      int
	limit    int // 0 means unlimited
	isSignal bool
	signal   base.Ordinal
}

func (f *inputFrame) exhausted() bool {
	if f.isSignal {
		return f.pos > 0
	}
	end := len(f.data)
	if f.limit > 0 && f.limit < end {
		end = f.limit
	}
	return f.pos >= end
}

// InputStack is the growable stack of input frames spec.md §4.5 describes,
// with mark/reset support for the single allowed backtracking point.
type InputStack struct {
	frames []*inputFrame
	pool   [][]byte

	marking      bool
	markBuf      []byte
	bytesRead    int64
	bytesAlloc   int64
}

// NewInputStack returns an empty input stack.
func NewInputStack() *InputStack { return &InputStack{} }

// Push clips b to limit bytes (0 meaning unlimited) and pushes it as a new
// frame.
func (s *InputStack) Push(b []byte, limit int) {
	s.frames = append(s.frames, &inputFrame{data: b, limit: limit})
	s.bytesAlloc += int64(len(b))
}

// PushSignal pushes a synthetic one-token frame carrying a signal ordinal.
func (s *InputStack) PushSignal(ord base.Ordinal) {
	s.frames = append(s.frames, &inputFrame{isSignal: true, signal: ord})
}

// Peek returns the current token without consuming it, popping exhausted
// frames first. ok is false when the stack is empty (suspend/pause point).
func (s *InputStack) Peek() (tok base.Ordinal, ok bool) {
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		if top.exhausted() {
			s.frames = s.frames[:len(s.frames)-1]
			continue
		}
		if top.isSignal {
			return top.signal, true
		}
		return base.Ordinal(top.data[top.pos]), true
	}
	return 0, false
}

// Advance consumes the current token, copying it into the mark buffer if
// marking is active.
func (s *InputStack) Advance() {
	if len(s.frames) == 0 {
		return
	}
	top := s.frames[len(s.frames)-1]
	if top.isSignal {
		top.pos = 1
		return
	}
	if s.marking {
		s.markBuf = append(s.markBuf, top.data[top.pos])
	}
	top.pos++
	s.bytesRead++
}

// Mark snapshots the current position and begins recording consumed bytes
// for a later Reset.
func (s *InputStack) Mark() error {
	s.marking = true
	s.markBuf = s.markBuf[:0]
	return nil
}

// Reset splices the mark buffer back onto the stack as a fresh frame, so
// the bytes recorded since Mark are replayed exactly once.
func (s *InputStack) Reset() error {
	if !s.marking {
		return rterr.New(rterr.KindEffector, "runtime: reset without a preceding mark")
	}
	replay := make([]byte, len(s.markBuf))
	copy(replay, s.markBuf)
	s.marking = false
	s.markBuf = s.markBuf[:0]
	s.Push(replay, 0)
	return nil
}

// Unmark discards an in-progress mark without replaying anything.
func (s *InputStack) Unmark() {
	s.marking = false
	s.markBuf = s.markBuf[:0]
}

// Recycle keeps buf, truncated to length 0, in the stack's buffer pool.
// Push does not draw on this pool; every frame uses the slice its caller
// passes in.
func (s *InputStack) Recycle(buf []byte) {
	s.pool = append(s.pool, buf[:0])
}

// Empty reports whether the stack has no live frames.
func (s *InputStack) Empty() bool {
	_, ok := s.Peek()
	return !ok
}

// PeekWindow returns up to n upcoming bytes from the top frame without
// consuming them, for diagnostic rendering (rterr.DomainDiagnostic's
// "nearby input"). It never crosses frame boundaries.
func (s *InputStack) PeekWindow(n int) []byte {
	if len(s.frames) == 0 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	if top.isSignal || top.exhausted() {
		return nil
	}
	end := len(top.data)
	if top.limit > 0 && top.limit < end {
		end = top.limit
	}
	if top.pos+n < end {
		end = top.pos + n
	}
	return top.data[top.pos:end]
}

// GetBytesRead returns the total number of input bytes consumed so far.
func (s *InputStack) GetBytesRead() int64 { return s.bytesRead }

// GetBytesAllocated returns the total number of input bytes ever pushed.
func (s *InputStack) GetBytesAllocated() int64 { return s.bytesAlloc }
