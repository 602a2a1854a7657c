// Package runtime implements the transductor (spec.md §4.4-§4.6): the
// single-threaded cooperative interpreter that drives a compiled
// transducer record against a host target.
package runtime

import (
	"io"
	"os"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/model"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
	"github.com/ribose-rt/ribose/internal/ribose/target"
)

// Transductor is a single-owner, single-threaded cooperative interpreter
// bound to one model and one host target (spec.md §4.4 "State at rest").
type Transductor struct {
	model  *model.Model
	target target.Target

	// effectors is indexed by the model's effector ordinal, from 0; built-in
	// ordinals are handled inline (spec.md §4.4 step 5) and their slots stay
	// nil.
	effectors []target.Effector

	input   *InputStack
	tx      *TransducerStack
	output  io.Writer
	outOn   bool

	matchMode  target.MatchMode
	matchTrap  interface{}
	matchPos   int
	errorInput int

	// currentToken is the token that drove the transition currently being
	// dispatched: the kernel cell lookup already advances the input stack
	// past it (spec.md §4.4 step 1), so dispatch/invokeBuiltin/Context.Token
	// read it from here rather than re-peeking the (already next) token.
	currentToken base.Ordinal

	pendingSignal    base.Ordinal
	hasPendingSignal bool
}

// New binds a loaded model to a host target: every target effector name at
// or above base.BuiltinEffectorCount must be known to the model's effector
// registry, and every parameterized effector gets its compile-time
// parameter table installed before first use.
func New(m *model.Model, tgt target.Target) (*Transductor, error) {
	if m.TargetClassName != tgt.ClassName() {
		return nil, rterr.Newf(rterr.KindTargetBinding, "runtime: target class mismatch: model wants %q, got %q", m.TargetClassName, tgt.ClassName())
	}

	n := m.Effectors.Len()
	effectors := make([]target.Effector, n)
	for _, eff := range tgt.Effectors() {
		ord, ok := m.Effectors.Lookup(eff.Name())
		if !ok {
			return nil, rterr.Newf(rterr.KindTargetBinding, "runtime: target effector %q unknown to model", eff.Name())
		}
		effectors[ord] = eff
		if p, ok := eff.(target.Parameterized); ok {
			params := m.Params[ord]
			if err := p.AllocateParameters(len(params)); err != nil {
				return nil, rterr.Wrap(rterr.KindTargetBinding, err, "runtime: allocate parameters for "+eff.Name())
			}
			for i, tokens := range params {
				if _, err := p.CompileParameter(tokens); err != nil {
					return nil, rterr.Wrapf(rterr.KindTargetBinding, err, "runtime: compile parameter %d for %s", i, eff.Name())
				}
			}
		}
	}

	outOn := os.Getenv("RIBOSE_OUT_ENABLED") != "0"
	return &Transductor{
		model: m, target: tgt, effectors: effectors,
		input: NewInputStack(), tx: NewTransducerStack(),
		output: os.Stdout, outOn: outOn, errorInput: -1,
	}, nil
}

// SetOutput overrides the default os.Stdout output sink.
func (t *Transductor) SetOutput(w io.Writer) { t.output = w }

// Push pushes an input frame, clipped to limit bytes (0 meaning unlimited).
func (t *Transductor) Push(b []byte, limit int) {
	t.input.Push(b, limit)
}

// Signal records sig as the prologue token consumed by the next Run, per
// spec.md §4.4's public contract (precondition: input stack empty).
func (t *Transductor) Signal(sig base.Ordinal) error {
	if !t.input.Empty() {
		return rterr.New(rterr.KindEffector, "runtime: signal requires an empty input stack")
	}
	t.pendingSignal = sig
	t.hasPendingSignal = true
	return nil
}

// Start loads the named transducer and pushes a fresh frame.
func (t *Transductor) Start(name string) error {
	return t.StartTransducer(name)
}

// Stop clears both stacks and the match mode.
func (t *Transductor) Stop() {
	t.input = NewInputStack()
	t.tx = NewTransducerStack()
	t.matchMode = target.MatchNone
	t.matchTrap = nil
	t.errorInput = -1
}

// Recycle hands a reusable byte buffer back to the input stack's allocator.
func (t *Transductor) Recycle(buf []byte) { t.input.Recycle(buf) }

// Run executes the main loop (spec.md §4.4) until the transducer stack
// pauses, stops entirely, or hits an unrecovered domain error.
func (t *Transductor) Run() error {
	if t.tx.Empty() {
		return rterr.New(rterr.KindEffector, "runtime: run with no active transducer")
	}

	f := t.tx.top()
	rec := f.record
	state := f.state

	for {
		tok, ok := t.fetchToken()
		if !ok {
			f.state = state
			return nil
		}

		if t.matchMode != target.MatchNone && tok < base.SignalBase {
			resolved, suspend, raiseNul, err := t.absorbTrap(tok)
			if err != nil {
				f.state = state
				return err
			}
			if suspend {
				f.state = state
				return nil
			}
			if raiseNul {
				t.pendingSignal = base.SignalNul
				t.hasPendingSignal = true
				continue
			}
			tok = resolved
		}

		var action int64
		var domainErr error
		for {
			cls := rec.Eq.Class(tok)
			cell := rec.Kernel.Get(state, cls)
			fromState := state
			state = cell.NextState
			action = cell.Action
			t.input.Advance()
			t.currentToken = tok

			if action == int64(base.EffNone) {
				// No transition was ever compiled for this token at this
				// state (spec.md §8's "zero-action self-loop" invariant):
				// a second unrecovered nul is a domain error, the first
				// raises nul as the next token (spec.md §8 scenario 6).
				if tok == base.SignalNul {
					domainErr = rterr.NewDomainError(rec.Name, fromState, cls, byte(t.errorInput), t.input.PeekWindow(16), t.tx.Snapshot())
					break
				}
				if tok.IsByte() {
					t.errorInput = int(tok)
				}
				t.pendingSignal = base.SignalNul
				t.hasPendingSignal = true
				break
			}
			if action == int64(base.EffPaste) {
				t.tx.AppendToSelected([]byte{byte(tok)})
				nt, ok2 := t.fetchToken()
				if !ok2 {
					f.state = state
					return nil
				}
				tok = nt
				continue
			}
			if action == int64(base.EffNil) {
				nt, ok2 := t.fetchToken()
				if !ok2 {
					f.state = state
					return nil
				}
				tok = nt
				continue
			}
			break
		}
		if domainErr != nil {
			f.state = state
			return domainErr
		}
		if action == int64(base.EffNone) {
			continue
		}

		eff, err := t.dispatch(rec, action)
		if err != nil {
			f.state = state
			return err
		}
		flags := eff.Flags()

		switch {
		case flags&target.EffectStopped != 0:
			t.tx.Pop()
			return nil
		case flags&target.EffectStop != 0:
			f = t.tx.top()
			if f == nil {
				return nil
			}
			rec, state = f.record, f.state
		case flags&target.EffectStart != 0:
			f.state = state
			f = t.tx.top()
			rec, state = f.record, f.state
		case flags&target.EffectPause != 0:
			f.state = state
			return nil
		case flags&target.EffectSignal != 0:
			t.pendingSignal = target.UnpackSignal(eff)
			t.hasPendingSignal = true
		}
		// EffectInput and the default case both just loop back to
		// fetchToken, which always re-peeks the live input frame.
	}
}

func (t *Transductor) fetchToken() (base.Ordinal, bool) {
	if t.hasPendingSignal {
		sig := t.pendingSignal
		t.hasPendingSignal = false
		return sig, true
	}
	return t.input.Peek()
}

// absorbTrap runs the armed sum/product/scan trap (spec.md §4.4 step 2)
// starting from the already-peeked token tok. It returns the first token
// that should be fed into the kernel matrix once the trap clears, or
// signals that the loop must suspend (frame exhaustion) or raise a nul
// signal (product mismatch).
func (t *Transductor) absorbTrap(tok base.Ordinal) (resolved base.Ordinal, suspend, raiseNul bool, err error) {
	switch t.matchMode {
	case target.MatchSum:
		trap := t.matchTrap.(base.SumTrap)
		for trap.Bitmap[byte(tok)] {
			t.input.Advance()
			nt, ok := t.input.Peek()
			if !ok {
				return 0, true, false, nil
			}
			tok = nt
		}
		t.matchMode = target.MatchNone
		return tok, false, false, nil

	case target.MatchScan:
		trap := t.matchTrap.(base.ScanTrap)
		for byte(tok) != trap.MatchByte {
			t.input.Advance()
			nt, ok := t.input.Peek()
			if !ok {
				return 0, true, false, nil
			}
			tok = nt
		}
		t.matchMode = target.MatchNone
		return tok, false, false, nil

	case target.MatchProduct:
		trap := t.matchTrap.(base.ProductTrap)
		for t.matchPos < len(trap.Bytes) {
			if byte(tok) != trap.Bytes[t.matchPos] {
				t.errorInput = int(tok)
				t.matchMode = target.MatchNone
				t.matchPos = 0
				return 0, false, true, nil
			}
			t.input.Advance()
			t.matchPos++
			if t.matchPos >= len(trap.Bytes) {
				break
			}
			nt, ok := t.input.Peek()
			if !ok {
				return 0, true, false, nil
			}
			tok = nt
		}
		t.matchMode = target.MatchNone
		t.matchPos = 0
		nt, ok := t.input.Peek()
		if !ok {
			return 0, true, false, nil
		}
		return nt, false, false, nil

	default:
		return tok, false, false, nil
	}
}
