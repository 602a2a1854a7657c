package compile

import (
	"testing"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/model"
)

func validHeader() InrHeader {
	return InrHeader{Version: SupportedInrVersion, Tapes: 3, Transitions: 0, States: 2}
}

func TestBuildAutomatonRejectsWrongVersion(t *testing.T) {
	b := model.NewBuilder("test")
	h := validHeader()
	h.Version = 1
	if _, err := BuildAutomaton("t", h, nil, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted an unsupported INR version")
	}
}

func TestBuildAutomatonRejectsWrongTapeCount(t *testing.T) {
	b := model.NewBuilder("test")
	h := validHeader()
	h.Tapes = 2
	if _, err := BuildAutomaton("t", h, nil, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted a non-3-tape header")
	}
}

func TestBuildAutomatonRejectsNonPositiveStates(t *testing.T) {
	b := model.NewBuilder("test")
	h := validHeader()
	h.States = 0
	if _, err := BuildAutomaton("t", h, nil, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted a non-positive state count")
	}
}

// TestBuildAutomatonPastePassthrough grounds spec.md §8 scenario 1: a byte
// with a tape-0 transition straight back to state 0 (no tape-1 effector at
// all) produces an empty, self-looping chain.
func TestBuildAutomatonPastePassthrough(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 0, Tape: base.TapeInput, Symbol: []byte("a")},
	}
	auto, err := BuildAutomaton("paste", validHeader(), transitions, b, NewParamTable())
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	chain := auto.Chains[0][base.Ordinal('a')]
	if chain.Kind != base.ChainEmpty || chain.Continuation != 0 {
		t.Fatalf("chain = %+v, want empty chain with continuation 0", chain)
	}
}

// TestBuildAutomatonFieldCopy grounds spec.md §8 scenario 2: byte 'x' drives
// a tape-0 transition into a state with a single tape-1 "copy" edge, whose
// target has no further outgoing tape-0 edge (an accept/dead end).
func TestBuildAutomatonFieldCopy(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 2, Tape: base.TapeInput, Symbol: []byte("x")},
		{From: 2, To: 3, Tape: base.TapeEffector, Symbol: []byte("copy")},
	}
	auto, err := BuildAutomaton("copy", validHeader(), transitions, b, NewParamTable())
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	chain := auto.Chains[0][base.Ordinal('x')]
	if chain.Kind != base.ChainScalar || len(chain.Steps) != 1 {
		t.Fatalf("chain = %+v, want a single scalar step", chain)
	}
	copyOrd, ok := b.Effectors.Lookup("copy")
	if !ok || chain.Steps[0].Effector != copyOrd {
		t.Fatalf("chain.Steps[0].Effector = %d, want interned \"copy\" ordinal %d", chain.Steps[0].Effector, copyOrd)
	}
	if chain.Continuation != 0 {
		t.Fatalf("chain.Continuation = %d, want 0 (dead end)", chain.Continuation)
	}
}

func TestBuildAutomatonSignalToken(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 0, Tape: base.TapeInput, Symbol: []byte("eos")},
	}
	auto, err := BuildAutomaton("sig", validHeader(), transitions, b, NewParamTable())
	if err != nil {
		t.Fatalf("BuildAutomaton: %v", err)
	}
	eosOrd, ok := b.Signals.Lookup("eos")
	if !ok {
		t.Fatalf("signal \"eos\" was not interned")
	}
	if _, ok := auto.Chains[0][eosOrd]; !ok {
		t.Fatalf("no chain recorded under interned eos ordinal %d", eosOrd)
	}
}

// TestBuildAutomatonRejectsAmbiguousEffectorEdges grounds spec.md §4.3: a
// state with two outgoing tape-1 edges is ambiguous and must fail the
// compile rather than silently picking the first one found.
func TestBuildAutomatonRejectsAmbiguousEffectorEdges(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 2, Tape: base.TapeInput, Symbol: []byte("x")},
		{From: 2, To: 3, Tape: base.TapeEffector, Symbol: []byte("copy")},
		{From: 2, To: 4, Tape: base.TapeEffector, Symbol: []byte("cut")},
	}
	if _, err := BuildAutomaton("ambiguous", validHeader(), transitions, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted a state with two tape-1 edges, want an ambiguous-state error")
	}
}

// TestBuildAutomatonRejectsAmbiguousParamEdges grounds the same invariant
// for tape-2 (parameter) edges.
func TestBuildAutomatonRejectsAmbiguousParamEdges(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 2, Tape: base.TapeInput, Symbol: []byte("x")},
		{From: 2, To: 3, Tape: base.TapeEffector, Symbol: []byte("select")},
		{From: 3, To: 4, Tape: base.TapeParam, Symbol: []byte("~name")},
		{From: 3, To: 5, Tape: base.TapeParam, Symbol: []byte("~other")},
	}
	if _, err := BuildAutomaton("ambiguous-param", validHeader(), transitions, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted a state with two tape-2 edges, want an ambiguous-state error")
	}
}

// TestBuildAutomatonRejectsAmbiguousInputEdges grounds the same invariant
// for tape-0 (input) edges: a state offering two distinct continuations for
// the same token is ambiguous too.
func TestBuildAutomatonRejectsAmbiguousInputEdges(t *testing.T) {
	b := model.NewBuilder("test")
	transitions := []base.RawTransition{
		{From: 0, To: 2, Tape: base.TapeInput, Symbol: []byte("x")},
		{From: 2, To: 3, Tape: base.TapeEffector, Symbol: []byte("copy")},
		{From: 3, To: 4, Tape: base.TapeInput, Symbol: []byte("y")},
		{From: 3, To: 5, Tape: base.TapeInput, Symbol: []byte("y")},
	}
	if _, err := BuildAutomaton("ambiguous-input", validHeader(), transitions, b, NewParamTable()); err == nil {
		t.Fatalf("BuildAutomaton accepted a state with two tape-0 edges for the same token, want an ambiguous-state error")
	}
}

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	if th.MsumMin != 64 || th.MscanMin != 255 || th.MproductMin != 4 {
		t.Fatalf("DefaultThresholds() = %+v, want {64 255 4}", th)
	}
}
