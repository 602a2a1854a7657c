package runtime

import (
	"testing"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/model"
	"github.com/ribose-rt/ribose/internal/ribose/target"
)

// fieldParams builds a model.Model whose Params table has one single-token
// field-reference parameter installed at every built-in field effector
// ordinal (select/copy/cut/clear), each pointing at fieldOrd.
func fieldParams(fieldOrd base.Ordinal) *model.Model {
	params := make([][][]base.Token, base.BuiltinEffectorCount)
	tok := []base.Token{{Kind: base.TokenField, Ref: fieldOrd}}
	params[base.EffSelect] = [][]base.Token{tok}
	params[base.EffCopy] = [][]base.Token{tok}
	params[base.EffCut] = [][]base.Token{tok}
	params[base.EffClear] = [][]base.Token{tok}
	return &model.Model{Params: params}
}

func newBuiltinTransductor(fieldOrd base.Ordinal) *Transductor {
	tr := newBareTransductor()
	tr.model = fieldParams(fieldOrd)
	tr.tx.Push(pasteRecord("fields"))
	return tr
}

func TestInvokeBuiltinSelectAndCopy(t *testing.T) {
	const otherField base.Ordinal = 1
	tr := newBuiltinTransductor(otherField)

	tr.Select(otherField)
	tr.AppendToSelected([]byte("hi"))
	tr.Select(base.AnonymousField)

	idx := 0
	if _, err := tr.invokeBuiltin(tr.tx.top().record, base.EffCopy, &idx); err != nil {
		t.Fatalf("invokeBuiltin(EffCopy): %v", err)
	}
	got := tr.Field(base.AnonymousField)
	if string(got) != "hi" {
		t.Fatalf("anonymous field after copy = %q, want \"hi\"", got)
	}
	// The source field must be untouched by copy.
	if string(tr.Field(otherField)) != "hi" {
		t.Fatalf("source field was mutated by copy")
	}
}

func TestInvokeBuiltinCutClearsSource(t *testing.T) {
	// Ordinal 1 is base.AllFields, which clear treats as "every field", so
	// the cut source is field 2.
	const otherField base.Ordinal = 2
	tr := newBuiltinTransductor(otherField)
	tr.Select(otherField)
	tr.AppendToSelected([]byte("bye"))
	tr.Select(base.AnonymousField)

	idx := 0
	if _, err := tr.invokeBuiltin(tr.tx.top().record, base.EffCut, &idx); err != nil {
		t.Fatalf("invokeBuiltin(EffCut): %v", err)
	}
	if string(tr.Field(base.AnonymousField)) != "bye" {
		t.Fatalf("anonymous field after cut = %q, want \"bye\"", tr.Field(base.AnonymousField))
	}
	if tr.Field(otherField) != nil {
		t.Fatalf("source field after cut = %q, want cleared", tr.Field(otherField))
	}
}

func TestInvokeBuiltinCountFiresSignalOnZero(t *testing.T) {
	tr := newBuiltinTransductor(1)
	tr.SetCountdown(2, base.SignalEos)

	eff, err := tr.invokeBuiltin(tr.tx.top().record, base.EffCount, nil)
	if err != nil {
		t.Fatalf("invokeBuiltin(EffCount) #1: %v", err)
	}
	if eff.Flags()&target.EffectSignal != 0 {
		t.Fatalf("count fired early on the first decrement")
	}

	eff, err = tr.invokeBuiltin(tr.tx.top().record, base.EffCount, nil)
	if err != nil {
		t.Fatalf("invokeBuiltin(EffCount) #2: %v", err)
	}
	if eff.Flags()&target.EffectSignal == 0 {
		t.Fatalf("count did not fire its signal on reaching zero")
	}
	if got := target.UnpackSignal(eff); got != base.SignalEos {
		t.Fatalf("count signal = %d, want SignalEos", got)
	}
}

func TestInvokeBuiltinMsumArmsMatchMode(t *testing.T) {
	tr := newBuiltinTransductor(1)
	rec := tr.tx.top().record
	var bitmap [256]bool
	bitmap['a'] = true
	idx := rec.Traps.AddSum(bitmap)

	paramIdx := idx
	if _, err := tr.invokeBuiltin(rec, base.EffMsum, &paramIdx); err != nil {
		t.Fatalf("invokeBuiltin(EffMsum): %v", err)
	}
	if tr.matchMode != target.MatchSum {
		t.Fatalf("matchMode = %v, want MatchSum", tr.matchMode)
	}
	trap, ok := tr.matchTrap.(base.SumTrap)
	if !ok || !trap.Bitmap['a'] {
		t.Fatalf("matchTrap = %+v, want the installed SumTrap", tr.matchTrap)
	}
}

func TestInvokeBuiltinRejectsSecondMatchModeWhileActive(t *testing.T) {
	tr := newBuiltinTransductor(1)
	rec := tr.tx.top().record
	idx := rec.Traps.AddScan('\n')
	if err := tr.SetMatchMode(target.MatchSum, base.SumTrap{}); err != nil {
		t.Fatalf("SetMatchMode: %v", err)
	}
	if _, err := tr.invokeBuiltin(rec, base.EffMscan, &idx); err == nil {
		t.Fatalf("invokeBuiltin(EffMscan) succeeded while a match mode was already active")
	}
}

func TestInvokeBuiltinNulReturnsStoppedWithoutRecordedError(t *testing.T) {
	tr := newBuiltinTransductor(1)
	eff, err := tr.invokeBuiltin(tr.tx.top().record, base.EffNul, nil)
	if err != nil {
		t.Fatalf("invokeBuiltin(EffNul): %v", err)
	}
	if eff.Flags()&target.EffectStopped == 0 {
		t.Fatalf("nul with no recorded error did not return EffectStopped")
	}
}

func TestInvokeBuiltinNulRaisesSignalWhenErrorRecorded(t *testing.T) {
	tr := newBuiltinTransductor(1)
	tr.RecordDomainError(0xFF)
	eff, err := tr.invokeBuiltin(tr.tx.top().record, base.EffNul, nil)
	if err != nil {
		t.Fatalf("invokeBuiltin(EffNul): %v", err)
	}
	if eff.Flags()&target.EffectSignal == 0 || target.UnpackSignal(eff) != base.SignalNul {
		t.Fatalf("nul with a recorded error did not raise SignalNul")
	}
}
