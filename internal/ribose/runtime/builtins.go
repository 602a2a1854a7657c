package runtime

import (
	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
	"github.com/ribose-rt/ribose/internal/ribose/target"
)

// dispatch routes one kernel action word to its effector: a built-in
// (inline, no table lookup, spec.md §4.4 step 5), a target scalar or
// parametric effector, or an effector-vector-pool sequence.
func (t *Transductor) dispatch(rec *base.TransducerRecord, action int64) (target.AfterEffect, error) {
	switch {
	case action < 0:
		return t.invokeVector(rec, -action)
	case base.IsParametric(action):
		ord, param := base.UnpackParametric(action)
		return t.invokeParametric(rec, ord, param)
	default:
		return t.invokeScalar(rec, base.Ordinal(action))
	}
}

func (t *Transductor) invokeVector(rec *base.TransducerRecord, offset int64) (target.AfterEffect, error) {
	seq := rec.Vectors.Sequence(int(offset))
	var flags target.AfterEffect
	var signal base.Ordinal
	var haveSignal bool

	for _, word := range seq {
		eff, err := t.dispatch(rec, word)
		if err != nil {
			return 0, err
		}
		f := eff.Flags()
		if f&target.EffectSignal != 0 {
			signal = target.UnpackSignal(eff)
			haveSignal = true
			f &^= target.EffectSignal
		}
		flags |= f
		if f&(target.EffectStop|target.EffectStopped|target.EffectPause) != 0 {
			break
		}
	}
	if haveSignal {
		flags |= target.PackSignal(signal)
	}
	return flags, nil
}

func (t *Transductor) invokeScalar(rec *base.TransducerRecord, ord base.Ordinal) (target.AfterEffect, error) {
	if int(ord) < base.BuiltinEffectorCount {
		return t.invokeBuiltin(rec, ord, nil)
	}
	eff := t.effectorAt(ord)
	if eff == nil {
		return 0, rterr.Newf(rterr.KindEffector, "runtime: no target effector bound at ordinal %d", ord)
	}
	return eff.Invoke(t)
}

func (t *Transductor) invokeParametric(rec *base.TransducerRecord, ord base.Ordinal, param int) (target.AfterEffect, error) {
	if int(ord) < base.BuiltinEffectorCount {
		return t.invokeBuiltin(rec, ord, &param)
	}
	eff := t.effectorAt(ord)
	if eff == nil {
		return 0, rterr.Newf(rterr.KindEffector, "runtime: no target effector bound at ordinal %d", ord)
	}
	p, ok := eff.(target.Parameterized)
	if !ok {
		return 0, rterr.Newf(rterr.KindEffector, "runtime: effector %s is not parameterized", eff.Name())
	}
	return p.InvokeParam(t, param)
}

func (t *Transductor) effectorAt(ord base.Ordinal) target.Effector {
	i := int(ord)
	if i < 0 || i >= len(t.effectors) {
		return nil
	}
	return t.effectors[i]
}

// invokeBuiltin runs one of the eighteen built-in effectors inline, per
// spec.md §2/§4.4 step 5. param is nil for a scalar invocation, or the
// model-compiled parameter index for a parametric one.
func (t *Transductor) invokeBuiltin(rec *base.TransducerRecord, ord base.Ordinal, param *int) (target.AfterEffect, error) {
	switch ord {
	case base.EffNone, base.EffNil:
		// Reached only from inside an effector vector; as a standalone
		// kernel action these are already handled by Run's hot-path self
		// loop, and as a vector step they are genuine no-ops (accept and
		// continue).
		return target.EffectNone, nil

	case base.EffPaste:
		// A standalone paste action is handled by Run's hot-path self
		// loop; as a vector step it must still append the token that
		// drove this transition.
		t.tx.AppendToSelected([]byte{byte(t.currentToken)})
		return target.EffectNone, nil

	case base.EffSelect:
		f, err := t.fieldParam(base.EffSelect, param)
		if err != nil {
			return 0, err
		}
		t.tx.Select(f)
		return target.EffectNone, nil

	case base.EffCopy:
		f, err := t.fieldParam(base.EffCopy, param)
		if err != nil {
			return 0, err
		}
		t.tx.AppendToSelected(t.tx.Field(f))
		return target.EffectNone, nil

	case base.EffCut:
		f, err := t.fieldParam(base.EffCut, param)
		if err != nil {
			return 0, err
		}
		t.tx.AppendToSelected(t.tx.Field(f))
		t.tx.ClearField(f)
		return target.EffectNone, nil

	case base.EffClear:
		f := base.AllFields
		if param != nil {
			var err error
			f, err = t.fieldParam(base.EffClear, param)
			if err != nil {
				return 0, err
			}
		}
		t.tx.ClearField(f)
		return target.EffectNone, nil

	case base.EffCount:
		fired, sig := t.Countdown()
		if fired {
			return t.RaiseSignal(sig), nil
		}
		return target.EffectNone, nil

	case base.EffSignal:
		sig, err := t.signalParam(param)
		if err != nil {
			return 0, err
		}
		return t.RaiseSignal(sig), nil

	case base.EffIn:
		t.input.Push(t.tx.Field(t.tx.top().selected), 0)
		return target.EffectInput, nil

	case base.EffOut:
		if err := t.Write(t.tx.Field(t.tx.top().selected)); err != nil {
			return 0, err
		}
		return target.EffectNone, nil

	case base.EffMark:
		if err := t.Mark(); err != nil {
			return 0, err
		}
		return target.EffectInput, nil

	case base.EffReset:
		if err := t.Reset(); err != nil {
			return 0, err
		}
		return target.EffectInput, nil

	case base.EffStart:
		name, err := t.transducerParam(param)
		if err != nil {
			return 0, err
		}
		if err := t.StartTransducer(name); err != nil {
			return 0, err
		}
		return target.EffectStart, nil

	case base.EffPause:
		return target.EffectPause, nil

	case base.EffStop:
		if t.StopTransducer() {
			return target.EffectStopped, nil
		}
		return target.EffectStop, nil

	case base.EffMsum, base.EffMproduct, base.EffMscan:
		mode, trap, err := t.matchModeParam(rec, ord, param)
		if err != nil {
			return 0, err
		}
		if err := t.SetMatchMode(mode, trap); err != nil {
			return 0, err
		}
		if mode == target.MatchProduct {
			// The run's first byte drove the transition that dispatched
			// this effector and is already consumed; resume matching at
			// the second byte.
			t.matchPos = 1
		}
		return target.EffectNone, nil

	case base.EffNul:
		if t.errorInput < 0 {
			return target.EffectStopped, nil
		}
		return t.RaiseSignal(base.SignalNul), nil

	default:
		return 0, rterr.Newf(rterr.KindEffector, "runtime: unknown built-in effector ordinal %d", ord)
	}
}

// fieldParam, signalParam, transducerParam resolve a compiled parameter
// index back to the field/signal/transducer ordinal or name it names. The
// model format stores these as single-token parameter lists (see
// compile.ParamTable), so param indexes directly into the model's
// per-ordinal parameter table.
func (t *Transductor) fieldParam(ord base.Ordinal, param *int) (base.Ordinal, error) {
	if param == nil {
		return 0, rterr.New(rterr.KindEffector, "runtime: field effector requires a parameter")
	}
	tokens := t.model.Params[ord][*param]
	if len(tokens) != 1 {
		return 0, rterr.New(rterr.KindEffector, "runtime: malformed field parameter")
	}
	return tokens[0].Ref, nil
}

func (t *Transductor) signalParam(param *int) (base.Ordinal, error) {
	if param == nil {
		return 0, rterr.New(rterr.KindEffector, "runtime: signal effector requires a parameter")
	}
	tokens := t.model.Params[base.EffSignal][*param]
	if len(tokens) != 1 {
		return 0, rterr.New(rterr.KindEffector, "runtime: malformed signal parameter")
	}
	return tokens[0].Ref, nil
}

func (t *Transductor) transducerParam(param *int) (string, error) {
	if param == nil {
		return "", rterr.New(rterr.KindEffector, "runtime: start effector requires a parameter")
	}
	tokens := t.model.Params[base.EffStart][*param]
	if len(tokens) != 1 || tokens[0].Kind != base.TokenTransducer {
		return "", rterr.New(rterr.KindEffector, "runtime: malformed transducer parameter")
	}
	return string(tokens[0].Name), nil
}

func (t *Transductor) matchModeParam(rec *base.TransducerRecord, ord base.Ordinal, param *int) (target.MatchMode, interface{}, error) {
	if param == nil {
		return 0, nil, rterr.New(rterr.KindEffector, "runtime: match effector requires a parameter")
	}
	traps := rec.Traps
	switch ord {
	case base.EffMsum:
		if *param < 0 || *param >= len(traps.Sum) {
			return 0, nil, rterr.New(rterr.KindEffector, "runtime: msum parameter out of range")
		}
		return target.MatchSum, traps.Sum[*param], nil
	case base.EffMscan:
		if *param < 0 || *param >= len(traps.Scan) {
			return 0, nil, rterr.New(rterr.KindEffector, "runtime: mscan parameter out of range")
		}
		return target.MatchScan, traps.Scan[*param], nil
	case base.EffMproduct:
		if *param < 0 || *param >= len(traps.Product) {
			return 0, nil, rterr.New(rterr.KindEffector, "runtime: mproduct parameter out of range")
		}
		return target.MatchProduct, traps.Product[*param], nil
	default:
		return 0, nil, rterr.New(rterr.KindEffector, "runtime: not a match-mode effector")
	}
}

// --- target.Context ---

func (t *Transductor) SelectedField() base.Ordinal {
	if f := t.tx.top(); f != nil {
		return f.selected
	}
	return base.AnonymousField
}

func (t *Transductor) Select(field base.Ordinal)      { t.tx.Select(field) }
func (t *Transductor) AppendToSelected(b []byte)       { t.tx.AppendToSelected(b) }
func (t *Transductor) Field(field base.Ordinal) []byte { return t.tx.Field(field) }
func (t *Transductor) ClearField(field base.Ordinal)   { t.tx.ClearField(field) }

func (t *Transductor) Token() base.Ordinal {
	return t.currentToken
}

func (t *Transductor) PushInput(b []byte, limit int) { t.input.Push(b, limit) }

func (t *Transductor) RaiseSignal(sig base.Ordinal) target.AfterEffect {
	return target.PackSignal(sig)
}

func (t *Transductor) Mark() error  { return t.input.Mark() }
func (t *Transductor) Reset() error { return t.input.Reset() }

func (t *Transductor) StartTransducer(name string) error {
	rec, err := t.model.Transducer(name)
	if err != nil {
		return err
	}
	t.tx.Push(rec)
	return nil
}

func (t *Transductor) StopTransducer() (last bool) { return t.tx.Pop() }

func (t *Transductor) SetCountdown(n int, signal base.Ordinal) {
	if f := t.tx.top(); f != nil {
		f.countdown = n
		f.signal = signal
	}
}

func (t *Transductor) Countdown() (fired bool, signal base.Ordinal) {
	f := t.tx.top()
	if f == nil || f.countdown <= 0 {
		return false, 0
	}
	f.countdown--
	if f.countdown == 0 {
		return true, f.signal
	}
	return false, 0
}

func (t *Transductor) Write(b []byte) error {
	if !t.outOn {
		return nil
	}
	_, err := t.output.Write(b)
	if err != nil {
		return rterr.Wrap(rterr.KindEffector, err, "runtime: output write")
	}
	return nil
}

func (t *Transductor) SetMatchMode(mode target.MatchMode, param interface{}) error {
	if t.matchMode != target.MatchNone {
		return rterr.New(rterr.KindEffector, "runtime: a match mode is already active")
	}
	t.matchMode = mode
	t.matchTrap = param
	t.matchPos = 0
	return nil
}

func (t *Transductor) RecordDomainError(b byte) { t.errorInput = int(b) }

func (t *Transductor) ErrorInput() int { return t.errorInput }
