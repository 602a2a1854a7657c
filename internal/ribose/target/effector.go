// Package target defines the effector interface the transductor dispatches
// against, and the host-target contract (spec.md §6 "Effector interface").
package target

import "github.com/ribose-rt/ribose/internal/ribose/base"

// AfterEffect is the bitmask an effector invocation returns to tell the
// main loop what changed (spec.md §4.4 "Effector dispatch").
type AfterEffect uint32

const (
	// EffectNone signals nothing the loop needs to react to beyond
	// continuing.
	EffectNone AfterEffect = 0
	// EffectInput signals the input stack was mutated (push/pop/mark/
	// reset); the loop must re-peek the input frame.
	EffectInput AfterEffect = 1 << 0
	// EffectSignal signals a raised signal, encoded in the high bits of
	// the return word via PackSignal/UnpackSignal.
	EffectSignal AfterEffect = 1 << 1
	// EffectStart signals a transducer was pushed.
	EffectStart AfterEffect = 1 << 2
	// EffectStop signals a transducer was popped (not the last).
	EffectStop AfterEffect = 1 << 3
	// EffectStopped signals the last transducer was popped.
	EffectStopped AfterEffect = 1 << 4
	// EffectPause signals a cooperative yield; run must return.
	EffectPause AfterEffect = 1 << 5
)

const signalShift = 16

// PackSignal combines the EffectSignal flag with a raised signal ordinal
// into one return word, per spec.md §4.4's "Signal encoding in effector
// returns": bits 0-15 flags, bits 16-31 signal ordinal.
func PackSignal(sig base.Ordinal) AfterEffect {
	return EffectSignal | AfterEffect(uint32(sig)<<signalShift)
}

// UnpackSignal extracts the raised signal ordinal from a return word that
// has EffectSignal set.
func UnpackSignal(e AfterEffect) base.Ordinal {
	return base.Ordinal(uint32(e) >> signalShift)
}

// Flags masks off the signal-ordinal bits, leaving only the after-effect
// flags.
func (e AfterEffect) Flags() AfterEffect {
	return e & (EffectInput | EffectSignal | EffectStart | EffectStop | EffectStopped | EffectPause)
}

// Effector is the sum type spec.md §9 collapses the source's
// Effector/ParameterizedEffector/FieldEffector/InputOutputEffector
// hierarchy into: a scalar invocation, or a parameterized one that also
// exposes the compile-time parameter lifecycle.
type Effector interface {
	// Name returns the effector's byte-name as declared in the model.
	Name() string
	// Invoke runs the scalar form of the effector and returns the
	// after-effects the main loop must apply.
	Invoke(ctx Context) (AfterEffect, error)
}

// Parameterized is an Effector that additionally accepts a compile-time
// interned parameter.
type Parameterized interface {
	Effector
	// AllocateParameters is called at load time with the number of
	// distinct parameters this effector was compiled with.
	AllocateParameters(n int) error
	// CompileParameter interns one parameter-token array at compile
	// time, returning the opaque value InvokeParam will later receive.
	CompileParameter(tokens []base.Token) (interface{}, error)
	// ShowParameter renders a compiled parameter for diagnostics.
	ShowParameter(index int) string
	// InvokeParam runs the parameterized form of the effector.
	InvokeParam(ctx Context, index int) (AfterEffect, error)
}

// Context is the view of the transductor an effector invocation needs:
// field access, the input/transducer stacks, and the output sink. The
// runtime package provides the concrete implementation; target only needs
// the interface to stay free of a runtime import cycle.
type Context interface {
	// SelectedField returns the currently selected field's ordinal.
	SelectedField() base.Ordinal
	// Select switches the append target to the named field.
	Select(field base.Ordinal)
	// AppendToSelected appends bytes to the selected field.
	AppendToSelected(b []byte)
	// Field returns the current contents of a field.
	Field(field base.Ordinal) []byte
	// ClearField zeros one field, or every field in the current frame
	// when field == base.AllFields.
	ClearField(field base.Ordinal)
	// Token returns the current input token (a byte value, or a signal
	// ordinal).
	Token() base.Ordinal
	// PushInput pushes a byte slice as a new input frame, clipped to
	// limit bytes (0 meaning unlimited).
	PushInput(b []byte, limit int)
	// RaiseSignal is a convenience for effectors that want to hand back
	// EffectSignal without computing the packed word themselves.
	RaiseSignal(sig base.Ordinal) AfterEffect
	// Mark captures the current input position for a later Reset.
	Mark() error
	// Reset replays input from the most recent Mark.
	Reset() error
	// StartTransducer loads and pushes a named transducer.
	StartTransducer(name string) error
	// StopTransducer pops the current transducer frame.
	StopTransducer() (last bool)
	// SetCountdown arms the count effector's countdown for the current
	// frame.
	SetCountdown(n int, signal base.Ordinal)
	// Countdown decrements the current frame's countdown, reporting
	// whether it just reached zero.
	Countdown() (fired bool, signal base.Ordinal)
	// Write sends bytes to the output sink, honoring RIBOSE_OUT_ENABLED.
	Write(b []byte) error
	// SetMatchMode arms sum/product/scan trap absorption; returns an
	// error if a mode is already active.
	SetMatchMode(mode MatchMode, param interface{}) error
	// RecordDomainError records the byte that triggered a nul signal.
	RecordDomainError(b byte)
	// ErrorInput returns the last byte that triggered a nul signal, or
	// -1 if none is pending.
	ErrorInput() int
}

// MatchMode names the trap absorption mode a msum/mproduct/mscan effector
// arms (spec.md §4.4 step 2).
type MatchMode int

const (
	MatchNone MatchMode = iota
	MatchSum
	MatchProduct
	MatchScan
)

// Target is the host-supplied collection of effectors and the field
// namespace spec.md §6 describes. The built-in effector set (§2) is always
// prepended at ordinals 0..19; Target supplies whatever effectors sit above
// that, plus the class name checked against a model's stored target name at
// load time.
type Target interface {
	// ClassName identifies the target; must match the model's stored
	// target name exactly for a load to succeed.
	ClassName() string
	// Effectors returns the target's own effectors; the runtime binds
	// each one to the ordinal the model's effector registry holds for
	// its name, so declaration order does not matter.
	Effectors() []Effector
}
