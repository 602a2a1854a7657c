package ribose

import (
	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/compile"
	"github.com/ribose-rt/ribose/internal/ribose/target"
)

// Ordinal identifies a named entity (signal, field, transducer, effector)
// within a model's namespace.
type Ordinal = base.Ordinal

// Token is a single tape symbol, as a parameterized effector's
// CompileParameter receives it.
type Token = base.Token

// Reserved ordinals shared across every namespace.
const (
	AnonymousField = base.AnonymousField
	AllFields      = base.AllFields
	SignalBase     = base.SignalBase
	SignalNul      = base.SignalNul
	SignalNil      = base.SignalNil
	SignalEos      = base.SignalEos
)

// AfterEffect is the bitmask an effector invocation returns to tell the
// runtime what changed.
type AfterEffect = target.AfterEffect

const (
	EffectNone    = target.EffectNone
	EffectInput   = target.EffectInput
	EffectSignal  = target.EffectSignal
	EffectStart   = target.EffectStart
	EffectStop    = target.EffectStop
	EffectStopped = target.EffectStopped
	EffectPause   = target.EffectPause
)

// PackSignal and UnpackSignal encode/decode a raised signal ordinal into an
// AfterEffect return word.
var (
	PackSignal   = target.PackSignal
	UnpackSignal = target.UnpackSignal
)

// MatchMode names the trap absorption mode a msum/mproduct/mscan effector
// arms.
type MatchMode = target.MatchMode

const (
	MatchNone    = target.MatchNone
	MatchSum     = target.MatchSum
	MatchProduct = target.MatchProduct
	MatchScan    = target.MatchScan
)

// Effector is a host-supplied scalar effector.
type Effector = target.Effector

// Parameterized is an Effector that additionally accepts a compile-time
// interned parameter.
type Parameterized = target.Parameterized

// Context is the view of a running transductor an effector invocation
// needs.
type Context = target.Context

// Target is the host-supplied collection of effectors a model is compiled
// and run against.
type Target = target.Target

// CompilerConfig configures a Compiler.
type CompilerConfig struct {
	// TargetClassName is the host target class name recorded in the
	// compiled model, checked against the runtime target at load time.
	TargetClassName string

	// MsumThreshold is the minimum self-looping byte count at a
	// state before the assembler replaces it with an msum trap.
	MsumThreshold int
	// MscanThreshold is the minimum self-looping byte count (out of
	// 256) before the assembler replaces it with an mscan trap.
	MscanThreshold int
	// MproductMinRun is the minimum length of a chained singleton-edge
	// run before the assembler replaces it with an mproduct trap.
	MproductMinRun int
}

// DefaultCompilerConfig returns a CompilerConfig with the thresholds
// spec.md §9's design notes fix (msum 64, mscan 255, mproduct 4) and an
// empty target class name, which the caller must set.
func DefaultCompilerConfig() *CompilerConfig {
	t := compile.DefaultThresholds()
	return &CompilerConfig{
		MsumThreshold:  t.MsumMin,
		MscanThreshold: t.MscanMin,
		MproductMinRun: t.MproductMin,
	}
}

// Validate checks that the configuration can be used to build a Compiler.
func (c *CompilerConfig) Validate() error {
	if c.TargetClassName == "" {
		return &Error{Kind: CompilationError, Message: "ribose: compiler config requires a target class name"}
	}
	if c.MsumThreshold <= 0 || c.MscanThreshold <= 0 || c.MproductMinRun <= 0 {
		return &Error{Kind: CompilationError, Message: "ribose: trap thresholds must be positive"}
	}
	return nil
}

// WithTargetClassName sets the target class name.
func (c *CompilerConfig) WithTargetClassName(name string) *CompilerConfig {
	c.TargetClassName = name
	return c
}

// WithThresholds sets all three trap discovery thresholds.
func (c *CompilerConfig) WithThresholds(msum, mscan, mproduct int) *CompilerConfig {
	c.MsumThreshold, c.MscanThreshold, c.MproductMinRun = msum, mscan, mproduct
	return c
}

// Clone returns a copy of the configuration.
func (c *CompilerConfig) Clone() *CompilerConfig {
	cp := *c
	return &cp
}

// TransductorConfig configures a Transductor.
type TransductorConfig struct {
	// OutputEnabled gates whether the out effector writes anywhere,
	// mirroring the RIBOSE_OUT_ENABLED environment variable.
	OutputEnabled bool
}

// DefaultTransductorConfig returns a TransductorConfig with output
// enabled.
func DefaultTransductorConfig() *TransductorConfig {
	return &TransductorConfig{OutputEnabled: true}
}

// Validate checks the configuration; a TransductorConfig has no invalid
// states today but the method is kept for symmetry with CompilerConfig
// and to absorb future fields without an API break.
func (c *TransductorConfig) Validate() error { return nil }

// WithOutputEnabled sets whether the out effector writes anywhere.
func (c *TransductorConfig) WithOutputEnabled(enabled bool) *TransductorConfig {
	c.OutputEnabled = enabled
	return c
}

// Clone returns a copy of the configuration.
func (c *TransductorConfig) Clone() *TransductorConfig {
	cp := *c
	return &cp
}
