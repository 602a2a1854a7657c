// Package base defines the small value types shared by the compiler and the
// runtime: ordinals, signals, tokens, the kernel matrix, and the effector
// vector pool described by the model data format.
package base

// Ordinal identifies a named entity (signal, field, transducer, effector)
// within a model's namespace. Ordinal 0 of each namespace is reserved.
type Ordinal int32

// Reserved ordinals shared across every namespace.
const (
	// AnonymousField is the ordinal of the unnamed field every transducer
	// frame starts selected on.
	AnonymousField Ordinal = 0

	// AllFields is used only as a parameter to clear, meaning "every field
	// in the current frame".
	AllFields Ordinal = 1
)

// SignalBase is the first ordinal reserved for virtual signals; ordinals
// below it denote raw input bytes. The source leaves the exact numeric base
// unspecified beyond "at least 256"; we fix it as an implementation constant
// per the Open Question in spec.md §9.
const SignalBase Ordinal = 256

// Built-in signal ordinals, allocated immediately above SignalBase.
const (
	// SignalNul is raised when the transductor receives a byte with no
	// configured transition ("domain error" recovery signal).
	SignalNul Ordinal = SignalBase + iota
	// SignalNil marks the start of a transduction with no real input yet.
	SignalNil
	// SignalEos marks end of stream.
	SignalEos

	// FirstUserSignal is the first ordinal available for user-declared
	// signals.
	FirstUserSignal
)

// IsByte reports whether an ordinal denotes a raw input byte (as opposed to
// a virtual signal).
func (o Ordinal) IsByte() bool { return o >= 0 && o < SignalBase }

// IsSignal reports whether an ordinal denotes a virtual signal.
func (o Ordinal) IsSignal() bool { return o >= SignalBase }
