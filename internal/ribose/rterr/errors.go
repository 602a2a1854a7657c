// Package rterr defines the error kinds raised across the compiler and the
// runtime (spec.md §7): a single Error struct tagged with a Kind, following the
// shape of the teacher's *VMError (pkg/vybium-starks-vm/errors.go).
package rterr

import "fmt"

// Kind distinguishes the five error families spec.md §7 names.
type Kind int

const (
	// KindModel covers a corrupt/incompatible model file, a missing
	// transducer, or a target mismatch.
	KindModel Kind = iota
	// KindCompilation covers ambiguous states, invalid tape numbers,
	// unknown effector/signal/field references, epsilon transitions,
	// empty symbols, and invalid INR headers.
	KindCompilation
	// KindEffector covers host effector failures, invalid parameters,
	// output sink failures, and re-entering an active trap mode.
	KindEffector
	// KindDomain covers an unrecovered nul signal.
	KindDomain
	// KindTargetBinding covers effector-name or parameter mismatches at
	// bind time.
	KindTargetBinding
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "ModelError"
	case KindCompilation:
		return "CompilationError"
	case KindEffector:
		return "EffectorError"
	case KindDomain:
		return "DomainError"
	case KindTargetBinding:
		return "TargetBindingError"
	default:
		return "Error"
	}
}

// Error is the single error type raised by this module; its Kind selects
// which of spec.md §7's families it belongs to.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New constructs an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error of the given kind that chains a cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the chained cause to errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same Kind, the way VMError.Is does.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
