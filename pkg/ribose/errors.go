package ribose

import "github.com/ribose-rt/ribose/internal/ribose/rterr"

// ErrorKind distinguishes the five error families Ribose can raise.
type ErrorKind = rterr.Kind

const (
	// ModelError covers a corrupt/incompatible model file, a missing
	// transducer, or a target mismatch.
	ModelError = rterr.KindModel
	// CompilationError covers ambiguous states, invalid tape numbers,
	// unknown effector/signal/field references, epsilon transitions,
	// empty symbols, and invalid INR headers.
	CompilationError = rterr.KindCompilation
	// EffectorError covers host effector failures, invalid parameters,
	// output sink failures, and re-entering an active trap mode.
	EffectorError = rterr.KindEffector
	// DomainError covers an unrecovered nul signal.
	DomainError = rterr.KindDomain
	// TargetBindingError covers effector-name or parameter mismatches at
	// bind time.
	TargetBindingError = rterr.KindTargetBinding
)

// Error is the single error type Ribose raises; its Kind selects which
// family above it belongs to. Use errors.As to recover it and errors.Is
// to compare against one of the Kind constants wrapped in an *Error.
type Error = rterr.Error
