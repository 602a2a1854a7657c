package rterr

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// StackFrame is the minimal snapshot of a transducer-stack entry a domain
// error diagnostic needs to render; the runtime fills one in per live
// frame.
type StackFrame struct {
	Transducer string
	State      int
}

// DomainDiagnostic renders the formatted diagnostic spec.md §7 requires for
// a DomainError: the offending byte, its equivalence class, the transducer
// stack, and nearby input bytes.
func DomainDiagnostic(transducer string, state int, class int, offending byte, nearby []byte, stack []StackFrame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "domain error in transducer %q at state %d: input byte 0x%02X maps to equivalence class %d with no transition\n", transducer, state, offending, class)
	fmt.Fprintf(&b, "nearby input: %q\n", string(nearby))
	b.WriteString("transducer stack:\n")
	b.WriteString(spew.Sdump(stack))
	return b.String()
}

// NewDomainError builds the *Error for an unrecovered nul signal, with the
// rendered diagnostic as its message.
func NewDomainError(transducer string, state int, class int, offending byte, nearby []byte, stack []StackFrame) *Error {
	return New(KindDomain, DomainDiagnostic(transducer, state, class, offending, nearby, stack))
}
