// Package compile implements the transition assembler, chain extractor, and
// compiler driver (spec.md §4.1-§4.3): the part of ribose that turns a
// per-transducer three-tape INR automaton into a compact kernel-matrix
// TransducerRecord.
package compile

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// InrHeader is the five-field header spec.md §4.1 describes as "received"
// by the header effector: version, tape count, transition count, state
// count, and symbol count, each a decimal integer.
type InrHeader struct {
	Version     int
	Tapes       int
	Transitions int
	States      int
	Symbols     int
}

// SupportedInrVersion is the INR format version this compiler accepts
// (spec.md §4.1: "validates version matches the compiler's supported INR
// version (e.g. 210)").
const SupportedInrVersion = 210

// ReadInr parses the line-oriented INR transition stream: a header line of
// five decimal fields, followed by one `from to tape symbol` line per
// transition. Symbols are either a bare decimal byte, a quoted literal, or
// a bareword (a signal/effector/parameter name) taken verbatim; this is the concrete
// realization this implementation gives spec.md's abstractly-described
// "three-tape input automaton" wire format (see DESIGN.md).
func ReadInr(r io.Reader) (InrHeader, []base.RawTransition, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var header InrHeader
	var haveHeader bool
	var transitions []base.RawTransition

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if !haveHeader {
			if len(fields) != 5 {
				return header, nil, errors.Errorf("inr: header expects 5 fields, got %d", len(fields))
			}
			vals := make([]int, 5)
			for i, f := range fields {
				v, err := strconv.Atoi(f)
				if err != nil {
					return header, nil, errors.Wrapf(err, "inr: header field %d", i)
				}
				vals[i] = v
			}
			header = InrHeader{Version: vals[0], Tapes: vals[1], Transitions: vals[2], States: vals[3], Symbols: vals[4]}
			haveHeader = true
			continue
		}
		t, err := parseTransitionLine(fields)
		if err != nil {
			return header, nil, err
		}
		transitions = append(transitions, t)
	}
	if err := scanner.Err(); err != nil {
		return header, nil, errors.Wrap(err, "inr: scan")
	}
	if !haveHeader {
		return header, nil, errors.New("inr: missing header")
	}
	return header, transitions, nil
}

func parseTransitionLine(fields []string) (base.RawTransition, error) {
	if len(fields) < 4 {
		return base.RawTransition{}, errors.Errorf("inr: transition expects at least 4 fields, got %d", len(fields))
	}
	from, err := strconv.Atoi(fields[0])
	if err != nil {
		return base.RawTransition{}, errors.Wrap(err, "inr: transition.from")
	}
	to, err := strconv.Atoi(fields[1])
	if err != nil {
		return base.RawTransition{}, errors.Wrap(err, "inr: transition.to")
	}
	tape, err := strconv.Atoi(fields[2])
	if err != nil {
		return base.RawTransition{}, errors.Wrap(err, "inr: transition.tape")
	}
	symbol, err := decodeSymbol(strings.Join(fields[3:], " "))
	if err != nil {
		return base.RawTransition{}, err
	}
	return base.RawTransition{From: from, To: to, Tape: base.Tape(tape), Symbol: symbol}, nil
}

// decodeSymbol accepts a bare decimal byte value ("65"), a Go-quoted
// literal ("\"kim,\""), or a bare bareword taken verbatim as its own bytes
// (e.g. effector and signal names on tapes 1/2, which are never ambiguous
// with a quoted literal).
func decodeSymbol(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if s[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil, errors.Wrapf(err, "inr: symbol literal %q", s)
		}
		return []byte(unquoted), nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return []byte{byte(v)}, nil
	}
	return []byte(s), nil
}
