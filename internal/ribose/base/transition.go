package base

// Tape identifies one of the three tapes of the INR automaton: 0 is input,
// 1 is effector, 2 is parameter.
type Tape int8

const (
	TapeInput    Tape = 0
	TapeEffector Tape = 1
	TapeParam    Tape = 2
)

// RawTransition is a single transition as read from the INR stream, before
// chain extraction collapses tape-1/tape-2 tails into chains.
type RawTransition struct {
	From   int
	To     int
	Tape   Tape
	Symbol []byte
}

// IsFinal reports whether a transition is the distinguished final marker:
// an epsilon-length tape-0 transition into the accept state (state 1).
func (t RawTransition) IsFinal() bool {
	return t.To == 1 && t.Tape == TapeInput && len(t.Symbol) == 0
}

// ChainKind classifies the shape of an effector vector produced by the
// chain extractor (spec.md §4.3).
type ChainKind int

const (
	// ChainEmpty is the paste/no-op chain: just the terminating 0.
	ChainEmpty ChainKind = iota
	// ChainScalar is a single unparameterized effector.
	ChainScalar
	// ChainParametric is a single parameterized effector.
	ChainParametric
	// ChainVector is more than one effector.
	ChainVector
)

// ChainStep is one element of an effector vector: an effector ordinal,
// optionally negated to indicate a following parameter index.
type ChainStep struct {
	Effector Ordinal
	Param    int // valid only when Effector < 0 (parameterized)
	HasParam bool
}

// Chain is the (effector-vector, continuation-state) pair the chain
// extractor derives from a tape-0 transition's tape-1/tape-2 tail.
type Chain struct {
	Steps        []ChainStep // terminated conceptually by 0; Steps holds only the non-zero prefix
	Continuation int         // outS: 0 if the chain ended at a final transition
	Kind         ChainKind
}
