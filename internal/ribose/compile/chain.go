package compile

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/model"
)

// ParamTable interns effector parameter-token arrays, deduplicating
// identical parameter lists to the same index the way the signal/field/
// effector registries dedupe names (spec.md §3: the model's effector
// parameter table is itself an interning table, one array of token-arrays
// per effector ordinal).
type ParamTable struct {
	lists map[base.Ordinal][][]base.Token
	index map[base.Ordinal]map[string]int
}

// NewParamTable returns an empty parameter table.
func NewParamTable() *ParamTable {
	return &ParamTable{lists: map[base.Ordinal][][]base.Token{}, index: map[base.Ordinal]map[string]int{}}
}

// Intern returns the parameter index for tokens under effector, assigning a
// fresh one if this exact token array hasn't been seen for that effector.
func (p *ParamTable) Intern(effector base.Ordinal, tokens []base.Token) int {
	if p.index[effector] == nil {
		p.index[effector] = map[string]int{}
	}
	key := paramKey(tokens)
	if idx, ok := p.index[effector][key]; ok {
		return idx
	}
	idx := len(p.lists[effector])
	p.lists[effector] = append(p.lists[effector], tokens)
	p.index[effector][key] = idx
	return idx
}

func paramKey(tokens []base.Token) string {
	s := ""
	for _, t := range tokens {
		s += fmt.Sprintf("%d:%d:%q:%q|", t.Kind, t.Ref, t.Literal, t.Name)
	}
	return s
}

// Apply installs every interned parameter list into the builder, sized to
// cover every effector ordinal the builder's effector registry knows about.
func (p *ParamTable) Apply(b *model.Builder) {
	n := b.Effectors.Len()
	for ord := base.Ordinal(0); int(ord) < n; ord++ {
		b.SetEffectorParams(ord, p.lists[ord])
	}
}

// chainWalker extracts the effector-vector/continuation-state chain
// following a tape-0 transition (spec.md §4.3): starting at the state the
// tape-0 transition landed in, it walks tape-1 (effector name) edges, each
// optionally followed by one or more tape-2 (parameter) edges, until it
// reaches a state with an outgoing tape-0 edge (the continuation state) or
// a dead end (a final chain, continuation 0).
type chainWalker struct {
	adj    map[int][]base.RawTransition
	b      *model.Builder
	params *ParamTable
}

func newChainWalker(adj map[int][]base.RawTransition, b *model.Builder, params *ParamTable) *chainWalker {
	return &chainWalker{adj: adj, b: b, params: params}
}

// Extract walks the chain starting at state `start`.
func (w *chainWalker) Extract(start int) (base.Chain, error) {
	var steps []base.ChainStep
	current := start

	for {
		outs := w.adj[current]
		if len(outs) == 0 {
			return finishChain(steps, 0), nil
		}

		var tape0, tape1 *base.RawTransition
		var tape1Count int
		tape0Dup := false
		tape0Seen := map[string]bool{}
		for i := range outs {
			switch outs[i].Tape {
			case base.TapeInput:
				sym := string(outs[i].Symbol)
				if tape0Seen[sym] {
					tape0Dup = true
				}
				tape0Seen[sym] = true
				if tape0 == nil {
					tape0 = &outs[i]
				}
			case base.TapeEffector:
				tape1Count++
				if tape1 == nil {
					tape1 = &outs[i]
				}
			}
		}
		if tape0Dup || tape1Count > 1 {
			return base.Chain{}, errors.Errorf("chain: ambiguous state %d", current)
		}

		if tape0 != nil {
			return finishChain(steps, current), nil
		}
		if tape1 == nil {
			return finishChain(steps, 0), nil
		}

		effOrd := w.b.Effectors.Intern(string(tape1.Symbol))
		next := tape1.To

		paramTokens, afterParams, err := w.collectParams(next)
		if err != nil {
			return base.Chain{}, err
		}
		if len(paramTokens) == 0 {
			steps = append(steps, base.ChainStep{Effector: effOrd})
			current = next
			continue
		}
		idx := w.params.Intern(effOrd, paramTokens)
		steps = append(steps, base.ChainStep{Effector: effOrd, Param: idx, HasParam: true})
		current = afterParams
	}
}

// collectParams walks consecutive tape-2 edges from state s, resolving each
// symbol to a typed token (spec.md §4.3's field/transducer/signal sigils, or
// a literal), and returns the resulting token array plus the state the last
// parameter edge landed in.
func (w *chainWalker) collectParams(s int) ([]base.Token, int, error) {
	var tokens []base.Token
	for {
		outs := w.adj[s]
		var tape2 *base.RawTransition
		var tape2Count int
		for i := range outs {
			if outs[i].Tape == base.TapeParam {
				tape2Count++
				if tape2 == nil {
					tape2 = &outs[i]
				}
			}
		}
		if tape2Count > 1 {
			return nil, s, errors.Errorf("chain: ambiguous state %d", s)
		}
		if tape2 == nil {
			return tokens, s, nil
		}
		tok, err := w.classifyParam(tape2.Symbol)
		if err != nil {
			return nil, s, err
		}
		tokens = append(tokens, tok)
		s = tape2.To
	}
}

func (w *chainWalker) classifyParam(symbol []byte) (base.Token, error) {
	switch base.ClassifyTape2(symbol) {
	case base.TokenField:
		name := string(symbol[1:])
		return base.Token{Kind: base.TokenField, Ref: w.b.Fields.Intern(name)}, nil
	case base.TokenTransducer:
		name := symbol[1:]
		return base.Token{Kind: base.TokenTransducer, Name: append([]byte(nil), name...)}, nil
	case base.TokenSignal:
		name := string(symbol[1:])
		return base.Token{Kind: base.TokenSignal, Ref: w.b.Signals.Intern(name)}, nil
	case base.TokenLiteral:
		return base.Token{Kind: base.TokenLiteral, Literal: append([]byte(nil), symbol...)}, nil
	default:
		return base.Token{}, errors.Errorf("chain: unrecognized parameter symbol %q", symbol)
	}
}

func finishChain(steps []base.ChainStep, continuation int) base.Chain {
	kind := base.ChainEmpty
	switch {
	case len(steps) == 0:
		kind = base.ChainEmpty
	case len(steps) == 1 && steps[0].HasParam:
		kind = base.ChainParametric
	case len(steps) == 1:
		kind = base.ChainScalar
	default:
		kind = base.ChainVector
	}
	return base.Chain{Steps: steps, Continuation: continuation, Kind: kind}
}
