package compile

import (
	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/model"
)

// RawAutomaton is the per-transducer structure the bootstrap Automaton
// (spec.md §4.1) hands to the assembler: for every (state, token) pair with
// an outgoing tape-0 edge, the chain of effects and the state the chain
// continues from.
type RawAutomaton struct {
	Name   string
	States int
	Chains map[int]map[base.Ordinal]base.Chain
}

// BuildAutomaton plays the role of spec.md §4.1's header/transition/
// automaton effector triple: it validates the INR header and folds the raw
// three-tape transition stream into a RawAutomaton, interning every signal,
// effector, and field name it encounters into the shared builder registries
// so that ordinals stay consistent across every transducer of one compile.
func BuildAutomaton(name string, header InrHeader, transitions []base.RawTransition, b *model.Builder, params *ParamTable) (*RawAutomaton, error) {
	if header.Version != SupportedInrVersion {
		return nil, errors.Errorf("automaton %s: unsupported INR version %d (want %d)", name, header.Version, SupportedInrVersion)
	}
	if header.Tapes != 3 {
		return nil, errors.Errorf("automaton %s: expected 3 tapes, got %d", name, header.Tapes)
	}
	if header.States <= 0 {
		return nil, errors.Errorf("automaton %s: non-positive state count %d", name, header.States)
	}

	adj := make(map[int][]base.RawTransition, header.States)
	for _, t := range transitions {
		adj[t.From] = append(adj[t.From], t)
	}
	walker := newChainWalker(adj, b, params)

	chains := make(map[int]map[base.Ordinal]base.Chain)
	for _, t := range transitions {
		if t.Tape != base.TapeInput {
			continue
		}
		if t.IsFinal() {
			continue
		}
		var tok base.Ordinal
		if base.ClassifyTape0(t.Symbol) == base.TokenLiteral {
			tok = base.Ordinal(t.Symbol[0])
		} else {
			tok = b.Signals.Intern(string(t.Symbol))
		}

		chain, err := walker.Extract(t.To)
		if err != nil {
			return nil, errors.Wrapf(err, "automaton %s: state %d, token %d", name, t.From, tok)
		}
		if chains[t.From] == nil {
			chains[t.From] = make(map[base.Ordinal]base.Chain)
		}
		chains[t.From][tok] = chain
	}

	return &RawAutomaton{Name: name, States: header.States, Chains: chains}, nil
}
