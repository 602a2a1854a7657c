package compile

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// Assembler turns a RawAutomaton into a compact TransducerRecord, running
// the transition-assembly passes of spec.md §4.2 in this order:
//
//	A. row factoring        - group equivalent input tokens into classes
//	B. trap discovery       - find msum/mscan/mproduct fast paths
//	C. effect-vector splicing - fold multi-effector chains into the pool
//	D. vector pool materialization
//	E. dead-state elimination
//	F. re-factor            - classes may have merged further after E
//
// Steps C and D happen inline while the raw per-token matrix is built
// (every RawTransition chain is visited exactly once either way); B is
// applied to that raw matrix before A's class grouping, so that every byte
// a trap absorbs lands in one equivalence class together.
type Assembler struct {
	Thresholds Thresholds
}

// NewAssembler returns an assembler using the default trap thresholds.
func NewAssembler() *Assembler {
	return &Assembler{Thresholds: DefaultThresholds()}
}

// Assemble compiles one RawAutomaton into its TransducerRecord and trap
// tables. startState is the automaton's entry state (by INR convention,
// state 0); after dead-state elimination the record's own state numbering
// always places the entry state at index 0.
func (a *Assembler) Assemble(ra *RawAutomaton, targetName string, signalLimit, startState, numFields int) (*base.TransducerRecord, *base.TrapTables, error) {
	pool := base.NewEffectorVectorPool()

	wide := base.NewKernelMatrix(ra.States, signalLimit)
	for s, toks := range ra.Chains {
		for tok, chain := range toks {
			action := actionForSteps(chain.Steps, pool)
			next := chainNextState(chain, startState)
			wide.Set(s, int(tok), base.KernelCell{NextState: next, Action: action})
		}
	}

	traps := base.NewTrapTables()
	discoverSumScanTraps(wide, ra.States, a.Thresholds, traps)
	discoverProductTraps(wide, ra.States, a.Thresholds, traps)

	classOf, numClasses, repr := factorColumns(signalLimit, ra.States, func(col, s int) base.KernelCell {
		return wide.Get(s, col)
	})
	eq := base.NewEquivalenceMap(signalLimit)
	for tok := 0; tok < signalLimit; tok++ {
		eq.Set(base.Ordinal(tok), classOf[tok])
	}
	factored := base.NewKernelMatrix(ra.States, numClasses)
	for ci, col := range repr {
		for s := 0; s < ra.States; s++ {
			factored.Set(s, ci, wide.Get(s, col))
		}
	}

	order, newIndex := eliminateDeadStates(factored, startState)
	pruned := base.NewKernelMatrix(len(order), numClasses)
	for ni, old := range order {
		for c := 0; c < numClasses; c++ {
			cell := factored.Get(old, c)
			cell.NextState = newIndex[cell.NextState]
			pruned.Set(ni, c, cell)
		}
	}

	classOf2, numClasses2, repr2 := factorColumns(numClasses, len(order), func(col, s int) base.KernelCell {
		return pruned.Get(s, col)
	})
	eq2 := base.NewEquivalenceMap(signalLimit)
	for tok := 0; tok < signalLimit; tok++ {
		eq2.Set(base.Ordinal(tok), classOf2[eq.Class(base.Ordinal(tok))])
	}
	final := base.NewKernelMatrix(len(order), numClasses2)
	for ci, col := range repr2 {
		for s := 0; s < len(order); s++ {
			final.Set(s, ci, pruned.Get(s, col))
		}
	}

	rec := &base.TransducerRecord{
		Name: ra.Name, TargetName: targetName,
		Eq: eq2, Kernel: final, Vectors: pool, Traps: traps, NumFields: numFields,
	}
	return rec, traps, nil
}

// actionForSteps computes a kernel cell's action word for a chain's effector
// steps (Step C/D): 0 for an empty chain, a bare ordinal for a single
// unparameterized effector, a packed word for a single parameterized one,
// and for two or more steps, a 0-terminated sequence spliced into the
// vector pool with the cell holding that sequence's negated offset.
func actionForSteps(steps []base.ChainStep, pool *base.EffectorVectorPool) int64 {
	switch len(steps) {
	case 0:
		return 0
	case 1:
		return stepWord(steps[0])
	default:
		seq := make([]int64, len(steps))
		for i, st := range steps {
			seq[i] = stepWord(st)
		}
		offset := pool.Append(seq)
		return -int64(offset)
	}
}

func stepWord(st base.ChainStep) int64 {
	if st.HasParam {
		return base.PackParametric(st.Effector, st.Param)
	}
	return int64(st.Effector)
}

// chainNextState resolves a chain's continuation state: the state its walk
// ended at, or the automaton's start state if the walk reached a true dead
// end (spec.md §4.1's "final" transition re-enters the transducer at its
// start state).
func chainNextState(chain base.Chain, startState int) int {
	if chain.Continuation == 0 {
		return startState
	}
	return chain.Continuation
}

// factorColumns groups numCols columns (each states-tall) by structural
// equality, assigning class ids in first-seen column order. get(col, s)
// reads the cell for column col at state s.
func factorColumns(numCols, states int, get func(col, s int) base.KernelCell) (classOf []int, numClasses int, repr []int) {
	classOf = make([]int, numCols)
	seen := make(map[string]int, numCols)
	for col := 0; col < numCols; col++ {
		sig := columnSignature(states, col, get)
		if id, ok := seen[sig]; ok {
			classOf[col] = id
			continue
		}
		id := len(repr)
		seen[sig] = id
		classOf[col] = id
		repr = append(repr, col)
	}
	return classOf, len(repr), repr
}

func columnSignature(states, col int, get func(col, s int) base.KernelCell) string {
	var sb strings.Builder
	for s := 0; s < states; s++ {
		c := get(col, s)
		fmt.Fprintf(&sb, "%d,%d;", c.NextState, c.Action)
	}
	return sb.String()
}

// discoverSumScanTraps finds, per state, a near-total byte self-loop: all
// 256 bytes but one (mscan) or at least Thresholds.MsumMin of them (msum)
// looping back with no effect. Matched cells are rewritten in place to the
// trap's parametric action so the runtime can absorb the whole run in one
// step instead of walking it byte by byte.
func discoverSumScanTraps(wide *base.KernelMatrix, states int, th Thresholds, traps *base.TrapTables) {
	for s := 0; s < states; s++ {
		var selfLoop []byte
		nonLoop := -1
		nonLoopCount := 0
		for b := 0; b < 256; b++ {
			cell := wide.Get(s, b)
			if cell.NextState == s && cell.Action == 0 {
				selfLoop = append(selfLoop, byte(b))
			} else {
				nonLoopCount++
				nonLoop = b
			}
		}
		n := len(selfLoop)
		switch {
		case n >= th.MscanMin && nonLoopCount == 1:
			idx := traps.AddScan(byte(nonLoop))
			for _, b := range selfLoop {
				wide.Set(s, int(b), base.KernelCell{NextState: s, Action: base.PackParametric(base.EffMscan, idx)})
			}
		case n >= th.MsumMin:
			var bitmap [256]bool
			for _, b := range selfLoop {
				bitmap[b] = true
			}
			idx := traps.AddSum(bitmap)
			for _, b := range selfLoop {
				wide.Set(s, int(b), base.KernelCell{NextState: s, Action: base.PackParametric(base.EffMsum, idx)})
			}
		}
	}
}

// discoverProductTraps finds chains of states joined by a single
// unparameterized byte transition each (no other meaningful outgoing edge)
// and collapses runs of at least Thresholds.MproductMin of them into one
// mproduct invocation matching the whole literal byte sequence at once.
func discoverProductTraps(wide *base.KernelMatrix, states int, th Thresholds, traps *base.TrapTables) {
	consumed := make([]bool, states)
	for s := 0; s < states; s++ {
		if consumed[s] {
			continue
		}
		b0, target0, ok := singletonEdge(wide, s, states)
		if !ok {
			continue
		}
		run := []byte{b0}
		cur := target0
		for len(run) < states {
			b, target, ok := singletonEdge(wide, cur, states)
			if !ok {
				break
			}
			run = append(run, b)
			cur = target
		}
		if len(run) < th.MproductMin {
			continue
		}
		idx := traps.AddProduct(run, cur)
		wide.Set(s, int(run[0]), base.KernelCell{NextState: cur, Action: base.PackParametric(base.EffMproduct, idx)})
		consumed[s] = true
	}
}

// singletonEdge reports whether state s has exactly one outgoing byte
// transition that both leaves s and carries no effector, the shape
// discoverProductTraps chains together.
func singletonEdge(wide *base.KernelMatrix, s, states int) (symbol byte, target int, ok bool) {
	found := false
	for b := 0; b < 256; b++ {
		cell := wide.Get(s, b)
		if cell.NextState == s && cell.Action == 0 {
			continue
		}
		if cell.Action != 0 {
			return 0, 0, false
		}
		if found {
			return 0, 0, false
		}
		found = true
		symbol, target = byte(b), cell.NextState
	}
	return symbol, target, found
}

// eliminateDeadStates walks the matrix from startState and returns the
// reachable states in traversal order (start first, so its new index is
// always 0) together with the old-to-new state index map (Step E).
func eliminateDeadStates(k *base.KernelMatrix, startState int) (order []int, newIndex map[int]int) {
	visited := treeset.NewWith(utils.IntComparator)
	visited.Add(startState)
	queue := []int{startState}
	order = []int{startState}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for c := 0; c < k.NumClasses; c++ {
			next := k.Get(s, c).NextState
			if !visited.Contains(next) {
				visited.Add(next)
				queue = append(queue, next)
				order = append(order, next)
			}
		}
	}
	newIndex = make(map[int]int, len(order))
	for i, s := range order {
		newIndex[s] = i
	}
	return order, newIndex
}
