package base

// Built-in effector ordinals. Ordinals 0 and 1 are sentinel actions that may
// never be invoked directly (spec.md §6): 0 is the self-loop no-op, 1 is
// "nil" (accept and continue). The rest of the built-in set occupies
// ordinals 2..19, prepended to every model's effector namespace.
const (
	EffNone Ordinal = 0 // self-loop sentinel; action == 0
	EffNil  Ordinal = 1 // accept-and-continue; action == 1

	EffPaste Ordinal = iota
	EffSelect
	EffCopy
	EffCut
	EffClear
	EffCount
	EffSignal
	EffIn
	EffOut
	EffMark
	EffReset
	EffStart
	EffPause
	EffStop
	EffMsum
	EffMproduct
	EffMscan
	EffNul

	// BuiltinEffectorCount is the number of built-in effector ordinals,
	// i.e. the ordinal at which a target's own effectors begin.
	BuiltinEffectorCount = int(EffNul) + 1
)

// BuiltinEffectorNames lists built-in effector byte-names in ordinal order,
// starting at EffNone.
var BuiltinEffectorNames = []string{
	"0", "1",
	"paste", "select", "copy", "cut", "clear", "count", "signal",
	"in", "out", "mark", "reset", "start", "pause", "stop",
	"msum", "mproduct", "mscan", "nul",
}

// KernelCell is one entry of the kernel transition matrix: where to go next,
// and what to do getting there.
//
// Action encodes, per spec.md §3:
//
//	0            no effector; NextState must equal the current state
//	1            "nil": accept and continue, no effector
//	small > 1    a built-in or target scalar effector ordinal
//	packed word  a single parameterized effector (effector, parameter)
//	negative     index into the effector-vector pool
type KernelCell struct {
	NextState int
	Action    int64
}

// Packed-parametric action words fit in one 32-bit machine word (spec.md
// §3) so that the sparse on-disk matrix encoding (i32 actions) can carry
// them directly. Bit 30 marks the word as a packed (effector, parameter)
// pair rather than a bare scalar ordinal; bit 31 stays clear so the value
// is never mistaken for a negative effector-vector-pool index.
const (
	parametricMarker = int64(1) << 30
	paramBits        = 14
	paramMask        = int64(1)<<paramBits - 1
)

// PackParametric encodes a single parameterized effector invocation into
// one action word: effector ordinal and parameter index packed into a
// positive 32-bit value, distinguishable from both a bare scalar ordinal
// (always below the marker bit) and a vector-pool index (always negative).
func PackParametric(effector Ordinal, param int) int64 {
	return parametricMarker | int64(effector)<<paramBits | (int64(param) & paramMask)
}

// IsParametric reports whether an action word encodes a packed parametric
// effector invocation.
func IsParametric(action int64) bool {
	return action >= parametricMarker && action < parametricMarker<<1
}

// UnpackParametric decomposes a packed parametric action word.
func UnpackParametric(action int64) (effector Ordinal, param int) {
	rest := action &^ parametricMarker
	effector = Ordinal(rest >> paramBits)
	param = int(rest & paramMask)
	return
}

// KernelMatrix is the rectangular [state][class] -> (next_state, action)
// table produced by row factoring (spec.md §4.2 Step A). Rows are input
// equivalence classes, columns are states, matching the assembler's
// raw[token][state] orientation; Get/Set index by (state, class) for
// runtime-lookup convenience.
type KernelMatrix struct {
	NumStates  int
	NumClasses int
	cells      []KernelCell // class-major: cells[class*NumStates+state]
}

// NewKernelMatrix allocates a matrix of the given dimensions with every
// cell defaulted to the zero-action self-loop.
func NewKernelMatrix(states, classes int) *KernelMatrix {
	m := &KernelMatrix{NumStates: states, NumClasses: classes, cells: make([]KernelCell, states*classes)}
	for s := 0; s < states; s++ {
		for c := 0; c < classes; c++ {
			m.Set(s, c, KernelCell{NextState: s, Action: 0})
		}
	}
	return m
}

func (m *KernelMatrix) index(state, class int) int { return class*m.NumStates + state }

// Get returns the cell at (state, class).
func (m *KernelMatrix) Get(state, class int) KernelCell { return m.cells[m.index(state, class)] }

// Set writes the cell at (state, class).
func (m *KernelMatrix) Set(state, class int, cell KernelCell) {
	m.cells[m.index(state, class)] = cell
}

// EquivalenceMap maps every token ordinal in [0, signalLimit) to its class
// index. It is recomputed each time the assembler re-factors the matrix.
type EquivalenceMap struct {
	SignalLimit int
	classes     []int
	NumClasses  int
}

// NewEquivalenceMap allocates an identity-sized map; Set must be called for
// every ordinal before the map is used.
func NewEquivalenceMap(signalLimit int) *EquivalenceMap {
	return &EquivalenceMap{SignalLimit: signalLimit, classes: make([]int, signalLimit)}
}

// Class returns the equivalence class for a token ordinal.
func (e *EquivalenceMap) Class(token Ordinal) int {
	if int(token) < 0 || int(token) >= len(e.classes) {
		return -1
	}
	return e.classes[token]
}

// Set assigns a token ordinal to a class.
func (e *EquivalenceMap) Set(token Ordinal, class int) {
	e.classes[token] = class
	if class >= e.NumClasses {
		e.NumClasses = class + 1
	}
}

// EffectorVectorPool is the flat, 0-terminated array of effector ordinals
// and parameter indices referenced by negative kernel actions. Offset 0 is
// always the single terminator.
type EffectorVectorPool struct {
	Pool []int64
}

// NewEffectorVectorPool returns a pool pre-seeded with the offset-0
// terminator.
func NewEffectorVectorPool() *EffectorVectorPool {
	return &EffectorVectorPool{Pool: []int64{0}}
}

// Append writes a 0-terminated sequence to the pool and returns its
// starting offset.
func (p *EffectorVectorPool) Append(seq []int64) int {
	offset := len(p.Pool)
	p.Pool = append(p.Pool, seq...)
	p.Pool = append(p.Pool, 0)
	return offset
}

// Sequence returns the 0-terminated run of actions starting at offset,
// excluding the terminator.
func (p *EffectorVectorPool) Sequence(offset int) []int64 {
	end := offset
	for p.Pool[end] != 0 {
		end++
	}
	return p.Pool[offset:end]
}

// TrapTables holds the compile-time trap annotations synthesized by the
// static walk over the kernel matrix (spec.md §3, Trap tables). Each slice
// is addressed by a trap's ParamIndex, the same index a parametric kernel
// action (spec.md §3) packs alongside msum/mscan/mproduct's effector
// ordinal, so the runtime resolves a trap in one slice lookup.
type TrapTables struct {
	Sum     []SumTrap
	Scan    []ScanTrap
	Product []ProductTrap
}

// NewTrapTables returns empty trap tables.
func NewTrapTables() *TrapTables {
	return &TrapTables{}
}

// AddSum appends a SumTrap, returning its ParamIndex.
func (t *TrapTables) AddSum(bitmap [256]bool) int {
	idx := len(t.Sum)
	t.Sum = append(t.Sum, SumTrap{ParamIndex: idx, Bitmap: bitmap})
	return idx
}

// AddScan appends a ScanTrap, returning its ParamIndex.
func (t *TrapTables) AddScan(matchByte byte) int {
	idx := len(t.Scan)
	t.Scan = append(t.Scan, ScanTrap{ParamIndex: idx, MatchByte: matchByte})
	return idx
}

// AddProduct appends a ProductTrap, returning its ParamIndex.
func (t *TrapTables) AddProduct(bytes []byte, endState int) int {
	idx := len(t.Product)
	t.Product = append(t.Product, ProductTrap{ParamIndex: idx, Bytes: bytes, EndState: endState})
	return idx
}

// SumTrap records an msum fast path: the bitmap of self-looping bytes at a
// state, interned as a compile-time parameter.
type SumTrap struct {
	ParamIndex int
	Bitmap     [256]bool
}

// ScanTrap records an mscan fast path: the single byte that is not part of
// a state's near-total self loop.
type ScanTrap struct {
	ParamIndex int
	MatchByte  byte
}

// ProductTrap records an mproduct fast path: a linear run of singleton-byte
// states compressed to one effector invocation.
type ProductTrap struct {
	ParamIndex int
	Bytes      []byte
	EndState   int
}

// TransducerRecord is the serialized output of compiling one INR automaton:
// everything the runtime needs to drive that transducer.
type TransducerRecord struct {
	Name       string
	TargetName string
	Eq         *EquivalenceMap
	Kernel     *KernelMatrix
	Vectors    *EffectorVectorPool
	Traps      *TrapTables
	NumFields  int
}
