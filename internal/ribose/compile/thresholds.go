package compile

// Thresholds collects the trap-discovery minimums spec.md §9 leaves as an
// Open Question ("what are the exact thresholds"). This implementation
// fixes concrete values, chosen so that a trap only fires when it saves
// more than it costs: an msum/mscan bitmap parameter is one machine word,
// so it only pays for itself past a double-digit run of self-loop bytes;
// an mproduct run needs at least a few chained singleton states before a
// table-driven compare beats one inner-loop byte match per state.
type Thresholds struct {
	// MsumMin is the minimum number of distinct self-looping bytes at a
	// state before msum absorption replaces per-byte self-loop cells.
	MsumMin int
	// MscanMin is the minimum number of self-looping bytes (out of 256)
	// before mscan absorption replaces the single non-looping exception.
	MscanMin int
	// MproductMin is the minimum run length of chained singleton-byte
	// states before mproduct absorption collapses them into one effector.
	MproductMin int
}

// DefaultThresholds returns this compiler's fixed trap thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{MsumMin: 64, MscanMin: 255, MproductMin: 4}
}
