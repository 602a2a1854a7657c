package base

import "testing"

func TestOrdinalByteSignalClassification(t *testing.T) {
	cases := []struct {
		ord      Ordinal
		wantByte bool
		wantSig  bool
	}{
		{0, true, false},
		{255, true, false},
		{SignalBase, false, true},
		{SignalNul, false, true},
		{SignalEos, false, true},
		{-1, false, false},
	}
	for _, c := range cases {
		if got := c.ord.IsByte(); got != c.wantByte {
			t.Errorf("Ordinal(%d).IsByte() = %v, want %v", c.ord, got, c.wantByte)
		}
		if got := c.ord.IsSignal(); got != c.wantSig {
			t.Errorf("Ordinal(%d).IsSignal() = %v, want %v", c.ord, got, c.wantSig)
		}
	}
}

func TestBuiltinSignalOrdinalsSequential(t *testing.T) {
	if SignalNul != SignalBase {
		t.Fatalf("SignalNul = %d, want %d (SignalBase)", SignalNul, SignalBase)
	}
	if SignalNil != SignalNul+1 {
		t.Fatalf("SignalNil = %d, want SignalNul+1 = %d", SignalNil, SignalNul+1)
	}
	if SignalEos != SignalNil+1 {
		t.Fatalf("SignalEos = %d, want SignalNil+1 = %d", SignalEos, SignalNil+1)
	}
	if FirstUserSignal != SignalEos+1 {
		t.Fatalf("FirstUserSignal = %d, want SignalEos+1 = %d", FirstUserSignal, SignalEos+1)
	}
}

func TestNewKernelMatrixDefaultsToZeroActionSelfLoop(t *testing.T) {
	m := NewKernelMatrix(3, 2)
	for s := 0; s < 3; s++ {
		for c := 0; c < 2; c++ {
			cell := m.Get(s, c)
			if cell.Action != 0 || cell.NextState != s {
				t.Fatalf("Get(%d,%d) = %+v, want zero-action self loop", s, c, cell)
			}
		}
	}
}

func TestKernelMatrixSetGetRoundTrip(t *testing.T) {
	m := NewKernelMatrix(4, 4)
	m.Set(1, 2, KernelCell{NextState: 3, Action: int64(EffPaste)})
	got := m.Get(1, 2)
	if got.NextState != 3 || got.Action != int64(EffPaste) {
		t.Fatalf("Get(1,2) = %+v, want {NextState:3 Action:%d}", got, EffPaste)
	}
	// A cell at a different (state, class) must be untouched.
	other := m.Get(0, 0)
	if other.Action != 0 || other.NextState != 0 {
		t.Fatalf("unrelated cell mutated: %+v", other)
	}
}

func TestEquivalenceMapClassAssignment(t *testing.T) {
	e := NewEquivalenceMap(256)
	for b := 0; b < 256; b++ {
		e.Set(Ordinal(b), 0)
	}
	e.Set(Ordinal('\n'), 1)
	if e.Class(Ordinal('\n')) != 1 {
		t.Fatalf("Class('\\n') = %d, want 1", e.Class(Ordinal('\n')))
	}
	if e.Class(Ordinal('a')) != 0 {
		t.Fatalf("Class('a') = %d, want 0", e.Class(Ordinal('a')))
	}
	if e.NumClasses != 2 {
		t.Fatalf("NumClasses = %d, want 2", e.NumClasses)
	}
	if e.Class(-1) != -1 || e.Class(1000) != -1 {
		t.Fatalf("out-of-range Class lookups must return -1")
	}
}

func TestPackUnpackParametricRoundTrip(t *testing.T) {
	cases := []struct {
		eff   Ordinal
		param int
	}{
		{EffSelect, 0},
		{EffStart, 42},
		{EffMsum, 16383},
	}
	for _, c := range cases {
		action := PackParametric(c.eff, c.param)
		if !IsParametric(action) {
			t.Fatalf("IsParametric(PackParametric(%d,%d)) = false, want true", c.eff, c.param)
		}
		gotEff, gotParam := UnpackParametric(action)
		if gotEff != c.eff || gotParam != c.param {
			t.Fatalf("UnpackParametric(PackParametric(%d,%d)) = (%d,%d)", c.eff, c.param, gotEff, gotParam)
		}
	}
}

func TestIsParametricRejectsScalarAndVectorActions(t *testing.T) {
	if IsParametric(int64(EffPaste)) {
		t.Fatalf("a bare scalar ordinal must not be classified as parametric")
	}
	if IsParametric(-5) {
		t.Fatalf("a negative vector-pool offset must not be classified as parametric")
	}
}

func TestEffectorVectorPoolAppendSequenceRoundTrip(t *testing.T) {
	p := NewEffectorVectorPool()
	off1 := p.Append([]int64{int64(EffSelect), int64(EffCopy)})
	off2 := p.Append([]int64{int64(EffOut)})

	got1 := p.Sequence(off1)
	if len(got1) != 2 || got1[0] != int64(EffSelect) || got1[1] != int64(EffCopy) {
		t.Fatalf("Sequence(off1) = %v, want [select copy]", got1)
	}
	got2 := p.Sequence(off2)
	if len(got2) != 1 || got2[0] != int64(EffOut) {
		t.Fatalf("Sequence(off2) = %v, want [out]", got2)
	}
}

func TestTrapTablesAddReturnsSequentialParamIndex(t *testing.T) {
	tt := NewTrapTables()
	var bitmap [256]bool
	bitmap['a'] = true

	i0 := tt.AddSum(bitmap)
	i1 := tt.AddSum(bitmap)
	if i0 != 0 || i1 != 1 {
		t.Fatalf("AddSum indices = %d,%d, want 0,1", i0, i1)
	}
	if tt.Sum[i1].ParamIndex != i1 {
		t.Fatalf("SumTrap.ParamIndex = %d, want %d", tt.Sum[i1].ParamIndex, i1)
	}

	si := tt.AddScan('\n')
	if tt.Scan[si].MatchByte != '\n' {
		t.Fatalf("ScanTrap.MatchByte = %q, want '\\n'", tt.Scan[si].MatchByte)
	}

	pi := tt.AddProduct([]byte("abc"), 7)
	if tt.Product[pi].EndState != 7 || string(tt.Product[pi].Bytes) != "abc" {
		t.Fatalf("ProductTrap = %+v, want Bytes=abc EndState=7", tt.Product[pi])
	}
}

func TestBuiltinEffectorNamesMatchOrdinals(t *testing.T) {
	if len(BuiltinEffectorNames) != BuiltinEffectorCount {
		t.Fatalf("len(BuiltinEffectorNames) = %d, want BuiltinEffectorCount = %d",
			len(BuiltinEffectorNames), BuiltinEffectorCount)
	}
	if BuiltinEffectorNames[EffNone] != "0" || BuiltinEffectorNames[EffNil] != "1" {
		t.Fatalf("sentinel names = %q, %q, want \"0\", \"1\"", BuiltinEffectorNames[EffNone], BuiltinEffectorNames[EffNil])
	}
	if BuiltinEffectorNames[EffNul] != "nul" {
		t.Fatalf("BuiltinEffectorNames[EffNul] = %q, want \"nul\"", BuiltinEffectorNames[EffNul])
	}
}
