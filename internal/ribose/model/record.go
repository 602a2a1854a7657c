package model

import (
	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// EncodeRecord serializes a compiled transducer record using the framing
// spec.md §6 defines: name, target name, eq[], kernel matrix (sparse,
// row-major over states), effector-vector pool.
func EncodeRecord(w *Writer, rec *base.TransducerRecord) {
	w.String(rec.Name)
	w.String(rec.TargetName)
	w.I32(int32(rec.NumFields))

	eqArr := make([]int32, rec.Eq.SignalLimit)
	for i := 0; i < rec.Eq.SignalLimit; i++ {
		eqArr[i] = int32(rec.Eq.Class(base.Ordinal(i)))
	}
	w.IntArray(eqArr)

	k := rec.Kernel
	w.I32(int32(k.NumStates))
	w.I32(int32(k.NumClasses))
	for s := 0; s < k.NumStates; s++ {
		type entry struct {
			class int
			cell  base.KernelCell
		}
		var nonzero []entry
		for c := 0; c < k.NumClasses; c++ {
			cell := k.Get(s, c)
			if cell.NextState == s && cell.Action == 0 {
				continue
			}
			nonzero = append(nonzero, entry{c, cell})
		}
		w.I32(int32(len(nonzero)))
		for _, e := range nonzero {
			w.I32(int32(e.class))
			w.I32(int32(e.cell.NextState))
			w.I32(int32(e.cell.Action))
		}
	}

	pool := make([]int32, len(rec.Vectors.Pool))
	for i, v := range rec.Vectors.Pool {
		pool[i] = int32(v)
	}
	w.IntArray(pool)

	encodeTraps(w, rec.Traps)
}

// encodeTraps/decodeTraps frame the trap tables a transducer's msum/mscan/
// mproduct kernel actions index into by ParamIndex (spec.md §3 Trap
// tables).
func encodeTraps(w *Writer, traps *base.TrapTables) {
	if traps == nil {
		traps = base.NewTrapTables()
	}
	w.I32(int32(len(traps.Sum)))
	for _, t := range traps.Sum {
		bitmap := make([]int32, 256)
		for i, set := range t.Bitmap {
			if set {
				bitmap[i] = 1
			}
		}
		w.IntArray(bitmap)
	}
	w.I32(int32(len(traps.Scan)))
	for _, t := range traps.Scan {
		w.I32(int32(t.MatchByte))
	}
	w.I32(int32(len(traps.Product)))
	for _, t := range traps.Product {
		w.ByteString(t.Bytes)
		w.I32(int32(t.EndState))
	}
}

func decodeTraps(r *Reader) (*base.TrapTables, error) {
	traps := base.NewTrapTables()

	sumCount, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: trap sum count")
	}
	for i := int32(0); i < sumCount; i++ {
		bitmapArr, err := r.IntArray()
		if err != nil {
			return nil, errors.Wrap(err, "model: trap sum bitmap")
		}
		var bitmap [256]bool
		for j, v := range bitmapArr {
			bitmap[j] = v != 0
		}
		traps.AddSum(bitmap)
	}

	scanCount, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: trap scan count")
	}
	for i := int32(0); i < scanCount; i++ {
		b, err := r.I32()
		if err != nil {
			return nil, errors.Wrap(err, "model: trap scan byte")
		}
		traps.AddScan(byte(b))
	}

	productCount, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: trap product count")
	}
	for i := int32(0); i < productCount; i++ {
		bytes, err := r.ByteString()
		if err != nil {
			return nil, errors.Wrap(err, "model: trap product bytes")
		}
		endState, err := r.I32()
		if err != nil {
			return nil, errors.Wrap(err, "model: trap product end state")
		}
		traps.AddProduct(bytes, int(endState))
	}

	return traps, nil
}

// DecodeRecord reads back a transducer record written by EncodeRecord.
func DecodeRecord(r *Reader) (*base.TransducerRecord, error) {
	name, err := r.String()
	if err != nil {
		return nil, errors.Wrap(err, "model: record name")
	}
	target, err := r.String()
	if err != nil {
		return nil, errors.Wrap(err, "model: record target name")
	}
	numFields, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: record field count")
	}

	eqArr, err := r.IntArray()
	if err != nil {
		return nil, errors.Wrap(err, "model: record eq[]")
	}
	eq := base.NewEquivalenceMap(len(eqArr))
	for i, c := range eqArr {
		eq.Set(base.Ordinal(i), int(c))
	}

	numStates, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: record kernel rows")
	}
	numClasses, err := r.I32()
	if err != nil {
		return nil, errors.Wrap(err, "model: record kernel cols")
	}
	kernel := base.NewKernelMatrix(int(numStates), int(numClasses))
	for s := 0; s < int(numStates); s++ {
		count, err := r.I32()
		if err != nil {
			return nil, errors.Wrapf(err, "model: record kernel row %d count", s)
		}
		for i := int32(0); i < count; i++ {
			class, err := r.I32()
			if err != nil {
				return nil, err
			}
			next, err := r.I32()
			if err != nil {
				return nil, err
			}
			action, err := r.I32()
			if err != nil {
				return nil, err
			}
			kernel.Set(s, int(class), base.KernelCell{NextState: int(next), Action: int64(action)})
		}
	}

	poolArr, err := r.IntArray()
	if err != nil {
		return nil, errors.Wrap(err, "model: record vector pool")
	}
	pool := &base.EffectorVectorPool{Pool: make([]int64, len(poolArr))}
	for i, v := range poolArr {
		pool.Pool[i] = int64(v)
	}
	if len(pool.Pool) == 0 {
		pool.Pool = []int64{0}
	}

	traps, err := decodeTraps(r)
	if err != nil {
		return nil, err
	}

	return &base.TransducerRecord{
		Name: name, TargetName: target, NumFields: int(numFields),
		Eq: eq, Kernel: kernel, Vectors: pool, Traps: traps,
	}, nil
}
