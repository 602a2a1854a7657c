package model

import (
	"os"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/ribose-rt/ribose/internal/ribose/base"
	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// latch states for a per-transducer lazy load (spec.md §3 Lifecycle):
// 0 = absent, 1 = loading, 2 = ready. The state only ever advances
// 0 -> 1 -> 2 (spec.md §8 "Lazy-load monotonicity").
const (
	latchAbsent  = 0
	latchLoading = 1
	latchReady   = 2
)

// Loader owns the memory-mapped model file and the per-ordinal lazy-load
// state. Concurrent requesters of a not-yet-loaded ordinal are deduplicated
// onto one real load via singleflight, which gives the same observable
// behavior as a spin-on-CAS latch (spec.md §5 "concurrent requesters
// spin... until the state reaches ready") without busy-waiting.
type Loader struct {
	file   *os.File
	mapped []byte
	unmap  func() error
	byName map[string]int64 // transducer name -> file offset

	latches []atomic.Uint32
	records []atomic.Pointer[base.TransducerRecord]
	group   singleflight.Group
}

func newLoader(path string) (*Loader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, rterr.Wrap(rterr.KindModel, err, "model: open "+path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, rterr.Wrap(rterr.KindModel, err, "model: stat "+path)
	}
	mapped, unmap, err := mmapFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Loader{file: f, mapped: mapped, unmap: unmap}, nil
}

// initLatches sizes the lazy-load bookkeeping once the transducer index
// has been read. latches/records are indexed by transducer ordinal, which
// the transducer registry keeps dense starting at 0.
func (l *Loader) initLatches(offsetsByName map[string]int64) {
	l.byName = offsetsByName
	n := len(offsetsByName)
	l.latches = make([]atomic.Uint32, n)
	l.records = make([]atomic.Pointer[base.TransducerRecord], n)
}

func (l *Loader) close() error {
	if l.unmap != nil {
		if err := l.unmap(); err != nil {
			return err
		}
	}
	return l.file.Close()
}

// load returns the transducer record for ordinal/name, loading it from the
// mapped file on first reference.
func (l *Loader) load(ordinal int, name string) (*base.TransducerRecord, error) {
	if rec := l.records[ordinal].Load(); rec != nil {
		return rec, nil
	}

	v, err, _ := l.group.Do(name, func() (interface{}, error) {
		if rec := l.records[ordinal].Load(); rec != nil {
			return rec, nil
		}
		l.latches[ordinal].Store(latchLoading)
		off, ok := l.byName[name]
		if !ok {
			return nil, rterr.Newf(rterr.KindModel, "model: no offset for transducer %q", name)
		}
		r := NewReader(l.mapped)
		r.Seek(off)
		rec, err := DecodeRecord(r)
		if err != nil {
			return nil, rterr.Wrap(rterr.KindModel, err, "model: decode transducer "+name)
		}
		rec.Name = name
		l.records[ordinal].Store(rec)
		l.latches[ordinal].Store(latchReady)
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*base.TransducerRecord), nil
}
