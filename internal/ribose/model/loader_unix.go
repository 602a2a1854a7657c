//go:build unix

package model

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// mmapFile memory-maps f read-only for its full size, per spec.md §5
// ("The model file is memory-mapped or accessed via positioned reads").
func mmapFile(f *os.File, size int64) ([]byte, func() error, error) {
	if size == 0 {
		return nil, func() error { return nil }, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, rterr.Wrap(rterr.KindModel, err, "model: mmap")
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
