//go:build !unix

package model

import (
	"io"
	"os"

	"github.com/ribose-rt/ribose/internal/ribose/rterr"
)

// mmapFile falls back to a positioned full read on non-unix platforms,
// satisfying the same "memory-mapped or accessed via positioned reads"
// contract (spec.md §5) without the unix-only mmap syscall.
func mmapFile(f *os.File, size int64) ([]byte, func() error, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, size), buf); err != nil {
		return nil, nil, rterr.Wrap(rterr.KindModel, err, "model: positioned read")
	}
	return buf, func() error { return nil }, nil
}
