package model

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Writer accumulates the big-endian, length-prefixed framing spec.md §6
// defines for the model file: fixed-width integers, length-prefixed byte
// strings (-1 for null, 0 for empty), length-prefixed int arrays, and the
// sparse transition matrix encoding.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf }

// Offset returns the current write position, usable as a file offset once
// the buffer is flushed at that point.
func (w *Writer) Offset() int64 { return int64(len(w.buf)) }

// I32 writes a big-endian 32-bit signed integer.
func (w *Writer) I32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

// I64 writes a big-endian 64-bit signed integer.
func (w *Writer) I64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf = append(w.buf, b[:]...)
}

// ByteString writes a length-prefixed byte string; nil is encoded as
// length -1.
func (w *Writer) ByteString(b []byte) {
	if b == nil {
		w.I32(-1)
		return
	}
	w.I32(int32(len(b)))
	w.buf = append(w.buf, b...)
}

// String is a convenience wrapper around ByteString for text fields.
func (w *Writer) String(s string) { w.ByteString([]byte(s)) }

// IntArray writes a length-prefixed array of i32 values.
func (w *Writer) IntArray(vals []int32) {
	w.I32(int32(len(vals)))
	for _, v := range vals {
		w.I32(v)
	}
}

// Reader parses the framing Writer produces, tracking a read cursor over an
// in-memory buffer (the model file is expected to be memory-mapped or fully
// read by the caller; see model.Loader).
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reads starting at offset 0.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Seek repositions the read cursor to an absolute offset.
func (r *Reader) Seek(offset int64) { r.pos = int(offset) }

// Offset returns the current read position.
func (r *Reader) Offset() int64 { return int64(r.pos) }

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return errors.Wrapf(io.ErrUnexpectedEOF, "model: need %d bytes at offset %d, have %d", n, r.pos, len(r.buf))
	}
	return nil
}

// I32 reads a big-endian 32-bit signed integer.
func (r *Reader) I32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

// I64 reads a big-endian 64-bit signed integer.
func (r *Reader) I64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.BigEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

// ByteString reads a length-prefixed byte string; length -1 decodes to nil,
// length 0 decodes to an empty (non-nil) slice.
func (r *Reader) ByteString() ([]byte, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	if n < 0 {
		return nil, errors.Errorf("model: negative byte-string length %d", n)
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return b, nil
}

// String reads a length-prefixed byte string as text.
func (r *Reader) String() (string, error) {
	b, err := r.ByteString()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IntArray reads a length-prefixed array of i32 values.
func (r *Reader) IntArray() ([]int32, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.Errorf("model: negative array length %d", n)
	}
	out := make([]int32, n)
	for i := range out {
		v, err := r.I32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
