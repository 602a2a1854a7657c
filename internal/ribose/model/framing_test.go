package model

import (
	"testing"
)

func TestWriterReaderI32RoundTrip(t *testing.T) {
	w := NewWriter()
	w.I32(-7)
	w.I32(1<<30 + 1)

	r := NewReader(w.Bytes())
	got1, err := r.I32()
	if err != nil || got1 != -7 {
		t.Fatalf("I32() = (%d,%v), want (-7,nil)", got1, err)
	}
	got2, err := r.I32()
	if err != nil || got2 != 1<<30+1 {
		t.Fatalf("I32() = (%d,%v), want (%d,nil)", got2, err, 1<<30+1)
	}
}

func TestWriterReaderI64RoundTrip(t *testing.T) {
	w := NewWriter()
	w.I64(-1)
	r := NewReader(w.Bytes())
	got, err := r.I64()
	if err != nil || got != -1 {
		t.Fatalf("I64() = (%d,%v), want (-1,nil)", got, err)
	}
}

func TestByteStringNilEncodesAsLengthMinusOne(t *testing.T) {
	w := NewWriter()
	w.ByteString(nil)
	w.ByteString([]byte{})
	w.ByteString([]byte("hi"))

	r := NewReader(w.Bytes())
	b1, err := r.ByteString()
	if err != nil || b1 != nil {
		t.Fatalf("ByteString() = (%v,%v), want (nil,nil)", b1, err)
	}
	b2, err := r.ByteString()
	if err != nil || b2 == nil || len(b2) != 0 {
		t.Fatalf("ByteString() = (%v,%v), want (empty non-nil,nil)", b2, err)
	}
	b3, err := r.ByteString()
	if err != nil || string(b3) != "hi" {
		t.Fatalf("ByteString() = (%q,%v), want (\"hi\",nil)", b3, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.String("greetings")
	r := NewReader(w.Bytes())
	got, err := r.String()
	if err != nil || got != "greetings" {
		t.Fatalf("String() = (%q,%v), want (\"greetings\",nil)", got, err)
	}
}

func TestIntArrayRoundTrip(t *testing.T) {
	w := NewWriter()
	w.IntArray([]int32{3, -1, 42})
	r := NewReader(w.Bytes())
	got, err := r.IntArray()
	if err != nil {
		t.Fatalf("IntArray: %v", err)
	}
	want := []int32{3, -1, 42}
	if len(got) != len(want) {
		t.Fatalf("IntArray() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IntArray()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestReaderRejectsTruncatedBuffer(t *testing.T) {
	w := NewWriter()
	w.I32(1)
	buf := w.Bytes()[:2] // truncate mid-integer
	r := NewReader(buf)
	if _, err := r.I32(); err == nil {
		t.Fatalf("I32() on a truncated buffer succeeded, want an error")
	}
}

func TestReaderSeekRepositionsCursor(t *testing.T) {
	w := NewWriter()
	w.I32(1)
	w.I32(2)
	r := NewReader(w.Bytes())
	r.Seek(4)
	got, err := r.I32()
	if err != nil || got != 2 {
		t.Fatalf("I32() after Seek(4) = (%d,%v), want (2,nil)", got, err)
	}
	if r.Offset() != 8 {
		t.Fatalf("Offset() = %d, want 8", r.Offset())
	}
}

func TestByteStringRejectsNegativeLengthOtherThanSentinel(t *testing.T) {
	w := NewWriter()
	w.I32(-2)
	r := NewReader(w.Bytes())
	if _, err := r.ByteString(); err == nil {
		t.Fatalf("ByteString() accepted length -2, want an error")
	}
}
