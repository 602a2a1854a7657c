package model

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// Digest returns the hex-encoded blake2b-256 digest of a transducer
// record's serialized bytes. Two compiles of the same INR automaton must
// produce the same digest (spec.md §8's bytewise-identical idempotence
// property); the compiler uses this to populate the optional `digest`
// record in the companion .map file (SPEC_FULL.md §7).
func Digest(rec *base.TransducerRecord) string {
	w := NewWriter()
	EncodeRecord(w, rec)
	sum := blake2b.Sum256(w.Bytes())
	return hex.EncodeToString(sum[:])
}
