package model

import (
	"github.com/pkg/errors"

	"github.com/ribose-rt/ribose/internal/ribose/base"
)

// encodeToken/decodeToken frame a single base.Token for storage in a
// model's per-effector parameter-token arrays (spec.md §3 "Model file").
func encodeToken(w *Writer, t base.Token) {
	w.I32(int32(t.Kind))
	w.I32(int32(t.Ref))
	w.ByteString(t.Literal)
	w.ByteString(t.Name)
}

func decodeToken(r *Reader) (base.Token, error) {
	kind, err := r.I32()
	if err != nil {
		return base.Token{}, err
	}
	ref, err := r.I32()
	if err != nil {
		return base.Token{}, err
	}
	lit, err := r.ByteString()
	if err != nil {
		return base.Token{}, err
	}
	name, err := r.ByteString()
	if err != nil {
		return base.Token{}, err
	}
	return base.Token{Kind: base.TokenKind(kind), Ref: base.Ordinal(ref), Literal: lit, Name: name}, nil
}

// encodeParamArray/decodeParamArray frame one interned parameter (an array
// of tokens) for an effector's parameter table.
func encodeParamArray(w *Writer, tokens []base.Token) {
	w.I32(int32(len(tokens)))
	for _, t := range tokens {
		encodeToken(w, t)
	}
}

func decodeParamArray(r *Reader) ([]base.Token, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errors.Errorf("model: negative parameter token count %d", n)
	}
	out := make([]base.Token, n)
	for i := range out {
		t, err := decodeToken(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// encodeEffectorParams/decodeEffectorParams frame the full per-effector
// parameter table: one array of parameter-token-arrays per effector
// ordinal, in ordinal order.
func encodeEffectorParams(w *Writer, params [][][]base.Token) {
	w.I32(int32(len(params)))
	for _, perEffector := range params {
		w.I32(int32(len(perEffector)))
		for _, tokens := range perEffector {
			encodeParamArray(w, tokens)
		}
	}
}

func decodeEffectorParams(r *Reader) ([][][]base.Token, error) {
	n, err := r.I32()
	if err != nil {
		return nil, err
	}
	out := make([][][]base.Token, n)
	for i := range out {
		m, err := r.I32()
		if err != nil {
			return nil, err
		}
		perEffector := make([][]base.Token, m)
		for j := range perEffector {
			tokens, err := decodeParamArray(r)
			if err != nil {
				return nil, err
			}
			perEffector[j] = tokens
		}
		out[i] = perEffector
	}
	return out, nil
}
