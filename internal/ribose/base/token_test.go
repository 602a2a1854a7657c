package base

import "testing"

func TestClassifyTape0(t *testing.T) {
	if got := ClassifyTape0([]byte("a")); got != TokenLiteral {
		t.Errorf("ClassifyTape0(single byte) = %v, want TokenLiteral", got)
	}
	if got := ClassifyTape0([]byte("eos")); got != TokenSignal {
		t.Errorf("ClassifyTape0(multi-byte name) = %v, want TokenSignal", got)
	}
}

func TestClassifyTape2Sigils(t *testing.T) {
	cases := []struct {
		symbol string
		want   TokenKind
	}{
		{"~field", TokenField},
		{"@sub", TokenTransducer},
		{"!sig", TokenSignal},
		{"literal", TokenLiteral},
		{"", TokenLiteral},
	}
	for _, c := range cases {
		if got := ClassifyTape2([]byte(c.symbol)); got != c.want {
			t.Errorf("ClassifyTape2(%q) = %v, want %v", c.symbol, got, c.want)
		}
	}
}
