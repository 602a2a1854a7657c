package base

// TokenKind classifies a tape-2 (parameter) token by the sigil on its first
// byte, or a tape-0/tape-1 token by its role.
type TokenKind uint8

const (
	// TokenLiteral is a literal byte sequence (tape 0 byte run, or a
	// literal parameter on tape 2).
	TokenLiteral TokenKind = iota
	// TokenSignal references a signal by ordinal (tape-0 token longer
	// than one byte, or a tape-2 signal sigil).
	TokenSignal
	// TokenField references a field by ordinal (tape-2 field sigil).
	TokenField
	// TokenTransducer references a transducer by name (tape-2 transducer
	// sigil, used by start/in parameters).
	TokenTransducer
)

// Tape-2 sigils, the first byte of a typed parameter token.
const (
	SigilField      byte = '~'
	SigilTransducer byte = '@'
	SigilSignal     byte = '!'
)

// Token is a single tape symbol as produced by the INR reader: a literal
// byte run, or (once typed) a reference into one of the ordinal namespaces.
type Token struct {
	Kind    TokenKind
	Literal []byte
	Ref     Ordinal
	Name    []byte // transducer name, when Kind == TokenTransducer
}

// ClassifyTape0 returns the TokenKind of a raw tape-0 symbol: a length-1 symbol is
// a literal byte, anything else is a signal reference (by name, resolved to
// an ordinal by the caller's signal registry).
func ClassifyTape0(symbol []byte) TokenKind {
	if len(symbol) == 1 {
		return TokenLiteral
	}
	return TokenSignal
}

// ClassifyTape2 classifies a tape-2 symbol by its leading sigil byte, the
// way the chain extractor (spec.md §4.3) needs to when assembling parameter
// token arrays.
func ClassifyTape2(symbol []byte) TokenKind {
	if len(symbol) == 0 {
		return TokenLiteral
	}
	switch symbol[0] {
	case SigilField:
		return TokenField
	case SigilTransducer:
		return TokenTransducer
	case SigilSignal:
		return TokenSignal
	default:
		return TokenLiteral
	}
}
