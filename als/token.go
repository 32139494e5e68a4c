// Package als implements the ALS wire grammar: a one-pass tokenizer with a
// single token of lookahead, a recursive-descent parser that builds an
// operator.Document, and a canonical serializer. Grounded on the compact
// hand-rolled rune scanner style used throughout the example pack (see
// tinySQL's lexer) rather than the teacher's goyacc-generated SQL grammar,
// which has no structural analogue to ALS's tiny stream language.
package als

type tokenType int

const (
	tEOF tokenType = iota
	tVersion     // !v<digits> or !ctx
	tDictHeader  // $
	tSchemaCol   // #
	tInteger
	tFloat
	tRawValue
	tDictRef // _<digits>
	tPipe    // |
	tRangeOp // >
	tMulOp   // *
	tToggleOp // ~
	tColon    // :
	tLParen   // (
	tRParen   // )
	tNewline
)

func (t tokenType) String() string {
	switch t {
	case tEOF:
		return "EOF"
	case tVersion:
		return "version"
	case tDictHeader:
		return "dict-header"
	case tSchemaCol:
		return "schema-column"
	case tInteger:
		return "integer"
	case tFloat:
		return "float"
	case tRawValue:
		return "raw-value"
	case tDictRef:
		return "dict-ref"
	case tPipe:
		return "|"
	case tRangeOp:
		return ">"
	case tMulOp:
		return "*"
	case tToggleOp:
		return "~"
	case tColon:
		return ":"
	case tLParen:
		return "("
	case tRParen:
		return ")"
	case tNewline:
		return "newline"
	default:
		return "unknown"
	}
}

type token struct {
	typ tokenType
	val string
	pos int
}
