package als

import (
	"strconv"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/operator"
)

// MaxSupportedVersion is the highest ALS version this implementation
// accepts; anything newer is a VersionMismatch.
const MaxSupportedVersion = 1

// parser consumes the token stream produced by a lexer and builds an
// operator.Document. It is a straightforward recursive-descent
// implementation of the §4.5 grammar; the only lookahead it ever needs is
// the single peeked token the lexer already provides.
type parser struct {
	lx               *lexer
	maxRangeExpansion int64
}

// ParseDocument parses a complete ALS (or CTX) document. maxRangeExpansion
// bounds any Range operator encountered, per config.max_range_expansion.
func ParseDocument(input string, maxRangeExpansion int64) (*operator.Document, error) {
	p := &parser{lx: newLexer(input), maxRangeExpansion: maxRangeExpansion}
	return p.parseDocument()
}

func (p *parser) parseDocument() (*operator.Document, error) {
	doc := &operator.Document{
		Version:      1,
		Format:       operator.FormatALS,
		Dictionaries: map[string][]string{},
	}

	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.typ == tVersion {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		if tok.val == "ctx" {
			doc.Format = operator.FormatCTX
			doc.Version = 0
		} else {
			v, convErr := strconv.Atoi(tok.val)
			if convErr != nil {
				return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "malformed version digits"}
			}
			if v > MaxSupportedVersion {
				return nil, &alserrors.VersionMismatch{Expected: MaxSupportedVersion, Found: v}
			}
			doc.Version = v
		}
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
	}

	for {
		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if tok.typ != tDictHeader {
			break
		}
		name, values, err := p.parseDictHeader()
		if err != nil {
			return nil, err
		}
		doc.Dictionaries[name] = values
	}

	schema, err := p.parseSchema()
	if err != nil {
		return nil, err
	}
	doc.Schema = schema

	streams, err := p.parseStreams()
	if err != nil {
		return nil, err
	}
	if len(streams) != len(schema) {
		return nil, &alserrors.ColumnMismatch{Schema: len(schema), Data: len(streams)}
	}
	doc.Streams = streams

	return doc, nil
}

func (p *parser) expectNewline() error {
	tok, err := p.lx.next()
	if err != nil {
		return err
	}
	if tok.typ != tNewline {
		return &alserrors.AlsSyntaxError{Position: tok.pos, Message: "expected newline"}
	}
	return nil
}

// parseDictHeader parses "$" IDENT ":" VALUE ("|" VALUE)* up to (and
// consuming) the terminating newline.
func (p *parser) parseDictHeader() (string, []string, error) {
	if _, err := p.lx.next(); err != nil { // consume '$'
		return "", nil, err
	}
	name, err := p.scanIdent()
	if err != nil {
		return "", nil, err
	}
	colon, err := p.lx.next()
	if err != nil {
		return "", nil, err
	}
	if colon.typ != tColon {
		return "", nil, &alserrors.AlsSyntaxError{Position: colon.pos, Message: "expected ':' after dictionary name"}
	}

	// Re-scan directly off the lexer's raw byte stream because dictionary
	// values are delimited by '|' but may themselves contain the escaped
	// sentinel forms '\0'/'\e', same rule as any other raw run.
	values, err := p.scanDelimitedValues('|')
	if err != nil {
		return "", nil, err
	}
	if err := p.expectNewline(); err != nil {
		return "", nil, err
	}
	return name, values, nil
}

// scanIdent reads a bare [A-Za-z0-9_.]+ identifier straight off the
// lexer's underlying bytes (dictionary names are not escape-coded).
func (p *parser) scanIdent() (string, error) {
	p.lx.skipInlineSpace()
	start := p.lx.pos
	for p.lx.pos < len(p.lx.s) && isIdentByte(p.lx.s[p.lx.pos]) {
		p.lx.pos++
	}
	if p.lx.pos == start {
		return "", &alserrors.AlsSyntaxError{Position: start, Message: "expected identifier"}
	}
	p.lx.peeked = nil
	return p.lx.s[start:p.lx.pos], nil
}

// scanDelimitedValues reads one or more escaped raw runs separated by sep,
// stopping at newline/EOF.
func (p *parser) scanDelimitedValues(sep byte) ([]string, error) {
	var out []string
	for {
		val, err := p.scanRawRunUntil(sep)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
		if p.lx.pos < len(p.lx.s) && p.lx.s[p.lx.pos] == sep {
			p.lx.pos++
			continue
		}
		break
	}
	p.lx.peeked = nil
	return out, nil
}

// scanRawRunUntil reads an escaped run terminated by sep, newline, or EOF.
// sep == 0 means "no extra separator" (stop only at newline/EOF).
func (p *parser) scanRawRunUntil(sep byte) (string, error) {
	return p.scanRawRunUntilAny(string(sep))
}

// scanRawRunUntilAny reads an escaped run terminated by any byte in seps,
// newline, or EOF.
func (p *parser) scanRawRunUntilAny(seps string) (string, error) {
	start := p.lx.pos
	q := start
	for q < len(p.lx.s) {
		b := p.lx.s[q]
		if b == '\\' {
			if q+1 >= len(p.lx.s) {
				return "", &alserrors.AlsSyntaxError{Position: q, Message: "trailing backslash"}
			}
			q += 2
			continue
		}
		if b == '\n' || (b != 0 && indexByte(seps, b)) {
			break
		}
		q++
	}
	val := p.lx.s[start:q]
	p.lx.pos = q
	return val, nil
}

func indexByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

// parseSchema parses one or more "#" IDENT tokens up to (and consuming)
// the terminating newline.
func (p *parser) parseSchema() ([]string, error) {
	var schema []string
	for {
		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if tok.typ != tSchemaCol {
			break
		}
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		name, err := p.scanRawRunUntilAny(" \t")
		if err != nil {
			return nil, err
		}
		schema = append(schema, name)
		p.lx.peeked = nil
		p.lx.skipInlineSpace()
	}
	if len(schema) == 0 {
		tok, _ := p.lx.peek()
		return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "expected at least one schema column"}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return schema, nil
}

// parseStreams parses Stream ( "|" Stream )* with no trailing "|",
// continuing until EOF. Newlines within this region are ignored (handled
// inside parseStream), so the only separator that starts a new stream is
// '|'.
func (p *parser) parseStreams() ([]operator.ColumnStream, error) {
	var streams []operator.ColumnStream
	for {
		stream, err := p.parseStream()
		if err != nil {
			return nil, err
		}
		streams = append(streams, stream)

		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if tok.typ == tPipe {
			if _, err := p.lx.next(); err != nil {
				return nil, err
			}
			continue
		}
		if tok.typ != tEOF {
			return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "unbalanced parenthesis"}
		}
		break
	}
	return streams, nil
}

// parseStream parses Operator ( WS Operator )*, ignoring newlines (a
// single stream may span multiple lines), and stops at '|', ')', or EOF —
// the only tokens that actually close a stream.
func (p *parser) parseStream() (operator.ColumnStream, error) {
	var ops []operator.Operator
	for {
		tok, err := p.lx.peek()
		if err != nil {
			return operator.ColumnStream{}, err
		}
		if tok.typ == tNewline {
			if _, err := p.lx.next(); err != nil {
				return operator.ColumnStream{}, err
			}
			continue
		}
		if tok.typ == tPipe || tok.typ == tEOF || tok.typ == tRParen {
			break
		}
		op, err := p.parseOperator()
		if err != nil {
			return operator.ColumnStream{}, err
		}
		ops = append(ops, op)
	}
	return operator.ColumnStream{Operators: ops}, nil
}

// parseOperator implements:
//   Operator := Atom MulSuffix? | Atom ToggleTail | Range MulSuffix?
//             | "(" Operator ")" MulSuffix?
func (p *parser) parseOperator() (operator.Operator, error) {
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}

	if tok.typ == tLParen {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		inner, err := p.parseOperator()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if closeTok.typ != tRParen {
			return nil, &alserrors.AlsSyntaxError{Position: closeTok.pos, Message: "unbalanced parenthesis"}
		}
		return p.maybeMulSuffix(inner)
	}

	if tok.typ == tInteger {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		rangeTok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if rangeTok.typ == tRangeOp {
			first, convErr := strconv.ParseInt(tok.val, 10, 64)
			if convErr != nil {
				return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "integer out of range"}
			}
			return p.parseRangeFrom(first)
		}
		return p.finishAtomOperator(operator.NewRaw(tok.val))
	}

	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return p.finishAtomOperator(atom)
}

// finishAtomOperator applies an optional MulSuffix or ToggleTail to a
// freshly parsed atom.
func (p *parser) finishAtomOperator(atom operator.Operator) (operator.Operator, error) {
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	switch tok.typ {
	case tMulOp:
		return p.maybeMulSuffix(atom)
	case tToggleOp:
		return p.parseToggleTail(atom)
	default:
		return atom, nil
	}
}

func (p *parser) maybeMulSuffix(inner operator.Operator) (operator.Operator, error) {
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.typ != tMulOp {
		return inner, nil
	}
	if _, err := p.lx.next(); err != nil {
		return nil, err
	}
	countTok, err := p.lx.next()
	if err != nil {
		return nil, err
	}
	if countTok.typ != tInteger {
		return nil, &alserrors.AlsSyntaxError{Position: countTok.pos, Message: "expected integer multiply count"}
	}
	count, convErr := strconv.Atoi(countTok.val)
	if convErr != nil {
		return nil, &alserrors.AlsSyntaxError{Position: countTok.pos, Message: "malformed multiply count"}
	}
	return operator.NewMultiply(inner, count), nil
}

// parseToggleTail parses "~" Atom ( "~" Atom )* MulSuffix?, given the
// first value already parsed as atom.
func (p *parser) parseToggleTail(first operator.Operator) (operator.Operator, error) {
	firstTok, err := atomToken(first)
	if err != nil {
		return nil, err
	}
	values := []string{firstTok}
	for {
		tok, err := p.lx.peek()
		if err != nil {
			return nil, err
		}
		if tok.typ != tToggleOp {
			break
		}
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		nextTok, err := atomToken(next)
		if err != nil {
			return nil, err
		}
		values = append(values, nextTok)
	}

	mulTok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	count := 1
	if mulTok.typ == tMulOp {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		countTok, err := p.lx.next()
		if err != nil {
			return nil, err
		}
		if countTok.typ != tInteger {
			return nil, &alserrors.AlsSyntaxError{Position: countTok.pos, Message: "expected integer multiply count"}
		}
		count, err = strconv.Atoi(countTok.val)
		if err != nil {
			return nil, &alserrors.AlsSyntaxError{Position: countTok.pos, Message: "malformed multiply count"}
		}
	}

	tg, err := operator.NewToggle(values, count)
	if err != nil {
		if se, ok := err.(*alserrors.AlsSyntaxError); ok {
			return nil, se
		}
		return nil, err
	}
	return tg, nil
}

// atomToken recovers the canonical token text of an already-parsed atom
// operator, for use as a Toggle value. Toggle.Values is a []string of
// canonical cell tokens and Toggle.Expand never consults the document's
// dictionary, so a dictionary reference has no valid rendering as a
// toggle value: accepting one here would either lose the index silently
// or emit its literal "_<n>" text as cell content, both wrong. Reject it
// instead.
func atomToken(op operator.Operator) (string, error) {
	switch v := op.(type) {
	case *operator.Raw:
		return v.Token, nil
	default:
		return "", &alserrors.AlsSyntaxError{Message: "dictionary references are not supported as toggle values"}
	}
}

// parseAtom implements Atom := Integer | Float | RawValue | DictRef. The
// resulting operator.Raw/DictRef stores the token verbatim: no escape
// decoding happens here, per the codec's canonical-token design (encoding
// happens once, via tabular.Value.Canonical on the write side, and decoding
// happens once, via escape.DecodeCell in compress.Decompress after
// expansion).
func (p *parser) parseAtom() (operator.Operator, error) {
	tok, err := p.lx.next()
	if err != nil {
		return nil, err
	}
	switch tok.typ {
	case tInteger, tFloat, tRawValue:
		return operator.NewRaw(tok.val), nil
	case tDictRef:
		idx, convErr := strconv.Atoi(tok.val)
		if convErr != nil {
			return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "malformed dictionary reference"}
		}
		return &operator.DictRef{Index: idx}, nil
	default:
		return nil, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "expected atom (integer, float, raw value, or dict ref)"}
	}
}

func (p *parser) consumeInteger() (int64, error) {
	tok, err := p.lx.next()
	if err != nil {
		return 0, err
	}
	if tok.typ != tInteger {
		return 0, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "expected integer"}
	}
	v, convErr := strconv.ParseInt(tok.val, 10, 64)
	if convErr != nil {
		return 0, &alserrors.AlsSyntaxError{Position: tok.pos, Message: "integer out of range"}
	}
	return v, nil
}

// parseRangeFrom parses the rest of Range := Integer ">" Integer (":"
// Integer)? given the leading Integer already consumed, and wraps it in a
// Range operator.
func (p *parser) parseRangeFrom(start int64) (operator.Operator, error) {
	if _, err := p.lx.next(); err != nil { // consume '>'
		return nil, err
	}
	end, err := p.consumeInteger()
	if err != nil {
		return nil, err
	}

	step := int64(1)
	if end < start {
		step = -1
	}
	tok, err := p.lx.peek()
	if err != nil {
		return nil, err
	}
	if tok.typ == tColon {
		if _, err := p.lx.next(); err != nil {
			return nil, err
		}
		step, err = p.consumeInteger()
		if err != nil {
			return nil, err
		}
	}

	rng, err := operator.NewRange(start, end, step, p.maxRangeExpansion)
	if err != nil {
		return nil, err
	}
	return p.maybeMulSuffix(rng)
}
