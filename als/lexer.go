package als

import (
	"strings"

	"github.com/k0kubun/alsdef/alserrors"
)

// delimiters terminate an (unescaped) raw run anywhere in the streams
// region: whitespace, the structural punctuation, and newline.
func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '|', '>', '*', '~', ':', '(', ')', '#', '$':
		return true
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// lexer is a one-pass, byte-position-tracking scanner over raw input bytes
// with a single token of lookahead (peeked). It never decodes escapes: the
// val of a raw-value token is the literal escaped wire text, which is
// exactly the canonical token form operator.Raw and dictionary entries
// store.
type lexer struct {
	s       string
	pos     int
	peeked  *token
}

func newLexer(s string) *lexer { return &lexer{s: s} }

func (lx *lexer) atEOF() bool { return lx.pos >= len(lx.s) }

func (lx *lexer) byteAt(p int) byte {
	if p >= len(lx.s) {
		return 0
	}
	return lx.s[p]
}

func (lx *lexer) skipInlineSpace() {
	for lx.pos < len(lx.s) && (lx.s[lx.pos] == ' ' || lx.s[lx.pos] == '\t') {
		lx.pos++
	}
}

func (lx *lexer) peek() (token, error) {
	if lx.peeked == nil {
		t, err := lx.scan()
		if err != nil {
			return token{}, err
		}
		lx.peeked = &t
	}
	return *lx.peeked, nil
}

func (lx *lexer) next() (token, error) {
	if lx.peeked != nil {
		t := *lx.peeked
		lx.peeked = nil
		return t, nil
	}
	return lx.scan()
}

// scan produces the next structural or atom token, skipping inline
// whitespace (but not newlines, which are significant between regions).
func (lx *lexer) scan() (token, error) {
	lx.skipInlineSpace()
	start := lx.pos
	if lx.atEOF() {
		return token{typ: tEOF, pos: start}, nil
	}

	b := lx.s[lx.pos]
	switch b {
	case '\n':
		lx.pos++
		return token{typ: tNewline, pos: start}, nil
	case '|':
		lx.pos++
		return token{typ: tPipe, pos: start}, nil
	case '>':
		lx.pos++
		return token{typ: tRangeOp, pos: start}, nil
	case '*':
		lx.pos++
		return token{typ: tMulOp, pos: start}, nil
	case '~':
		lx.pos++
		return token{typ: tToggleOp, pos: start}, nil
	case ':':
		lx.pos++
		return token{typ: tColon, pos: start}, nil
	case '(':
		lx.pos++
		return token{typ: tLParen, pos: start}, nil
	case ')':
		lx.pos++
		return token{typ: tRParen, pos: start}, nil
	case '$':
		lx.pos++
		return token{typ: tDictHeader, pos: start}, nil
	case '#':
		lx.pos++
		return token{typ: tSchemaCol, pos: start}, nil
	case '!':
		return lx.scanVersion(start)
	case '_':
		if isDigit(lx.byteAt(lx.pos + 1)) {
			return lx.scanDictRef(start)
		}
	}

	if b == '-' || isDigit(b) {
		if t, ok, err := lx.tryScanNumber(start); err != nil {
			return token{}, err
		} else if ok {
			return t, nil
		}
	}

	return lx.scanRawValue(start)
}

func (lx *lexer) scanVersion(start int) (token, error) {
	rest := lx.s[lx.pos:]
	if strings.HasPrefix(rest, "!ctx") {
		lx.pos += len("!ctx")
		return token{typ: tVersion, val: "ctx", pos: start}, nil
	}
	if strings.HasPrefix(rest, "!v") {
		p := lx.pos + 2
		digitsStart := p
		for p < len(lx.s) && isDigit(lx.s[p]) {
			p++
		}
		if p == digitsStart {
			return token{}, &alserrors.AlsSyntaxError{Position: start, Message: "expected digits after !v"}
		}
		val := lx.s[digitsStart:p]
		lx.pos = p
		return token{typ: tVersion, val: val, pos: start}, nil
	}
	return token{}, &alserrors.AlsSyntaxError{Position: start, Message: "unrecognized '!' header"}
}

func (lx *lexer) scanDictRef(start int) (token, error) {
	lx.pos++ // consume '_'
	digitsStart := lx.pos
	for lx.pos < len(lx.s) && isDigit(lx.s[lx.pos]) {
		lx.pos++
	}
	return token{typ: tDictRef, val: lx.s[digitsStart:lx.pos], pos: start}, nil
}

// tryScanNumber attempts to scan Integer/Float at the current position
// without consuming on failure. It only succeeds if the numeric run ends
// exactly at a delimiter or EOF (no stray raw-value characters glued on),
// and contains no backslash escapes.
func (lx *lexer) tryScanNumber(start int) (token, bool, error) {
	p := lx.pos
	if p < len(lx.s) && lx.s[p] == '-' {
		p++
	}
	digitsStart := p
	for p < len(lx.s) && isDigit(lx.s[p]) {
		p++
	}
	if p == digitsStart {
		return token{}, false, nil
	}

	isFloat := false
	if p < len(lx.s) && lx.s[p] == '.' {
		fracStart := p + 1
		q := fracStart
		for q < len(lx.s) && isDigit(lx.s[q]) {
			q++
		}
		if q > fracStart {
			isFloat = true
			p = q
			if p < len(lx.s) && (lx.s[p] == 'e' || lx.s[p] == 'E') {
				expPos := p + 1
				if expPos < len(lx.s) && (lx.s[expPos] == '+' || lx.s[expPos] == '-') {
					expPos++
				}
				expDigitsStart := expPos
				for expPos < len(lx.s) && isDigit(lx.s[expPos]) {
					expPos++
				}
				if expPos > expDigitsStart {
					p = expPos
				}
			}
		}
	}

	if p < len(lx.s) && !isDelimiter(lx.s[p]) {
		// Glued-on raw-value characters (or an escape) mean this is not a
		// bare numeric atom; fall through to raw-value scanning.
		return token{}, false, nil
	}

	val := lx.s[lx.pos:p]
	lx.pos = p
	typ := tInteger
	if isFloat {
		typ = tFloat
	}
	return token{typ: typ, val: val, pos: start}, true, nil
}

// validEscape reports whether b is a byte Decode knows how to unescape:
// one of the whitespace escapes or a reserved punctuation rune (see
// escape.Decode). scanRawValue never decodes, but it still must reject an
// unknown escape sequence at tokenize time per the AlsSyntaxError contract
// rather than silently passing it through to a decode that never happens.
func validEscape(b byte) bool {
	switch b {
	case 'n', 't', 'r', ' ', '\\', '>', '*', '~', '|', '_', '#', '$', ':':
		return true
	}
	return false
}

// scanRawValue reads an escaped run of non-delimiter bytes verbatim
// (escapes are not decoded here, only walked over so an escaped delimiter
// doesn't terminate the run). The null and empty sentinels `\0` and `\e`
// are accepted only as a whole token.
func (lx *lexer) scanRawValue(start int) (token, error) {
	rest := lx.s[lx.pos:]
	if strings.HasPrefix(rest, `\0`) || strings.HasPrefix(rest, `\e`) {
		end := lx.pos + 2
		if end >= len(lx.s) || isDelimiter(lx.s[end]) {
			val := lx.s[lx.pos:end]
			lx.pos = end
			return token{typ: tRawValue, val: val, pos: start}, nil
		}
	}
	p := lx.pos
	for p < len(lx.s) {
		b := lx.s[p]
		if b == '\\' {
			if p+1 >= len(lx.s) {
				return token{}, &alserrors.AlsSyntaxError{Position: p, Message: "trailing backslash"}
			}
			if !validEscape(lx.s[p+1]) {
				return token{}, &alserrors.AlsSyntaxError{Position: p, Message: "unrecognized escape"}
			}
			p += 2
			continue
		}
		if isDelimiter(b) {
			break
		}
		p++
	}
	val := lx.s[lx.pos:p]
	lx.pos = p
	if val == "" {
		return token{}, &alserrors.AlsSyntaxError{Position: start, Message: "empty token"}
	}
	return token{typ: tRawValue, val: val, pos: start}, nil
}
