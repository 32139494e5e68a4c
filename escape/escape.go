// Package escape implements the byte-exact escaping discipline the ALS wire
// grammar relies on: reserved characters inside a payload string are
// backslash-escaped, and two whole-cell sentinels stand in for the absent
// value and the empty string.
package escape

import (
	"fmt"
	"strings"
)

// NullSentinel and EmptySentinel are whole-cell tokens. They never appear as
// part of a larger escaped string; a caller must check for them before
// falling back to Decode.
const (
	NullSentinel  = `\0`
	EmptySentinel = `\e`
)

// reserved holds every rune that Encode backslash-escapes because the ALS
// grammar assigns it a structural meaning.
var reserved = map[rune]bool{
	'>': true, '*': true, '~': true, '|': true,
	'_': true, '#': true, '$': true, ':': true,
	'\\': true,
}

// SyntaxError reports a byte offset into the decoded input where escaping
// broke down.
type SyntaxError struct {
	Position int
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("escape syntax error at byte %d: %s", e.Position, e.Message)
}

// Encode escapes every reserved character and whitespace rune in s so that
// the result is safe to embed in an ALS token. It does not apply the
// whole-cell sentinels; callers producing a canonical cell form should use
// EncodeCell instead.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case ' ':
			b.WriteString(`\ `)
		default:
			if reserved[r] {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Decode is the exact inverse of Encode: decode(encode(s)) == s for every s
// with no sentinel content. It operates on Unicode scalar values and
// performs no normalisation or reordering.
func Decode(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	// bytePos tracks the byte offset of runes[i] within s, since errors are
	// reported as byte offsets per the wire-grammar contract.
	bytePos := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		bytePos[i] = pos
		pos += len(string(r))
	}
	bytePos[len(runes)] = pos

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			return "", &SyntaxError{Position: bytePos[i], Message: "trailing lone backslash"}
		}
		next := runes[i+1]
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case ' ':
			b.WriteByte(' ')
		case '\\':
			b.WriteByte('\\')
		default:
			if reserved[next] {
				b.WriteRune(next)
			} else {
				return "", &SyntaxError{
					Position: bytePos[i],
					Message:  fmt.Sprintf("unrecognized escape %q", `\`+string(next)),
				}
			}
		}
		i++
	}
	return b.String(), nil
}

// EncodeCell produces the canonical escaped form of a single cell: the null
// sentinel if isNull, the empty sentinel if s is empty, otherwise Encode(s).
func EncodeCell(s string, isNull bool) string {
	if isNull {
		return NullSentinel
	}
	if s == "" {
		return EmptySentinel
	}
	return Encode(s)
}

// DecodeCell is the inverse of EncodeCell. It reports isNull separately from
// the empty string so that callers can distinguish the two.
func DecodeCell(token string) (value string, isNull bool, err error) {
	switch token {
	case NullSentinel:
		return "", true, nil
	case EmptySentinel:
		return "", false, nil
	}
	value, err = Decode(token)
	return value, false, err
}
