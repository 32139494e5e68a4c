package als

import (
	"fmt"
	"strings"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/internal/alsutil"
	"github.com/k0kubun/alsdef/operator"
)

// headerEscape escapes the structurally significant bytes of a schema
// column name: space and '#' (the tokens that would otherwise be read back
// as a new column), plus '\', '\n', '\r', '|'. Schema names are plain strings
// supplied by the caller, not canonical cell tokens, so this is a genuine
// serialize-time escape — unlike dictionary values and Raw/Toggle payloads,
// which already went through tabular.Value.Canonical upstream and are
// written verbatim here.
func headerEscape(s string, extra string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '|':
			b.WriteString(`\|`)
		default:
			if strings.ContainsRune(extra, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Serialize renders a Document as canonical ALS (or CTX) text per §4.5:
// version header, dictionaries in sorted key order, schema, then streams.
func Serialize(doc *operator.Document) (string, error) {
	var b strings.Builder

	switch doc.Format {
	case operator.FormatCTX:
		b.WriteString("!ctx\n")
	case operator.FormatALS:
		if doc.Version != 0 {
			fmt.Fprintf(&b, "!v%d\n", doc.Version)
		}
	default:
		return "", fmt.Errorf("unknown document format %v", doc.Format)
	}

	for name, values := range alsutil.CanonicalMapIter(doc.Dictionaries) {
		b.WriteByte('$')
		b.WriteString(name)
		b.WriteByte(':')
		for i, v := range values {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString(v)
		}
		b.WriteByte('\n')
	}

	for i, col := range doc.Schema {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('#')
		b.WriteString(headerEscape(col, " #"))
	}
	b.WriteByte('\n')

	for i, stream := range doc.Streams {
		if i > 0 {
			b.WriteByte('|')
		}
		if err := serializeStream(&b, stream); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

func serializeStream(b *strings.Builder, stream operator.ColumnStream) error {
	for i, op := range stream.Operators {
		if i > 0 {
			b.WriteByte(' ')
		}
		if err := serializeOperator(b, op, false); err != nil {
			return err
		}
	}
	return nil
}

// serializeOperator writes op's canonical textual form. parenthesize
// forces wrapping regardless of op's own kind, used when an outer Multiply
// wraps a non-trivial inner operator.
func serializeOperator(b *strings.Builder, op operator.Operator, parenthesize bool) error {
	if parenthesize {
		b.WriteByte('(')
		if err := serializeOperator(b, op, false); err != nil {
			return err
		}
		b.WriteByte(')')
		return nil
	}
	switch v := op.(type) {
	case *operator.Raw:
		b.WriteString(v.Token)
		return nil
	case *operator.DictRef:
		fmt.Fprintf(b, "_%d", v.Index)
		return nil
	case *operator.Range:
		writeRange(b, v)
		return nil
	case *operator.Toggle:
		writeToggle(b, v)
		return nil
	case *operator.Multiply:
		needsParens := true
		switch v.Inner.(type) {
		case *operator.Range, *operator.Toggle, *operator.Multiply:
			needsParens = true
		default:
			needsParens = false
		}
		if needsParens {
			b.WriteByte('(')
		}
		if err := serializeOperator(b, v.Inner, false); err != nil {
			return err
		}
		if needsParens {
			b.WriteByte(')')
		}
		fmt.Fprintf(b, "*%d", v.Count)
		return nil
	default:
		return &alserrors.AlsSyntaxError{Position: -1, Message: "unknown operator kind"}
	}
}

func writeRange(b *strings.Builder, r *operator.Range) {
	fmt.Fprintf(b, "%d>%d", r.Start, r.End)
	isDefaultStep := (r.Step == 1 && r.End >= r.Start) || (r.Step == -1 && r.End < r.Start)
	if !isDefaultStep {
		fmt.Fprintf(b, ":%d", r.Step)
	}
}

func writeToggle(b *strings.Builder, t *operator.Toggle) {
	for i, v := range t.Values {
		if i > 0 {
			b.WriteByte('~')
		}
		b.WriteString(v)
	}
	fmt.Fprintf(b, "*%d", t.Count)
}

