// Package tabular defines the boundary type the codec consumes and
// produces: a column-oriented table of typed cells, and the canonical
// string form every cell reduces to before it ever reaches the dictionary
// builder, the pattern detectors, or the operator algebra.
package tabular

import (
	"strconv"

	"github.com/k0kubun/alsdef/escape"
)

// Kind is Value's type tag. A column's cells need not share a Kind — the
// column's InferredKind is informational only, never consulted by the
// core.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the sum type {Null, Integer, Float, Boolean, String}.
type Value struct {
	Kind    Kind
	Integer int64
	Float   float64
	Boolean bool
	String  string
}

func Null() Value                { return Value{Kind: KindNull} }
func Integer(i int64) Value      { return Value{Kind: KindInteger, Integer: i} }
func Float(f float64) Value      { return Value{Kind: KindFloat, Float: f} }
func Boolean(b bool) Value       { return Value{Kind: KindBoolean, Boolean: b} }
func String(s string) Value      { return Value{Kind: KindString, String: s} }
func (v Value) IsNull() bool     { return v.Kind == KindNull }
func (v Value) IsString() bool   { return v.Kind == KindString }

// Canonical returns the canonical cell form described in spec §4.1: the
// exact string every operator in this codec stores and emits. It is the
// single place escaping and sentinel substitution happen on the way into
// the core; everything downstream (dictionary, pattern, operator, als)
// treats its output as an opaque token.
func (v Value) Canonical() string {
	switch v.Kind {
	case KindNull:
		return escape.NullSentinel
	case KindString:
		return escape.EncodeCell(v.String, false)
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBoolean:
		if v.Boolean {
			return "true"
		}
		return "false"
	default:
		return escape.EmptySentinel
	}
}

// Column is one named, column-oriented slice of cells. Cells need not be
// uniformly typed.
type Column struct {
	Name   string
	Values []Value
}

// InferredKind reports the majority non-null Kind in the column. It is
// informational only — the core always works through Canonical() and never
// branches on this.
func (c Column) InferredKind() Kind {
	counts := map[Kind]int{}
	for _, v := range c.Values {
		if !v.IsNull() {
			counts[v.Kind]++
		}
	}
	best := KindString
	bestCount := -1
	for k, n := range counts {
		if n > bestCount {
			best, bestCount = k, n
		}
	}
	return best
}

// TabularData is a column-oriented table: the boundary type the compressor
// consumes and the decompressor produces (by way of the canonical string
// form, see §4.7).
type TabularData struct {
	Columns []Column
}

// RowCount returns the length of the first column, or 0 if there are none.
// Columns are expected to share a length; compress validates this.
func (t TabularData) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}
