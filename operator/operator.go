// Package operator implements the ALS compression-operator algebra: the sum
// type of compression primitives (Raw, Range, Multiply, Toggle, DictRef),
// their expansion semantics, and their size accounting.
//
// Every operator stores and emits canonical cell tokens — the already
// escaped, sentinel-applied strings described by the wire grammar (so a
// Raw holding a null cell carries the literal two-byte token `\0`, not a Go
// nil). Canonicalising a typed value into that token form is the caller's
// job (see the tabular package); this package never decodes or re-escapes
// anything, which is what lets expand(dict).len() == expanded_count() hold
// for every composition without a dictionary lookup or a parse step.
package operator

import (
	"math"
	"strconv"

	"github.com/k0kubun/alsdef/alserrors"
)

// Operator is the sum type every compression primitive implements.
type Operator interface {
	// Expand materializes the operator's sequence of canonical cell
	// tokens. dict is the document's default dictionary; operators that
	// don't reference it may ignore it.
	Expand(dict []string) ([]string, error)
	// ExpandedCount returns len(Expand(dict)) without materializing it.
	// It never depends on dict's contents, only (for DictRef) on whether
	// the caller ends up able to resolve it — DictRef's count is always 1
	// regardless.
	ExpandedCount() int
}

// Raw is a single literal canonical token, e.g. `\0`, `\e`, or an escaped
// string value.
type Raw struct {
	Token string
}

func NewRaw(token string) *Raw { return &Raw{Token: token} }

func (r *Raw) ExpandedCount() int { return 1 }

func (r *Raw) Expand(dict []string) ([]string, error) {
	return []string{r.Token}, nil
}

// Range is the inclusive arithmetic sequence start..end stepping by step.
// Constructing one validates the algebra's invariants up front so that
// ExpandedCount is always cheap and Expand never fails.
type Range struct {
	Start int64
	End   int64
	Step  int64

	count      int64
	degenerate bool
}

// NewRange validates step and the direction/sign agreement, computes the
// element count via the same iteration law Expand uses, and rejects ranges
// whose count would exceed maxExpansion.
func NewRange(start, end, step, maxExpansion int64) (*Range, error) {
	if step == 0 {
		return nil, &alserrors.RangeOverflow{Start: start, End: end, Step: step}
	}
	count, degenerate := rangeCount(start, end, step)
	if count > maxExpansion {
		return nil, &alserrors.RangeOverflow{Start: start, End: end, Step: step}
	}
	return &Range{Start: start, End: end, Step: step, count: count, degenerate: degenerate}, nil
}

// rangeCount is the "iteration law" shared between count estimation and
// actual expansion: a range whose step direction disagrees with the
// start->end direction is degenerate and treated as the single-element
// sequence [start].
func rangeCount(start, end, step int64) (count int64, degenerate bool) {
	if start == end {
		return 1, false
	}
	dirPositive := end > start
	stepPositive := step > 0
	if dirPositive != stepPositive {
		return 1, true
	}
	d := absDiff(start, end)
	s := absInt64(step)
	q := d/s + 1
	if q < 0 { // overflowed into negative: clamp to a value callers will reject against maxExpansion
		return math.MaxInt64, false
	}
	return q, false
}

func absDiff(a, b int64) int64 {
	// both directions already agree in sign with step by the time this is
	// called, so a plain uint64 difference avoids int64 overflow at the
	// extremities.
	var u uint64
	if b >= a {
		u = uint64(b) - uint64(a)
	} else {
		u = uint64(a) - uint64(b)
	}
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

func absInt64(v int64) int64 {
	if v < 0 {
		if v == math.MinInt64 {
			return math.MaxInt64
		}
		return -v
	}
	return v
}

func (r *Range) ExpandedCount() int { return int(r.count) }

func (r *Range) Expand(dict []string) ([]string, error) {
	if r.degenerate {
		return []string{strconv.FormatInt(r.Start, 10)}, nil
	}
	out := make([]string, 0, r.count)
	current := r.Start
	for i := int64(0); i < r.count; i++ {
		out = append(out, strconv.FormatInt(current, 10))
		next, overflowed := saturatingAdd(current, r.Step)
		if overflowed {
			break
		}
		current = next
	}
	return out, nil
}

// saturatingAdd guards range expansion against overflow at the extremities,
// matching the spec's "saturating addition... loop terminates cleanly".
func saturatingAdd(a, b int64) (sum int64, overflowed bool) {
	sum = a + b
	if b > 0 && sum < a {
		return math.MaxInt64, true
	}
	if b < 0 && sum > a {
		return math.MinInt64, true
	}
	return sum, false
}

// Multiply expands Inner once and repeats it Count times. Inner may itself
// be any operator, including another Multiply, forming a finite tree whose
// depth the pattern detectors bound in practice to 2.
type Multiply struct {
	Inner Operator
	Count int
}

func NewMultiply(inner Operator, count int) *Multiply {
	return &Multiply{Inner: inner, Count: count}
}

func (m *Multiply) ExpandedCount() int { return m.Inner.ExpandedCount() * m.Count }

func (m *Multiply) Expand(dict []string) ([]string, error) {
	inner, err := m.Inner.Expand(dict)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(inner)*m.Count)
	for i := 0; i < m.Count; i++ {
		out = append(out, inner...)
	}
	return out, nil
}

// Toggle cycles through Values, emitting Count elements total: position i
// emits Values[i % len(Values)].
type Toggle struct {
	Values []string
	Count  int
}

// NewToggle enforces the sum type's invariant of at least two values.
// Expand itself still degrades gracefully to an empty result for an empty
// Values slice, matching the spec's documented edge-case behavior for
// operators built by means other than this constructor (e.g. parsed from
// untrusted text that a lenient caller chooses not to reject).
func NewToggle(values []string, count int) (*Toggle, error) {
	if len(values) < 2 {
		return nil, &alserrors.AlsSyntaxError{Message: "toggle requires at least 2 values"}
	}
	return &Toggle{Values: values, Count: count}, nil
}

// ExpandedCount mirrors Expand's degrade-to-empty behavior for a Toggle
// with no values (only reachable via a direct struct literal, since
// NewToggle rejects len(Values) < 2): invariant 1 requires
// ExpandedCount() == len(Expand(dict)) for every operator, including ones
// built outside the constructor.
func (t *Toggle) ExpandedCount() int {
	if len(t.Values) == 0 {
		return 0
	}
	return t.Count
}

func (t *Toggle) Expand(dict []string) ([]string, error) {
	if len(t.Values) == 0 {
		return nil, nil
	}
	out := make([]string, t.Count)
	for i := 0; i < t.Count; i++ {
		out[i] = t.Values[i%len(t.Values)]
	}
	return out, nil
}

// DictRef references the document's default dictionary by position.
type DictRef struct {
	Index int
}

func (d *DictRef) ExpandedCount() int { return 1 }

func (d *DictRef) Expand(dict []string) ([]string, error) {
	if d.Index < 0 || d.Index >= len(dict) {
		return nil, &alserrors.InvalidDictRef{Index: d.Index, Size: len(dict)}
	}
	return []string{dict[d.Index]}, nil
}
