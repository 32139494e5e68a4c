// Package pattern implements the column pattern detectors of spec §4.4: a
// set of independent heuristics that each try to recognize a column's
// canonical string cells as a single compact operator, plus the engine that
// races them and picks the best.
package pattern

import (
	"strconv"

	"github.com/k0kubun/alsdef/operator"
)

// Type identifies which detector produced a Result, for stats/reporting.
type Type int

const (
	TypeNone Type = iota
	TypeRange
	TypeRepeat
	TypeToggle
	TypeRepeatedRange
	TypeRepeatedToggle
)

func (t Type) String() string {
	switch t {
	case TypeRange:
		return "range"
	case TypeRepeat:
		return "repeat"
	case TypeToggle:
		return "toggle"
	case TypeRepeatedRange:
		return "repeated_range"
	case TypeRepeatedToggle:
		return "repeated_toggle"
	default:
		return "none"
	}
}

// Result is what a detector returns when it recognizes a column.
type Result struct {
	Operator            operator.Operator
	EstimatedCompressed int
	PatternType         Type
}

// Ratio is the compression ratio a Result would achieve against
// originalLen, as defined in spec §4.4: original/compressed, higher is
// better. A detector must never report a ratio of 1.0 or less.
func (r Result) Ratio(originalLen int) float64 {
	if r.EstimatedCompressed <= 0 {
		return 0
	}
	return float64(originalLen) / float64(r.EstimatedCompressed)
}

// originalLen is the estimated length of cells as raw text: the sum of
// cell lengths plus one separator between every pair of cells.
func originalLen(cells []string) int {
	total := 0
	for _, c := range cells {
		total += len(c)
	}
	if len(cells) > 0 {
		total += len(cells) - 1
	}
	return total
}

func digits(n int64) int {
	if n < 0 {
		return 1 + digits(-n)
	}
	if n < 10 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}

// DetectRange recognizes an arithmetic progression of integers.
func DetectRange(cells []string) (Result, bool) {
	if len(cells) < 2 {
		return Result{}, false
	}
	ints := make([]int64, len(cells))
	for i, c := range cells {
		n, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return Result{}, false
		}
		ints[i] = n
	}
	step := ints[1] - ints[0]
	for i := range ints {
		if ints[i] != ints[0]+int64(i)*step {
			return Result{}, false
		}
	}

	start, end := ints[0], ints[len(ints)-1]
	length := digits(start) + 1 + digits(end)
	if !(step == 1 && end >= start) && !(step == -1 && end < start) {
		length += 1 + digits(step)
	}

	op, err := operator.NewRange(start, end, step, maxRangeExpansionUnbounded)
	if err != nil {
		return Result{}, false
	}
	res := Result{Operator: op, EstimatedCompressed: length, PatternType: TypeRange}
	if res.Ratio(originalLen(cells)) <= 1.0 {
		return Result{}, false
	}
	return res, true
}

// DetectRepeat recognizes a single value repeated across every cell.
func DetectRepeat(cells []string) (Result, bool) {
	if len(cells) == 0 {
		return Result{}, false
	}
	first := cells[0]
	for _, c := range cells[1:] {
		if c != first {
			return Result{}, false
		}
	}
	n := len(cells)
	length := len(first) + 1 + digits(int64(n))
	op := operator.NewMultiply(operator.NewRaw(first), n)
	res := Result{Operator: op, EstimatedCompressed: length, PatternType: TypeRepeat}
	if res.Ratio(originalLen(cells)) <= 1.0 {
		return Result{}, false
	}
	return res, true
}

// DetectToggle finds the smallest period k >= 2 such that cell[i] ==
// cell[i mod k] for all i, with not all k values equal.
func DetectToggle(cells []string) (Result, bool) {
	n := len(cells)
	if n < 2 {
		return Result{}, false
	}
	for k := 2; k <= n; k++ {
		if !togglePeriod(cells, k) {
			continue
		}
		values := append([]string(nil), cells[:k]...)
		if allEqual(values) {
			continue
		}
		sum := 0
		for _, v := range values {
			sum += len(v)
		}
		length := sum + (k - 1) + 1 + digits(int64(n))
		op, err := operator.NewToggle(values, n)
		if err != nil {
			return Result{}, false
		}
		res := Result{Operator: op, EstimatedCompressed: length, PatternType: TypeToggle}
		if res.Ratio(originalLen(cells)) <= 1.0 {
			return Result{}, false
		}
		return res, true
	}
	return Result{}, false
}

func togglePeriod(cells []string, k int) bool {
	for i, c := range cells {
		if c != cells[i%k] {
			return false
		}
	}
	return true
}

func allEqual(values []string) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// DetectRepeatedRange looks for a period p (2 <= p <= n/2, n mod p == 0)
// whose first p cells form a valid integer range, repeated n/p times. The
// period is found via a smart forward scan rather than a brute-force O(n^2)
// search: derive the step from the first two cells and walk until the
// arithmetic law breaks.
func DetectRepeatedRange(cells []string) (Result, bool) {
	n := len(cells)
	if n < 4 {
		return Result{}, false
	}
	ints := make([]int64, n)
	for i, c := range cells {
		v, err := strconv.ParseInt(c, 10, 64)
		if err != nil {
			return Result{}, false
		}
		ints[i] = v
	}

	step := ints[1] - ints[0]
	p := 1
	for p < n && ints[p] == ints[0]+int64(p)*step {
		p++
	}
	if p < 2 || p > n/2 || n%p != 0 {
		return Result{}, false
	}
	if ints[p] != ints[0] {
		return Result{}, false
	}
	if p+1 < n && ints[p+1] != ints[1] {
		return Result{}, false
	}
	for i := 0; i < n; i++ {
		if ints[i] != ints[i%p] {
			return Result{}, false
		}
	}
	for i := 0; i < p; i++ {
		if ints[i] != ints[0]+int64(i)*step {
			return Result{}, false
		}
	}

	start, end := ints[0], ints[p-1]
	inner, err := operator.NewRange(start, end, step, maxRangeExpansionUnbounded)
	if err != nil {
		return Result{}, false
	}
	rangeLen := digits(start) + 1 + digits(end)
	if !(step == 1 && end >= start) && !(step == -1 && end < start) {
		rangeLen += 1 + digits(step)
	}
	reps := n / p
	length := rangeLen + 1 + digits(int64(reps))
	if reps > 1 {
		// parenthesised inner range per serializer rules
		length += 2
	}

	op := operator.NewMultiply(inner, reps)
	res := Result{Operator: op, EstimatedCompressed: length, PatternType: TypeRepeatedRange}
	if res.Ratio(originalLen(cells)) <= 1.0 {
		return Result{}, false
	}
	return res, true
}

// DetectRepeatedToggle looks for a period p whose first p cells form a
// toggle (not all equal) and which repeats across the whole column.
func DetectRepeatedToggle(cells []string) (Result, bool) {
	n := len(cells)
	if n < 4 {
		return Result{}, false
	}
	for p := 2; p <= n/2; p++ {
		if n%p != 0 {
			continue
		}
		values := cells[:p]
		if allEqual(values) {
			continue
		}
		ok := true
		for i := 0; i < n; i++ {
			if cells[i] != cells[i%p] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		sum := 0
		for _, v := range values {
			sum += len(v)
		}
		toggleLen := sum + (p - 1) + 1 + digits(int64(p))
		reps := n / p
		length := toggleLen + 1 + digits(int64(reps)) + 2 // parenthesised

		innerToggle, err := operator.NewToggle(append([]string(nil), values...), p)
		if err != nil {
			continue
		}
		op := operator.NewMultiply(innerToggle, reps)
		res := Result{Operator: op, EstimatedCompressed: length, PatternType: TypeRepeatedToggle}
		if res.Ratio(originalLen(cells)) <= 1.0 {
			continue
		}
		return res, true
	}
	return Result{}, false
}

// maxRangeExpansionUnbounded is used when a detector only needs a Range
// operator's textual/structural shape, not a materialised expansion; the
// configured limit is enforced when the serialized range is parsed back by
// als.ParseDocument.
const maxRangeExpansionUnbounded = 1 << 62

// Detect runs all detectors and returns the one with the highest ratio
// above 1.0. minLength is spec's min_pattern_length: columns shorter than
// this never activate pattern detection at all.
func Detect(cells []string, minLength int) (Result, bool) {
	if len(cells) < minLength {
		return Result{}, false
	}

	var best Result
	var found bool
	orig := originalLen(cells)

	try := func(r Result, ok bool) {
		if !ok {
			return
		}
		if !found || r.Ratio(orig) > best.Ratio(orig) {
			best = r
			found = true
		}
	}

	try(DetectRange(cells))
	try(DetectRepeat(cells))
	try(DetectToggle(cells))
	try(DetectRepeatedRange(cells))
	try(DetectRepeatedToggle(cells))

	return best, found
}
