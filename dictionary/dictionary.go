// Package dictionary implements the benefit-accounted frequency analyzer
// that decides which string values get hoisted into a document's default
// dictionary, and in what order.
package dictionary

import (
	"sort"

	"github.com/k0kubun/alsdef/internal/alsutil"
	"github.com/k0kubun/alsdef/tabular"
)

// candidate is one value under consideration, carrying the accounting
// needed to decide whether hoisting it actually saves bytes.
type candidate struct {
	value      string
	freq       int
	bytesSaved int
}

// Build runs the six-step procedure of spec §4.3 over tokens — the
// canonical string form of every string-valued cell across all columns —
// and returns the final, ordered dictionary. The position of each returned
// value is its encoding index, i.e. what DictRef(i) must resolve to.
func Build(tokens []string, maxEntries int) []string {
	freq := make(map[string]int, len(tokens))
	for _, t := range tokens {
		freq[t]++
	}

	// Step 2: keep only values seen at least twice. Iterate in sorted key
	// order so the frequency-descending sort below is reproducible even
	// when many values tie on frequency.
	var candidates []candidate
	for v, f := range alsutil.CanonicalMapIter(freq) {
		if f >= 2 {
			candidates = append(candidates, candidate{value: v, freq: f})
		}
	}

	// Step 3: sort by descending frequency; position is the prospective
	// index used for benefit accounting.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].freq > candidates[j].freq
	})

	// Step 4: benefit accounting against that frequency-sorted position.
	for i := range candidates {
		candidates[i].bytesSaved = benefit(candidates[i].value, candidates[i].freq, i)
	}

	// Step 5: drop non-beneficial candidates.
	survivors := candidates[:0]
	for _, c := range candidates {
		if c.bytesSaved > 0 {
			survivors = append(survivors, c)
		}
	}

	// Step 6: re-sort survivors by descending benefit (stable), then cap.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].bytesSaved > survivors[j].bytesSaved
	})
	if len(survivors) > maxEntries {
		survivors = survivors[:maxEntries]
	}

	return alsutil.TransformSlice(survivors, func(c candidate) string { return c.value })
}

// benefit computes bytes_saved = freq*len(v) - (len(v)+1) - freq*ref_len(i),
// where ref_len(i) = 1 + digit_count(i) is the length of the "_i" reference
// token the value would be replaced by. len(v) is the UTF-8 byte length of
// the value as written, because that's what the serializer actually emits.
func benefit(v string, freq, index int) int {
	length := len([]byte(v))
	refLen := 1 + digitCount(index)
	return freq*length - (length + 1) - freq*refLen
}

func digitCount(i int) int {
	if i == 0 {
		return 1
	}
	n := 0
	for i > 0 {
		n++
		i /= 10
	}
	return n
}

// StringTokens extracts the canonical token form of every string-valued
// cell across all of a table's columns, in column-then-row order, which is
// the input Build expects. Only cells whose original Kind is String
// participate — per spec §4.3 the builder's input is "the stream of
// string-valued cells", not every canonicalized cell.
func StringTokens(t tabular.TabularData) []string {
	var out []string
	for _, col := range t.Columns {
		for _, v := range col.Values {
			if v.Kind == tabular.KindString {
				out = append(out, v.Canonical())
			}
		}
	}
	return out
}
