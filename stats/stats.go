// Package stats collects optional, thread-safe counters for a compression
// run: input/output bytes, patterns detected, per-operator-kind counts,
// dict-refs used, raw values emitted, and per-column shrink outcomes. All
// counters are lock-free atomics (go.uber.org/atomic), matching §4.8's
// "relaxed ordering, may tear across counters but each counter is valid".
package stats

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/atomic"

	"github.com/k0kubun/alsdef/pattern"
)

// Counters is the shared-mutable state of a compression run. The zero
// value is ready to use.
type Counters struct {
	InputBytes    atomic.Int64
	OutputBytes   atomic.Int64
	PatternsFound atomic.Int64
	RangeOps      atomic.Int64
	RepeatOps     atomic.Int64
	ToggleOps     atomic.Int64
	CombinedOps   atomic.Int64
	DictRefsUsed  atomic.Int64
	RawValues     atomic.Int64
	ColumnsTotal  atomic.Int64
	ColumnsShrank atomic.Int64

	// columnsMu guards columns, the one piece of state here that isn't a
	// plain atomic counter: columns are appended one at a time (often
	// from concurrent column workers, see compress.buildStreams), and a
	// slice append can't be done lock-free the way an increment can.
	columnsMu sync.Mutex
	columns   []ColumnReport
}

// RecordPattern bumps the per-kind operator counters for a detected
// pattern.
func (c *Counters) RecordPattern(t pattern.Type) {
	c.PatternsFound.Inc()
	switch t {
	case pattern.TypeRange:
		c.RangeOps.Inc()
	case pattern.TypeRepeat:
		c.RepeatOps.Inc()
	case pattern.TypeToggle:
		c.ToggleOps.Inc()
	case pattern.TypeRepeatedRange, pattern.TypeRepeatedToggle:
		c.CombinedOps.Inc()
	}
}

// RecordColumn appends a per-column outcome and bumps ColumnsShrank when
// the column's compressed form came out smaller than its raw estimate.
func (c *Counters) RecordColumn(cr ColumnReport) {
	if cr.Shrank {
		c.ColumnsShrank.Inc()
	}
	c.columnsMu.Lock()
	c.columns = append(c.columns, cr)
	c.columnsMu.Unlock()
}

// ColumnReports returns a copy of the per-column outcomes recorded so far.
func (c *Counters) ColumnReports() []ColumnReport {
	c.columnsMu.Lock()
	defer c.columnsMu.Unlock()
	out := make([]ColumnReport, len(c.columns))
	copy(out, c.columns)
	return out
}

// Snapshot is a consistent-enough immutable copy: each field is a valid
// atomic load, though the whole struct may tear across fields if read
// concurrently with writes — exactly the guarantee §4.8 asks for.
type Snapshot struct {
	InputBytes    int64
	OutputBytes   int64
	PatternsFound int64
	RangeOps      int64
	RepeatOps     int64
	ToggleOps     int64
	CombinedOps   int64
	DictRefsUsed  int64
	RawValues     int64
	ColumnsTotal  int64
	ColumnsShrank int64
}

// Snapshot takes the consistent-enough copy described above.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		InputBytes:    c.InputBytes.Load(),
		OutputBytes:   c.OutputBytes.Load(),
		PatternsFound: c.PatternsFound.Load(),
		RangeOps:      c.RangeOps.Load(),
		RepeatOps:     c.RepeatOps.Load(),
		ToggleOps:     c.ToggleOps.Load(),
		CombinedOps:   c.CombinedOps.Load(),
		DictRefsUsed:  c.DictRefsUsed.Load(),
		RawValues:     c.RawValues.Load(),
		ColumnsTotal:  c.ColumnsTotal.Load(),
		ColumnsShrank: c.ColumnsShrank.Load(),
	}
}

// ColumnReport is the per-column layer §4.8 describes on top of the global
// Snapshot.
type ColumnReport struct {
	Name        string
	Index       int
	InputBytes  int64
	OutputBytes int64
	PatternType pattern.Type
	RowCount    int
	Shrank      bool
}

// Report bundles the run-wide Snapshot with a per-column breakdown.
type Report struct {
	Snapshot Snapshot
	Columns  []ColumnReport
}

// String renders a human-readable multi-line summary, in the same spirit
// as the teacher's pp-debug dumps: one line per fact, no table framework.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "input: %d bytes, output: %d bytes, ratio: %.2f\n",
		r.Snapshot.InputBytes, r.Snapshot.OutputBytes, ratio(r.Snapshot))
	fmt.Fprintf(&b, "patterns: %d (range=%d repeat=%d toggle=%d combined=%d)\n",
		r.Snapshot.PatternsFound, r.Snapshot.RangeOps, r.Snapshot.RepeatOps,
		r.Snapshot.ToggleOps, r.Snapshot.CombinedOps)
	fmt.Fprintf(&b, "dict-refs: %d, raw values: %d\n", r.Snapshot.DictRefsUsed, r.Snapshot.RawValues)
	fmt.Fprintf(&b, "columns: %d total, %d shrank\n", r.Snapshot.ColumnsTotal, r.Snapshot.ColumnsShrank)
	for _, col := range r.Columns {
		fmt.Fprintf(&b, "  [%d] %s: %d -> %d bytes, pattern=%s, rows=%d, shrank=%v\n",
			col.Index, col.Name, col.InputBytes, col.OutputBytes, col.PatternType, col.RowCount, col.Shrank)
	}
	return b.String()
}

func ratio(s Snapshot) float64 {
	if s.OutputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes) / float64(s.OutputBytes)
}
