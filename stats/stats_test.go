package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/k0kubun/alsdef/pattern"
)

func TestRecordPatternIncrementsBothTotalAndKind(t *testing.T) {
	var c Counters
	c.RecordPattern(pattern.TypeRange)
	c.RecordPattern(pattern.TypeRepeatedToggle)

	snap := c.Snapshot()
	assert.Equal(t, int64(2), snap.PatternsFound)
	assert.Equal(t, int64(1), snap.RangeOps)
	assert.Equal(t, int64(1), snap.CombinedOps)
	assert.Equal(t, int64(0), snap.ToggleOps)
}

func TestSnapshotReflectsCounterState(t *testing.T) {
	var c Counters
	c.InputBytes.Add(100)
	c.OutputBytes.Add(40)
	c.ColumnsTotal.Add(3)
	c.ColumnsShrank.Add(2)

	snap := c.Snapshot()
	assert.Equal(t, int64(100), snap.InputBytes)
	assert.Equal(t, int64(40), snap.OutputBytes)
	assert.Equal(t, int64(3), snap.ColumnsTotal)
	assert.Equal(t, int64(2), snap.ColumnsShrank)
}

func TestRecordColumnBumpsShrankOnlyWhenShrank(t *testing.T) {
	var c Counters
	c.RecordColumn(ColumnReport{Name: "a", Shrank: true})
	c.RecordColumn(ColumnReport{Name: "b", Shrank: false})

	assert.Equal(t, int64(1), c.Snapshot().ColumnsShrank)
	reports := c.ColumnReports()
	assert.Len(t, reports, 2)
	assert.Equal(t, "a", reports[0].Name)
	assert.Equal(t, "b", reports[1].Name)
}

func TestReportStringIncludesColumnBreakdown(t *testing.T) {
	var c Counters
	c.InputBytes.Add(100)
	c.OutputBytes.Add(50)

	r := Report{
		Snapshot: c.Snapshot(),
		Columns: []ColumnReport{
			{Name: "id", Index: 0, InputBytes: 50, OutputBytes: 10, PatternType: pattern.TypeRange, RowCount: 10, Shrank: true},
		},
	}
	out := r.String()
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "range")
	assert.Contains(t, out, "ratio: 2.00")
}
