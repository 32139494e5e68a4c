package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawExpand(t *testing.T) {
	r := NewRaw(`\0`)
	vals, err := r.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{`\0`}, vals)
	assert.Equal(t, 1, r.ExpandedCount())
}

func TestRangeSequentialAscending(t *testing.T) {
	r, err := NewRange(1, 5, 1, 10_000_000)
	require.NoError(t, err)
	assert.Equal(t, 5, r.ExpandedCount())
	vals, err := r.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, vals)
}

func TestRangeStep(t *testing.T) {
	r, err := NewRange(10, 50, 10, 10_000_000)
	require.NoError(t, err)
	vals, err := r.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "20", "30", "40", "50"}, vals)
}

func TestRangeDescendingDefaultStep(t *testing.T) {
	r, err := NewRange(5, 1, -1, 10_000_000)
	require.NoError(t, err)
	vals, err := r.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, vals)
}

func TestRangeZeroStepRejected(t *testing.T) {
	_, err := NewRange(1, 5, 0, 10_000_000)
	require.Error(t, err)
}

func TestRangeDegenerateSignMismatch(t *testing.T) {
	r, err := NewRange(1, 5, -1, 10_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1, r.ExpandedCount())
	vals, err := r.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, vals)
}

func TestRangeOverflowRejected(t *testing.T) {
	_, err := NewRange(1, 1_000_000_000, 1, 10_000_000)
	require.Error(t, err)
}

func TestMultiplyOfRaw(t *testing.T) {
	m := NewMultiply(NewRaw("active"), 3)
	assert.Equal(t, 3, m.ExpandedCount())
	vals, err := m.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "active", "active"}, vals)
}

func TestMultiplyOfRange(t *testing.T) {
	inner, err := NewRange(1, 3, 1, 10_000_000)
	require.NoError(t, err)
	m := NewMultiply(inner, 2)
	assert.Equal(t, 6, m.ExpandedCount())
	vals, err := m.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "1", "2", "3"}, vals)
}

func TestNestedMultiply(t *testing.T) {
	inner := NewMultiply(NewRaw("x"), 2)
	outer := NewMultiply(inner, 3)
	assert.Equal(t, 6, outer.ExpandedCount())
	vals, err := outer.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x", "x", "x", "x", "x"}, vals)
}

func TestToggle(t *testing.T) {
	toggle, err := NewToggle([]string{"T", "F"}, 6)
	require.NoError(t, err)
	vals, err := toggle.Expand(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"T", "F", "T", "F", "T", "F"}, vals)
}

func TestToggleRejectsFewerThanTwoValues(t *testing.T) {
	_, err := NewToggle([]string{"T"}, 6)
	require.Error(t, err)
}

func TestToggleEmptyValuesYieldsEmptyRegardlessOfCount(t *testing.T) {
	toggle := &Toggle{Values: nil, Count: 10}
	vals, err := toggle.Expand(nil)
	require.NoError(t, err)
	assert.Empty(t, vals)
	assert.Equal(t, 0, toggle.ExpandedCount())
}

func TestDictRefResolves(t *testing.T) {
	ref := &DictRef{Index: 1}
	vals, err := ref.Expand([]string{"active", "inactive", "pending"})
	require.NoError(t, err)
	assert.Equal(t, []string{"inactive"}, vals)
}

func TestDictRefOutOfRange(t *testing.T) {
	ref := &DictRef{Index: 5}
	_, err := ref.Expand([]string{"active"})
	require.Error(t, err)
}

func TestDictRefMissingDictionary(t *testing.T) {
	ref := &DictRef{Index: 0}
	_, err := ref.Expand(nil)
	require.Error(t, err)
}

func TestDocumentRowCountAgreement(t *testing.T) {
	r1, _ := NewRange(1, 3, 1, 10_000_000)
	r2, _ := NewRange(1, 3, 1, 10_000_000)
	doc := &Document{
		Schema: []string{"a", "b"},
		Streams: []ColumnStream{
			{Operators: []Operator{r1}},
			{Operators: []Operator{r2}},
		},
	}
	rows, err := doc.RowCount()
	require.NoError(t, err)
	assert.Equal(t, 3, rows)
}

func TestDocumentRowCountMismatch(t *testing.T) {
	r1, _ := NewRange(1, 3, 1, 10_000_000)
	r2, _ := NewRange(1, 4, 1, 10_000_000)
	doc := &Document{
		Schema: []string{"a", "b"},
		Streams: []ColumnStream{
			{Operators: []Operator{r1}},
			{Operators: []Operator{r2}},
		},
	}
	_, err := doc.RowCount()
	require.Error(t, err)
}

func TestDocumentExpandRows(t *testing.T) {
	r1, _ := NewRange(1, 3, 1, 10_000_000)
	toggle, _ := NewToggle([]string{"x", "y"}, 3)
	doc := &Document{
		Schema: []string{"a", "b"},
		Streams: []ColumnStream{
			{Operators: []Operator{r1}},
			{Operators: []Operator{toggle}},
		},
	}
	rows, err := doc.ExpandRows()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"1", "x"},
		{"2", "y"},
		{"3", "x"},
	}, rows)
}

func TestDocumentSchemaStreamMismatch(t *testing.T) {
	doc := &Document{Schema: []string{"a", "b", "c"}, Streams: []ColumnStream{{}, {}}}
	err := doc.Validate()
	require.Error(t, err)
}
