package streaming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/alsdef/config"
	"github.com/k0kubun/alsdef/tabular"
)

func tableOfInts(name string, n int) tabular.TabularData {
	values := make([]tabular.Value, n)
	for i := range values {
		values[i] = tabular.Integer(int64(i))
	}
	return tabular.TabularData{Columns: []tabular.Column{{Name: name, Values: values}}}
}

func TestSplitPartitionsIntoFixedRowChunks(t *testing.T) {
	td := tableOfInts("n", 10)
	chunks := Split(td, 4)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Data.Columns[0].Values, 4)
	assert.Len(t, chunks[1].Data.Columns[0].Values, 4)
	assert.Len(t, chunks[2].Data.Columns[0].Values, 2)
}

func TestSplitChunksHaveDistinctIDs(t *testing.T) {
	chunks := Split(tableOfInts("n", 8), 4)
	require.Len(t, chunks, 2)
	assert.NotEqual(t, chunks[0].ID, chunks[1].ID)
}

func TestCompressExpandRoundTripsAcrossChunks(t *testing.T) {
	td := tableOfInts("n", 9)
	chunks := Split(td, 4)
	cfg := config.Default()

	docs, err := CompressChunks(chunks, cfg, nil)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	expanded, err := ExpandDocuments(docs, cfg, nil)
	require.NoError(t, err)

	merged := Concat(expanded)
	require.Len(t, merged.Columns[0].Values, 9)
	for i, v := range merged.Columns[0].Values {
		assert.Equal(t, tabular.Integer(int64(i)).Canonical(), v.String)
	}
}

func TestConcatOfNoChunksIsEmpty(t *testing.T) {
	merged := Concat(nil)
	assert.Empty(t, merged.Columns)
}
