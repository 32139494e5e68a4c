package csv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/alsdef/tabular"
)

func TestReadStringParsesHeaderAndRows(t *testing.T) {
	td, err := ReadString("id,name\n1,alice\n2,bob\n")
	require.NoError(t, err)
	require.Len(t, td.Columns, 2)
	assert.Equal(t, "id", td.Columns[0].Name)
	assert.Equal(t, []string{"1", "2"}, valuesOf(td.Columns[0]))
	assert.Equal(t, []string{"alice", "bob"}, valuesOf(td.Columns[1]))
}

func TestWriteStringRoundTripsThroughRead(t *testing.T) {
	td, err := ReadString("a,b\n1,2\n3,4\n")
	require.NoError(t, err)

	out, err := WriteString(td)
	require.NoError(t, err)

	reparsed, err := ReadString(out)
	require.NoError(t, err)
	assert.Equal(t, td, reparsed)
}

func TestReadStringShortRowYieldsEmptyCell(t *testing.T) {
	td, err := ReadString("a,b\n1\n")
	require.NoError(t, err)
	assert.Equal(t, "", td.Columns[1].Values[0].String)
}

func valuesOf(col tabular.Column) []string {
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.String
	}
	return out
}
