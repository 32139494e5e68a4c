package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalNull(t *testing.T) {
	assert.Equal(t, `\0`, Null().Canonical())
}

func TestCanonicalEmptyString(t *testing.T) {
	assert.Equal(t, `\e`, String("").Canonical())
}

func TestCanonicalNonEmptyStringEscapes(t *testing.T) {
	assert.Equal(t, `a\>b`, String("a>b").Canonical())
}

func TestCanonicalInteger(t *testing.T) {
	assert.Equal(t, "-42", Integer(-42).Canonical())
}

func TestCanonicalFloatShortestRoundTrip(t *testing.T) {
	assert.Equal(t, "3.14", Float(3.14).Canonical())
	assert.Equal(t, "1", Float(1.0).Canonical())
}

func TestCanonicalBoolean(t *testing.T) {
	assert.Equal(t, "true", Boolean(true).Canonical())
	assert.Equal(t, "false", Boolean(false).Canonical())
}

func TestInferredKindInformationalOnly(t *testing.T) {
	col := Column{Values: []Value{Integer(1), Integer(2), Null()}}
	assert.Equal(t, KindInteger, col.InferredKind())
}

func TestRowCount(t *testing.T) {
	td := TabularData{Columns: []Column{{Values: []Value{Integer(1), Integer(2)}}}}
	assert.Equal(t, 2, td.RowCount())
}
