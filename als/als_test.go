package als

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/operator"
)

func TestParseDocumentBasic(t *testing.T) {
	input := "!v1\n#id #status\n1>5|active*5\n"
	doc, err := ParseDocument(input, 1<<30)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, operator.FormatALS, doc.Format)
	assert.Equal(t, []string{"id", "status"}, doc.Schema)
	require.Len(t, doc.Streams, 2)

	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, rows[0])
	assert.Equal(t, []string{"active", "active", "active", "active", "active"}, rows[1])
}

func TestParseDocumentDefaultsToVersion1WithoutHeader(t *testing.T) {
	doc, err := ParseDocument("#id\n1 2 3\n", 1<<30)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, operator.FormatALS, doc.Format)
}

func TestParseDocumentCtx(t *testing.T) {
	doc, err := ParseDocument("!ctx\n#id\n1 2 3\n", 1<<30)
	require.NoError(t, err)
	assert.Equal(t, operator.FormatCTX, doc.Format)
}

func TestParseDocumentRejectsNewerVersion(t *testing.T) {
	_, err := ParseDocument("!v99\n#id\n1\n", 1<<30)
	require.Error(t, err)
	var vm *alserrors.VersionMismatch
	assert.ErrorAs(t, err, &vm)
}

func TestParseDocumentDictionaryAndDictRef(t *testing.T) {
	input := "!v1\n$default:foo|bar\n#name\n_0 _1 _0\n"
	doc, err := ParseDocument(input, 1<<30)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar"}, doc.Dictionaries["default"])

	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar", "foo"}, rows[0])
}

func TestParseDocumentColumnMismatch(t *testing.T) {
	_, err := ParseDocument("!v1\n#a #b\n1 2 3\n", 1<<30)
	require.Error(t, err)
	var cm *alserrors.ColumnMismatch
	assert.ErrorAs(t, err, &cm)
}

func TestParseDocumentToggleAndParenthesizedMultiply(t *testing.T) {
	input := "!v1\n#flag\n(a~b*2)*3\n"
	doc, err := ParseDocument(input, 1<<30)
	require.NoError(t, err)
	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, rows[0])
}

func TestParseDocumentRangeWithExplicitStep(t *testing.T) {
	doc, err := ParseDocument("!v1\n#n\n10>0:-2\n", 1<<30)
	require.NoError(t, err)
	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "8", "6", "4", "2", "0"}, rows[0])
}

func TestParseDocumentUnbalancedParenIsSyntaxError(t *testing.T) {
	_, err := ParseDocument("!v1\n#n\n(1 2\n", 1<<30)
	require.Error(t, err)
	var se *alserrors.AlsSyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestParseDocumentRejectsUnknownEscape(t *testing.T) {
	_, err := ParseDocument("!v1\n#n\na\\xb\n", 1<<30)
	require.Error(t, err)
	var se *alserrors.AlsSyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestParseDocumentIgnoresNewlinesWithinASingleStream(t *testing.T) {
	doc, err := ParseDocument("!v1\n#id\n1\n2\n3\n", 1<<30)
	require.NoError(t, err)
	require.Len(t, doc.Streams, 1)
	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, rows[0])
}

func TestParseDocumentSplitsStreamsOnlyOnPipeAcrossLines(t *testing.T) {
	doc, err := ParseDocument("!v1\n#a #b\n1>3\n|active*3\n", 1<<30)
	require.NoError(t, err)
	require.Len(t, doc.Streams, 2)
	rows, err := doc.Expand()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, rows[0])
	assert.Equal(t, []string{"active", "active", "active"}, rows[1])
}

func TestSerializeRoundTripsThroughParse(t *testing.T) {
	doc := &operator.Document{
		Version: 1,
		Format:  operator.FormatALS,
		Dictionaries: map[string][]string{
			"default": {"alpha", "beta"},
		},
		Schema: []string{"id", "name"},
		Streams: []operator.ColumnStream{
			{Operators: []operator.Operator{mustRange(t, 1, 5, 1)}},
			{Operators: []operator.Operator{
				operator.NewMultiply(&operator.DictRef{Index: 0}, 1),
				&operator.DictRef{Index: 1},
				operator.NewRaw("gamma"),
				operator.NewMultiply(&operator.DictRef{Index: 0}, 2),
			}},
		},
	}

	text, err := Serialize(doc)
	require.NoError(t, err)

	reparsed, err := ParseDocument(text, 1<<30)
	require.NoError(t, err)

	origRows, err := doc.Expand()
	require.NoError(t, err)
	reRows, err := reparsed.Expand()
	require.NoError(t, err)
	assert.Equal(t, origRows, reRows)
}

func TestSerializeDictionariesInSortedOrder(t *testing.T) {
	doc := &operator.Document{
		Version: 1,
		Format:  operator.FormatALS,
		Dictionaries: map[string][]string{
			"zzz": {"x"},
			"aaa": {"y"},
		},
		Schema:  []string{"c"},
		Streams: []operator.ColumnStream{{Operators: []operator.Operator{operator.NewRaw("1")}}},
	}
	text, err := Serialize(doc)
	require.NoError(t, err)
	aaaIdx := indexOf(text, "$aaa")
	zzzIdx := indexOf(text, "$zzz")
	require.NotEqual(t, -1, aaaIdx)
	require.NotEqual(t, -1, zzzIdx)
	assert.Less(t, aaaIdx, zzzIdx)
}

func TestSerializeCtxFormat(t *testing.T) {
	doc := &operator.Document{
		Format:  operator.FormatCTX,
		Schema:  []string{"c"},
		Streams: []operator.ColumnStream{{Operators: []operator.Operator{operator.NewRaw("1")}}},
	}
	text, err := Serialize(doc)
	require.NoError(t, err)
	assert.Equal(t, "!ctx\n#c\n1", text)
}

func mustRange(t *testing.T, start, end, step int64) operator.Operator {
	t.Helper()
	r, err := operator.NewRange(start, end, step, 1<<30)
	require.NoError(t, err)
	return r
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}
