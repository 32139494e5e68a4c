package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []string{
		"plain",
		"a>b*c~d|e_f#g$h",
		"back\\slash",
		"tab\ttab",
		"space space",
		"newline\nhere",
		"carriage\rreturn",
		"unicode 日本語 café",
		"",
	}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			encoded := Encode(s)
			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, s, decoded)
		})
	}
}

func TestEncodeEscapesReservedSet(t *testing.T) {
	assert.Equal(t, `a\>b\*c\~d\|e\_f\#g\$h`, Encode("a>b*c~d|e_f#g$h"))
	assert.Equal(t, `\\`, Encode(`\`))
	assert.Equal(t, `\ `, Encode(" "))
}

func TestDecodeTrailingBackslash(t *testing.T) {
	_, err := Decode(`abc\`)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 3, synErr.Position)
}

func TestDecodeUnknownEscape(t *testing.T) {
	_, err := Decode(`a\zb`)
	require.Error(t, err)
	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, 1, synErr.Position)
}

func TestEncodeCellSentinels(t *testing.T) {
	assert.Equal(t, NullSentinel, EncodeCell("", true))
	assert.Equal(t, EmptySentinel, EncodeCell("", false))
	assert.Equal(t, "x", EncodeCell("x", false))
}

func TestDecodeCellSentinels(t *testing.T) {
	v, isNull, err := DecodeCell(NullSentinel)
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Equal(t, "", v)

	v, isNull, err = DecodeCell(EmptySentinel)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, "", v)

	v, isNull, err = DecodeCell(`a\>b`)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, "a>b", v)
}

func TestDecodeCellRejectsBareSentinelLikeEscapes(t *testing.T) {
	// "\0" and "\e" only mean something as a *whole* cell; as part of a
	// longer token the leading digit/letter isn't a recognized escape.
	_, _, err := DecodeCell(`\0x`)
	require.Error(t, err)
	_, _, err = DecodeCell(`\ex`)
	require.Error(t, err)
}
