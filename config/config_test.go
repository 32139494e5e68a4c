package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	d := Default()
	assert.Equal(t, 1.2, d.CtxFallbackThreshold)
	assert.Equal(t, 3, d.MinPatternLength)
	assert.Equal(t, 0, d.Parallelism)
	assert.Equal(t, int64(10_000_000), d.MaxRangeExpansion)
	assert.Equal(t, 65_536, d.MaxDictionaryEntries)
	assert.Equal(t, int64(1<<30), d.MaxInputSize)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadBytesOverridesOnlySetFields(t *testing.T) {
	cfg, err := LoadBytes([]byte("min_pattern_length: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MinPatternLength)
	assert.Equal(t, 1.2, cfg.CtxFallbackThreshold)
}

func TestLoadBytesRejectsUnknownField(t *testing.T) {
	_, err := LoadBytes([]byte("bogus_option: 1\n"))
	assert.Error(t, err)
}

func TestLoadBytesRejectsThresholdBelowOne(t *testing.T) {
	_, err := LoadBytes([]byte("ctx_fallback_threshold: 0.5\n"))
	assert.Error(t, err)
}

func TestValidateRejectsNegativeParallelism(t *testing.T) {
	cfg := Default()
	cfg.Parallelism = -1
	assert.Error(t, cfg.Validate())
}
