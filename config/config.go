// Package config holds the six tunables of §6 (ctx_fallback_threshold,
// min_pattern_length, parallelism, max_range_expansion,
// max_dictionary_entries, max_input_size) and loads them from YAML.
// Grounded on the teacher repo's database.ParseGeneratorConfig: a
// yaml.v3 decoder with KnownFields(true) so a typo'd option fails loudly
// instead of silently falling back to its default.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of tunables. Every field has a default that
// Default() fills in; loading YAML only overrides what the file sets.
// Parallelism and MaxInputSize are loaded and validated but not consulted
// by the compressor or decompressor: column fan-out is decided by
// compress.ParallelThreshold alone, and input size is not checked.
type Config struct {
	CtxFallbackThreshold float64 `yaml:"ctx_fallback_threshold"`
	MinPatternLength     int     `yaml:"min_pattern_length"`
	Parallelism          int     `yaml:"parallelism"`
	MaxRangeExpansion    int64   `yaml:"max_range_expansion"`
	MaxDictionaryEntries int     `yaml:"max_dictionary_entries"`
	MaxInputSize         int64   `yaml:"max_input_size"`
}

// Default returns the spec's documented defaults.
func Default() Config {
	return Config{
		CtxFallbackThreshold: 1.2,
		MinPatternLength:     3,
		Parallelism:          0,
		MaxRangeExpansion:    10_000_000,
		MaxDictionaryEntries: 65_536,
		MaxInputSize:         1 << 30, // 1 GiB
	}
}

// Validate enforces ctx_fallback_threshold >= 1.0 (a threshold below 1.0
// would let a document that grew skip the CTX fallback), a non-negative
// min_pattern_length and parallelism, and positive max_range_expansion,
// max_dictionary_entries and max_input_size.
func (c Config) Validate() error {
	if c.CtxFallbackThreshold < 1.0 {
		return fmt.Errorf("ctx_fallback_threshold must be >= 1.0, got %f", c.CtxFallbackThreshold)
	}
	if c.MinPatternLength < 0 {
		return fmt.Errorf("min_pattern_length must be >= 0, got %d", c.MinPatternLength)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be >= 0, got %d", c.Parallelism)
	}
	if c.MaxRangeExpansion <= 0 {
		return fmt.Errorf("max_range_expansion must be > 0, got %d", c.MaxRangeExpansion)
	}
	if c.MaxDictionaryEntries <= 0 {
		return fmt.Errorf("max_dictionary_entries must be > 0, got %d", c.MaxDictionaryEntries)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("max_input_size must be > 0, got %d", c.MaxInputSize)
	}
	return nil
}

// Load reads a YAML config file, starting from Default() and overriding
// only the fields the file sets explicitly. An empty path returns the
// defaults unchanged, matching the teacher's ParseGeneratorConfig
// convention of treating "" as "no config".
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return LoadBytes(buf)
}

// LoadBytes parses YAML bytes over the defaults. Unknown keys are a hard
// error via yaml.v3's KnownFields, the same discipline the teacher applies
// to its own generator config.
func LoadBytes(buf []byte) (Config, error) {
	cfg := Default()

	var overlay struct {
		CtxFallbackThreshold *float64 `yaml:"ctx_fallback_threshold"`
		MinPatternLength     *int     `yaml:"min_pattern_length"`
		Parallelism          *int     `yaml:"parallelism"`
		MaxRangeExpansion    *int64   `yaml:"max_range_expansion"`
		MaxDictionaryEntries *int     `yaml:"max_dictionary_entries"`
		MaxInputSize         *int64   `yaml:"max_input_size"`
	}

	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	if err := dec.Decode(&overlay); err != nil {
		return Config{}, fmt.Errorf("parsing config yaml: %w", err)
	}

	if overlay.CtxFallbackThreshold != nil {
		cfg.CtxFallbackThreshold = *overlay.CtxFallbackThreshold
	}
	if overlay.MinPatternLength != nil {
		cfg.MinPatternLength = *overlay.MinPatternLength
	}
	if overlay.Parallelism != nil {
		cfg.Parallelism = *overlay.Parallelism
	}
	if overlay.MaxRangeExpansion != nil {
		cfg.MaxRangeExpansion = *overlay.MaxRangeExpansion
	}
	if overlay.MaxDictionaryEntries != nil {
		cfg.MaxDictionaryEntries = *overlay.MaxDictionaryEntries
	}
	if overlay.MaxInputSize != nil {
		cfg.MaxInputSize = *overlay.MaxInputSize
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
