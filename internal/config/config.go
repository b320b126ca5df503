// Package config defines the formatter configuration and resolves it from a
// flat options mapping.
package config

import (
	"fmt"
	"math"
	"strings"

	"fortio.org/safecast"
)

// Format is an output density policy.
type Format string

// Output density policies.
const (
	FormatExpanded   Format = "expanded"
	FormatCompact    Format = "compact"
	FormatCompressed Format = "compressed"
)

// ColorCase is the letter case applied to hex colour digits.
type ColorCase string

// Hex colour cases.
const (
	ColorLower ColorCase = "lower"
	ColorUpper ColorCase = "upper"
)

// Option keys recognised by Resolve.
const (
	KeyFormat            = "format"
	KeyCascade           = "cascade"
	KeyColorCase         = "colorCase"
	KeyColorShorthand    = "colorShorthand"
	KeyIndentType        = "indentType"
	KeyIndentSize        = "indentSize"
	KeyTrimLeadingZero   = "trimLeadingZero"
	KeyTrimTrailingZeros = "trimTrailingZeros"
	KeyZeroLengthNoUnit  = "zeroLengthNoUnit"
	KeyMaxAtRuleLength   = "maxAtRuleLength"
	KeyMaxSelectorLength = "maxSelectorLength"
	KeyMaxValueLength    = "maxValueLength"
)

// Config is the resolved, read-only set of formatting parameters for one
// invocation.
type Config struct {
	Format         Format
	Cascade        bool
	ColorCase      ColorCase
	ColorShorthand bool

	// IndentChar is a single space or a single tab; IndentSize is the
	// number of IndentChar per nesting level.
	IndentChar string
	IndentSize int

	TrimLeadingZero   bool
	TrimTrailingZeros bool
	ZeroLengthNoUnit  bool

	// Wrap thresholds in display columns. Zero disables wrapping.
	MaxAtRuleLength   int
	MaxSelectorLength int
	MaxValueLength    int
}

// Default returns a Config with every option at its default value.
func Default() *Config {
	return &Config{
		Format:            FormatExpanded,
		Cascade:           true,
		ColorCase:         ColorLower,
		ColorShorthand:    true,
		IndentChar:        " ",
		IndentSize:        4,
		TrimLeadingZero:   true,
		TrimTrailingZeros: true,
		ZeroLengthNoUnit:  true,
		MaxAtRuleLength:   80,
		MaxSelectorLength: 80,
		MaxValueLength:    80,
	}
}

// Indent returns the indentation for the given nesting depth.
func (c *Config) Indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(c.IndentChar, c.IndentSize*depth)
}

// ConfigError reports a recognised option holding an invalid value.
type ConfigError struct {
	Key    string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid value %#v for option %q: %s", e.Value, e.Key, e.Reason)
}

// Resolve builds a Config from a flat options mapping. Unknown keys are
// ignored. A recognised key with a value of the wrong type or outside its
// enum yields a *ConfigError.
//
// Selecting indentType "tab" forces a single tab per level regardless of
// indentSize.
func Resolve(opts map[string]any) (*Config, error) {
	cfg := Default()
	r := resolver{opts: opts}

	if s, ok := r.enum(KeyFormat, string(FormatExpanded), string(FormatCompact), string(FormatCompressed)); ok {
		cfg.Format = Format(s)
	}
	if s, ok := r.enum(KeyColorCase, string(ColorLower), string(ColorUpper)); ok {
		cfg.ColorCase = ColorCase(s)
	}

	r.boolean(KeyCascade, &cfg.Cascade)
	r.boolean(KeyColorShorthand, &cfg.ColorShorthand)
	r.boolean(KeyTrimLeadingZero, &cfg.TrimLeadingZero)
	r.boolean(KeyTrimTrailingZeros, &cfg.TrimTrailingZeros)
	r.boolean(KeyZeroLengthNoUnit, &cfg.ZeroLengthNoUnit)

	if n, ok := r.integer(KeyIndentSize); ok {
		if n < 0 {
			r.fail(KeyIndentSize, "must not be negative")
		} else {
			cfg.IndentSize = n
		}
	}
	if s, ok := r.enum(KeyIndentType, "space", "tab"); ok && s == "tab" {
		cfg.IndentChar = "\t"
		cfg.IndentSize = 1
	}

	r.threshold(KeyMaxAtRuleLength, &cfg.MaxAtRuleLength)
	r.threshold(KeyMaxSelectorLength, &cfg.MaxSelectorLength)
	r.threshold(KeyMaxValueLength, &cfg.MaxValueLength)

	if r.err != nil {
		return nil, r.err
	}
	return cfg, nil
}

// resolver reads typed values out of an options mapping, keeping the first
// error it meets.
type resolver struct {
	opts map[string]any
	err  *ConfigError
}

func (r *resolver) fail(key, reason string) {
	if r.err == nil {
		r.err = &ConfigError{Key: key, Value: r.opts[key], Reason: reason}
	}
}

func (r *resolver) enum(key string, allowed ...string) (string, bool) {
	raw, ok := r.opts[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if ok {
		s = strings.ToLower(strings.TrimSpace(s))
		for _, a := range allowed {
			if s == a {
				return s, true
			}
		}
	}
	r.fail(key, "must be one of "+strings.Join(allowed, ", "))
	return "", false
}

func (r *resolver) boolean(key string, dst *bool) {
	raw, ok := r.opts[key]
	if !ok {
		return
	}
	b, ok := raw.(bool)
	if !ok {
		r.fail(key, "must be a boolean")
		return
	}
	*dst = b
}

func (r *resolver) integer(key string) (int, bool) {
	raw, ok := r.opts[key]
	if !ok {
		return 0, false
	}
	n, err := toInt(raw)
	if err != nil {
		r.fail(key, err.Error())
		return 0, false
	}
	return n, true
}

// threshold accepts false (disabled, stored as 0) or a positive integer.
func (r *resolver) threshold(key string, dst *int) {
	raw, ok := r.opts[key]
	if !ok {
		return
	}
	if b, isBool := raw.(bool); isBool {
		if b {
			r.fail(key, "must be false or a positive integer")
			return
		}
		*dst = 0
		return
	}
	n, err := toInt(raw)
	if err != nil || n <= 0 {
		r.fail(key, "must be false or a positive integer")
		return
	}
	*dst = n
}

// toInt converts the numeric types produced by YAML, TOML and JSON decoders.
func toInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int8:
		return safecast.Conv[int](v)
	case int16:
		return safecast.Conv[int](v)
	case int32:
		return safecast.Conv[int](v)
	case int64:
		return safecast.Conv[int](v)
	case uint:
		return safecast.Conv[int](v)
	case uint8:
		return safecast.Conv[int](v)
	case uint16:
		return safecast.Conv[int](v)
	case uint32:
		return safecast.Conv[int](v)
	case uint64:
		return safecast.Conv[int](v)
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	}
	return 0, fmt.Errorf("must be an integer, got %T", raw)
}

func floatToInt(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("must be an integer, got %v", f)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("integer %v out of range", f)
	}
	return safecast.Conv[int](int64(f))
}
