package format

import (
	"slices"
	"testing"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

func TestNormalizeValue(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"hex shorthand", "#FFFFFF", "#fff"},
		{"hex pairs collapse", "#FF00FF", "#f0f"},
		{"hex pairs differ", "#ff00fe", "#ff00fe"},
		{"hex with alpha", "#AABBCCDD", "#abcd"},
		{"hex short form", "#ABC", "#abc"},
		{"hex not collapsible", "#ABCDEF", "#abcdef"},
		{"id-like token", "#abcdeg", "#abcdeg"},
		{"leading zero", "0.50px", ".5px"},
		{"negative leading zero", "-0.5em", "-.5em"},
		{"signed fraction", "+.50", "+.5"},
		{"trailing zeros", "10.500%", "10.5%"},
		{"integral fraction", "1.0", "1"},
		{"zero fraction", "0.0", "0"},
		{"zero length", "0px", "0"},
		{"zero length list", "10px 0em 0.0rem", "10px 0 0"},
		{"zero time kept", "0s", "0s"},
		{"zero percent kept", "0%", "0%"},
		{"zero angle kept", "0deg", "0deg"},
		{"math function kept", "calc(0px + 10%)", "calc(0px + 10%)"},
		{"prefixed math function kept", "-webkit-calc(0px + 1em)", "-webkit-calc(0px + 1em)"},
		{"nested math function", "min(10px, max(0px, 1em))", "min(10px, max(0px, 1em))"},
		{"transform function", "translate3d(0px, 0.50px, 0px)", "translate3d(0, .5px, 0)"},
		{"alpha channel", "rgba(0,0,0,0.50)", "rgba(0,0,0,.5)"},
		{"url kept", "url(image0.50.png)", "url(image0.50.png)"},
		{"string kept", `"0.50px #FFFFFF"`, `"0.50px #FFFFFF"`},
		{"identifier digits kept", "h1 x0px", "h1 x0px"},
		{"exponent kept", "1.5E3", "1.5E3"},
		{"interpolation kept", "#{$a}0.50 0.50px", "#{$a}0.50 .5px"},
		{"integer kept", "400", "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, notes := NormalizeValue(tt.input, cfg)
			if got != tt.want {
				t.Errorf("NormalizeValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if len(notes) != 0 {
				t.Errorf("unexpected notes: %v", notes)
			}
		})
	}
}

func TestNormalizeValueOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.Config)
		input  string
		want   string
	}{
		{"upper case", func(c *config.Config) { c.ColorCase = config.ColorUpper }, "#ffffff #abcdef", "#FFF #ABCDEF"},
		{"no shorthand", func(c *config.Config) { c.ColorShorthand = false }, "#FFFFFF", "#ffffff"},
		{"keep leading zero", func(c *config.Config) { c.TrimLeadingZero = false }, "0.50", "0.5"},
		{"keep trailing zeros", func(c *config.Config) { c.TrimTrailingZeros = false }, "0.50 1.0", ".50 1.0"},
		{"keep zero units", func(c *config.Config) { c.ZeroLengthNoUnit = false }, "0px 0.0em", "0px 0em"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			if got, _ := NormalizeValue(tt.input, cfg); got != tt.want {
				t.Errorf("NormalizeValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeValueSuspiciousHex(t *testing.T) {
	for _, input := range []string{"#12345", "#1234567"} {
		got, notes := NormalizeValue(input, config.Default())
		if got != input {
			t.Errorf("NormalizeValue(%q) = %q, want it unchanged", input, got)
		}
		want := []string{`suspicious hex color "` + input + `"`}
		if !slices.Equal(notes, want) {
			t.Errorf("notes: got %v, want %v", notes, want)
		}
	}
}

func TestValuesRule(t *testing.T) {
	rule := &Values{}
	root := mustParse(t, "a{--gap:0.50px;margin:0.50px;unicode-range:U+0000-00FF;color:#12345}", parser.CSS)

	result, warnings := rule.Format(root, config.Default())

	got := decls(t, result)
	want := []string{"0.50px", ".5px", "U+0000-00FF", "#12345"}
	for i, d := range got {
		if d.Value != want[i] {
			t.Errorf("%s: got %q, want %q", d.Prop, d.Value, want[i])
		}
	}

	if len(warnings) != 1 {
		t.Fatalf("want 1 warning, got %v", warnings)
	}
	if warnings[0].Pos != (parser.Pos{Line: 1, Column: 56}) {
		t.Errorf("warning position: got %v", warnings[0].Pos)
	}

	if decls(t, root)[1].Value != "0.50px" {
		t.Error("input tree modified")
	}
}
