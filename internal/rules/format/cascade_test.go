package format

import (
	"slices"
	"testing"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

type propPad struct {
	prop string
	pad  int
}

func propPads(t *testing.T, root *parser.Root) []propPad {
	t.Helper()
	var out []propPad
	for _, d := range decls(t, root) {
		out = append(out, propPad{d.Prop, d.Pad})
	}
	return out
}

func TestCascade(t *testing.T) {
	rule := &Cascade{}
	cfg := config.Default()

	tests := []struct {
		name  string
		input string
		want  []propPad
	}{
		{
			name:  "prefixes move before standard property",
			input: "a{-webkit-box-sizing:border-box;color:red;box-sizing:border-box;-moz-box-sizing:border-box}",
			want: []propPad{
				{"color", 0},
				{"-webkit-box-sizing", 0},
				{"-moz-box-sizing", 3},
				{"box-sizing", 8},
			},
		},
		{
			name:  "attaches to preceding standard property",
			input: "a{transition:none;color:red;-webkit-transition:none}",
			want: []propPad{
				{"-webkit-transition", 0},
				{"transition", 8},
				{"color", 0},
			},
		},
		{
			name:  "first following standard property wins",
			input: "a{x:1;-o-x:2;x:3}",
			want: []propPad{
				{"x", 0},
				{"-o-x", 0},
				{"x", 3},
			},
		},
		{
			name:  "no standard property",
			input: "a{-webkit-appearance:none;color:red}",
			want: []propPad{
				{"-webkit-appearance", 0},
				{"color", 0},
			},
		},
		{
			name:  "custom properties never group",
			input: "a{--transition:none;-ms-transition:none}",
			want: []propPad{
				{"--transition", 0},
				{"-ms-transition", 0},
			},
		},
		{
			name:  "unprefixed block untouched",
			input: "a{color:red;margin:0}",
			want: []propPad{
				{"color", 0},
				{"margin", 0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.input, parser.CSS)
			result, _ := rule.Format(root, cfg)
			if got := propPads(t, result); !slices.Equal(got, tt.want) {
				t.Errorf("got %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestCascadeNestedBlocks(t *testing.T) {
	rule := &Cascade{}
	root := mustParse(t, "@media screen{a{-ms-transform:none;transform:none}}", parser.CSS)

	result, _ := rule.Format(root, config.Default())

	at := result.Children[0].(*parser.AtRule)
	inner := &parser.Root{Children: at.Children}
	want := []propPad{{"-ms-transform", 0}, {"transform", 4}}
	if got := propPads(t, inner); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCascadeIdempotent(t *testing.T) {
	rule := &Cascade{}
	cfg := config.Default()
	root := mustParse(t, "a{-webkit-a:1;b:2;a:3;-moz-a:4;c:5}", parser.CSS)

	once, _ := rule.Format(root, cfg)
	twice, _ := rule.Format(once, cfg)

	if got, want := propPads(t, twice), propPads(t, once); !slices.Equal(got, want) {
		t.Errorf("second pass changed order: got %v, want %v", got, want)
	}
}

func TestCascadeDisabled(t *testing.T) {
	rule := &Cascade{}
	input := "a{box-sizing:border-box;-webkit-box-sizing:border-box}"
	want := []propPad{{"box-sizing", 0}, {"-webkit-box-sizing", 0}}

	tests := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"cascade off", func(c *config.Config) { c.Cascade = false }},
		{"compact format", func(c *config.Config) { c.Format = config.FormatCompact }},
		{"compressed format", func(c *config.Config) { c.Format = config.FormatCompressed }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.modify(cfg)
			result, _ := rule.Format(mustParse(t, input, parser.CSS), cfg)
			if got := propPads(t, result); !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}

func TestSplitVendor(t *testing.T) {
	tests := []struct {
		prop, prefix, base string
	}{
		{"-webkit-transition", "-webkit-", "transition"},
		{"-MOZ-Appearance", "-moz-", "appearance"},
		{"-ms-filter", "-ms-", "filter"},
		{"-o-transform", "-o-", "transform"},
		{"-khtml-opacity", "", "-khtml-opacity"},
		{"-webkit-", "", "-webkit-"},
		{"color", "", "color"},
	}

	for _, tt := range tests {
		prefix, base := splitVendor(tt.prop)
		if prefix != tt.prefix || base != tt.base {
			t.Errorf("splitVendor(%q) = (%q, %q), want (%q, %q)", tt.prop, prefix, base, tt.prefix, tt.base)
		}
	}
}
