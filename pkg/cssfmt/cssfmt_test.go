package cssfmt

import (
	"errors"
	"sync"
	"testing"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

func mustFormat(t *testing.T, src string, dialect Dialect, opts map[string]any) *Result {
	t.Helper()
	res, err := Format(src, dialect, opts)
	if err != nil {
		t.Fatalf("Format(%q): %v", src, err)
	}
	return res
}

func TestFormatDensity(t *testing.T) {
	input := "a { color: red; margin: 0px; }"

	tests := []struct {
		format string
		want   string
	}{
		{"expanded", "a {\n    color: red;\n    margin: 0;\n}\n"},
		{"compact", "a { color: red; margin: 0; }\n"},
		{"compressed", "a{color:red;margin:0}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res := mustFormat(t, input, CSS, map[string]any{"format": tt.format})
			if res.CSS != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", res.CSS, tt.want)
			}
		})
	}
}

func TestFormatCompressedDropsEmbeddedComments(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dialect Dialect
		want    string
	}{
		{"value", "a { color: red /* x */ }", CSS, "a{color:red}\n"},
		{"selector", "a /* c */, b { color: red }", CSS, "a,b{color:red}\n"},
		{"params", "@media screen /* m */ { a { b: c } }", CSS, "@media screen{a{b:c}}\n"},
		{"line comment", "a {\n color: red // hi\n}", SCSS, "a{color:red}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustFormat(t, tt.src, tt.dialect, map[string]any{"format": "compressed"})
			if res.CSS != tt.want {
				t.Errorf("got %q, want %q", res.CSS, tt.want)
			}
		})
	}
}

func TestFormatValues(t *testing.T) {
	res := mustFormat(t, "a{color:#FFFFFF;margin:0.50px;transition:opacity 0s}", CSS, nil)

	want := "a {\n    color: #fff;\n    margin: .5px;\n    transition: opacity 0s;\n}\n"
	if res.CSS != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.CSS, want)
	}
}

func TestFormatCascade(t *testing.T) {
	input := "a{-webkit-transform:x;color:red;-moz-transform:x;transform:x}"

	res := mustFormat(t, input, CSS, map[string]any{"cascade": true, "format": "expanded"})

	want := "a {\n" +
		"    color: red;\n" +
		"    -webkit-transform: x;\n" +
		"       -moz-transform: x;\n" +
		"            transform: x;\n" +
		"}\n"
	if res.CSS != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.CSS, want)
	}
}

func TestFormatSelectorWrap(t *testing.T) {
	input := "h1,h2,h3,h4,h5,h6{color:red}"

	tests := []struct {
		name string
		cap  any
		want string
	}{
		{
			name: "over threshold",
			cap:  20,
			want: "h1,\n    h2,\n    h3,\n    h4,\n    h5,\n    h6 {\n    color: red;\n}\n",
		},
		{
			name: "under threshold",
			cap:  40,
			want: "h1, h2, h3, h4, h5, h6 {\n    color: red;\n}\n",
		},
		{
			name: "disabled",
			cap:  false,
			want: "h1, h2, h3, h4, h5, h6 {\n    color: red;\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mustFormat(t, input, CSS, map[string]any{"maxSelectorLength": tt.cap})
			if res.CSS != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", res.CSS, tt.want)
			}
		})
	}
}

func TestFormatRecoversStraySemicolon(t *testing.T) {
	res := mustFormat(t, "a;b{color:red}", CSS, nil)

	if res.CSS != "a;b {\n    color: red;\n}\n" {
		t.Errorf("unexpected output:\n%s", res.CSS)
	}
	want := []Warning{{Message: `unexpected ";" in selector`, Line: 1, Column: 2}}
	if len(res.Warnings) != 1 || res.Warnings[0] != want[0] {
		t.Errorf("warnings: got %v, want %v", res.Warnings, want)
	}
}

func TestFormatUnclosedBlockIsFatal(t *testing.T) {
	res, err := Format("a{color:red}\nb {", CSS, nil)
	if res != nil {
		t.Errorf("expected no result, got %+v", res)
	}

	var fmtErr *Error
	if !errors.As(err, &fmtErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fmtErr.Kind != ParseError {
		t.Errorf("Kind: got %v, want %v", fmtErr.Kind, ParseError)
	}
	if fmtErr.Line != 2 || fmtErr.Column != 3 {
		t.Errorf("position: got %d:%d, want 2:3", fmtErr.Line, fmtErr.Column)
	}

	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("Unwrap should expose *parser.ParseError, got %v", err)
	}
}

func TestFormatInvalidConfig(t *testing.T) {
	_, err := Format("a{}", CSS, map[string]any{"format": "nested"})

	var fmtErr *Error
	if !errors.As(err, &fmtErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if fmtErr.Kind != ConfigError {
		t.Errorf("Kind: got %v, want %v", fmtErr.Kind, ConfigError)
	}
	if fmtErr.Line != 0 {
		t.Errorf("config errors carry no position, got line %d", fmtErr.Line)
	}

	var cfgErr *config.ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Key != "format" {
		t.Errorf("Unwrap should expose *config.ConfigError for format, got %v", err)
	}
}

func TestFormatEmptyInput(t *testing.T) {
	for _, src := range []string{"", "  \n\n\t"} {
		res := mustFormat(t, src, CSS, nil)
		if res.CSS != "" || len(res.Warnings) != 0 {
			t.Errorf("Format(%q) = %+v, want empty result", src, res)
		}
	}
}

func TestFormatIdempotent(t *testing.T) {
	inputs := []struct {
		name    string
		src     string
		dialect Dialect
	}{
		{"simple", "a{color:red;margin:0px}", CSS},
		{"media", "@media screen and (max-width:100px){a>b{color:#FFF}}", CSS},
		{"comments and blanks", "/* head */\n\na,b{-webkit-transition:all 0.3s;transition:all 0.3s}\n\n\nc{}", CSS},
		{"important", "a{color:RED ! IMPORTANT;font:12px/1.5 \"Helvetica Neue\",Arial,sans-serif}", CSS},
		{"scss nesting", "$x: 1px;\n.a{ .b{ margin: $x } // note\n}", SCSS},
		{"stray semicolon", "a;b{color:red}", CSS},
		{"embedded comments", "a /* c */,b{color:red /* x\n y */}\n@media screen /* m */{a{b:c}}", CSS},
		{"long value", "a{font-family:aaaaaaaaaaaa,bbbbbbbbbbbbbbbb,cccccccccccccccc,dddddddddddddddd,eeeeeeeeeeeeeeee,ffff}", CSS},
	}
	formats := []string{"expanded", "compact", "compressed"}

	for _, in := range inputs {
		for _, format := range formats {
			t.Run(in.name+"/"+format, func(t *testing.T) {
				opts := map[string]any{"format": format}
				once := mustFormat(t, in.src, in.dialect, opts)
				twice := mustFormat(t, once.CSS, in.dialect, opts)
				if once.CSS != twice.CSS {
					t.Errorf("not idempotent:\nfirst:\n%s\nsecond:\n%s", once.CSS, twice.CSS)
				}
			})
		}
	}
}

func TestFormatConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := Format("a{-webkit-a:0.50px;a:#FFFFFF}", CSS, nil)
			if err == nil {
				results[i] = res.CSS
			}
		}()
	}
	wg.Wait()

	for i, got := range results {
		if got != results[0] || got == "" {
			t.Fatalf("result %d differs: %q vs %q", i, got, results[0])
		}
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input   string
		want    Dialect
		wantErr bool
	}{
		{"css", CSS, false},
		{"SCSS", SCSS, false},
		{" scss ", SCSS, false},
		{"sass", CSS, true},
		{"", CSS, true},
	}

	for _, tt := range tests {
		got, err := ParseDialect(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDialect(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseDialect(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestDialectForPath(t *testing.T) {
	tests := map[string]Dialect{
		"style.css":        CSS,
		"theme/_vars.scss": SCSS,
		"MAIN.SCSS":        SCSS,
		"legacy.less":      CSS,
		"noext":            CSS,
	}
	for path, want := range tests {
		if got := DialectForPath(path); got != want {
			t.Errorf("DialectForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: ParseError, Message: "unclosed block", Line: 3, Column: 7}
	if got := e.Error(); got != "3:7: unclosed block" {
		t.Errorf("Error() = %q", got)
	}
	w := Warning{Message: "unknown word"}
	if got := w.String(); got != "unknown word" {
		t.Errorf("String() = %q", got)
	}
}
