package parser

import (
	"errors"
	"testing"
)

func FuzzParse(f *testing.F) {
	// Seed with representative stylesheet constructs.
	seeds := []string{
		"a{color:red}",
		"a, b > c { margin: 0 auto; }\n",
		"@media screen and (max-width: 100px) { a { b: c } }",
		"@import url(foo.css);",
		"@charset \"utf-8\";",
		"/* comment */ a { /* inner */ }",
		"a { color: red !important }",
		"a { background: url(data:image/png;base64,AAAA) }",
		"a { content: \"}\" }",
		"$x: 1px;\n.a { &:hover { color: $x } }",
		".a-#{$b} { width: calc(100% - #{$gap}); }",
		"// line comment\na{}",
		"a;b{}",
		"a {",
		"}",
		"a { b: rgb(1, 2 }",
		"/* open",
		"\"open",
		"",
	}

	for _, s := range seeds {
		f.Add(s, false)
		f.Add(s, true)
	}

	f.Fuzz(func(t *testing.T, input string, scss bool) {
		dialect := CSS
		if scss {
			dialect = SCSS
		}

		// The parser must never panic, and the outcome is either a tree or
		// a *ParseError, never both.
		root, _, err := Parse(input, dialect)
		if err != nil {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("error is %T, want *ParseError", err)
			}
			if root != nil {
				t.Fatal("root must be nil on error")
			}
			return
		}
		if root == nil {
			t.Fatal("nil root without error")
		}
	})
}
