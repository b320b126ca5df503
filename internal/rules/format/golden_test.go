package format_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/formatter"
	"github.com/donaldgifford/cssfmt/internal/parser"
	"github.com/donaldgifford/cssfmt/internal/rules"
	_ "github.com/donaldgifford/cssfmt/internal/rules" // Register rules via init().
	"github.com/donaldgifford/cssfmt/internal/testutil"
)

func TestGoldenFiles(t *testing.T) {
	formatFn := func(t *testing.T, c testutil.Case) string {
		cfg, err := config.Resolve(c.Options)
		if err != nil {
			t.Fatalf("options: %v", err)
		}

		dialect := parser.CSS
		if c.SCSS {
			dialect = parser.SCSS
		}
		root, _, err := parser.Parse(c.Input, dialect)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		formatted, _ := formatter.Run(root, cfg, rules.FormatRules())
		out := formatter.Render(formatted, cfg)

		// Formatting the output again must not change it.
		again, _, err := parser.Parse(out, dialect)
		if err != nil {
			t.Fatalf("reparse: %v", err)
		}
		reformatted, _ := formatter.Run(again, cfg, rules.FormatRules())
		if second := formatter.Render(reformatted, cfg); second != out {
			t.Errorf("not idempotent:\n--- first\n%s\n--- second\n%s", out, second)
		}
		return out
	}

	_, filename, _, _ := runtime.Caller(0)
	testdataDir := filepath.Join(filepath.Dir(filename), "..", "..", "..", "testdata")

	testutil.RunGoldenDir(t, testdataDir, formatFn)
}
