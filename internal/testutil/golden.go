// Package testutil provides shared test helpers for golden file testing.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/donaldgifford/cssfmt/internal/config"
)

// Update is a flag that, when set, regenerates golden files from current output.
// Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// Case is one golden test directory.
type Case struct {
	Dir   string
	Input string
	// SCSS is set when the input file is input.scss.
	SCSS bool
	// Options holds the contents of options.yml, or nil.
	Options map[string]any
}

// FormatFunc formats a golden case and returns the output to compare
// against expected.css.
type FormatFunc func(t *testing.T, c Case) string

// RunGolden runs a single golden file test in the given directory.
// It reads input.css (or input.scss) and the optional options.yml, applies
// formatFn, and compares against expected.css.
func RunGolden(t *testing.T, dir string, formatFn FormatFunc) {
	t.Helper()

	c := Case{Dir: dir}
	inputPath := filepath.Join(dir, "input.css")
	if _, err := os.Stat(filepath.Join(dir, "input.scss")); err == nil {
		inputPath = filepath.Join(dir, "input.scss")
		c.SCSS = true
	}
	expectedPath := filepath.Join(dir, "expected.css")

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}
	c.Input = string(inputBytes)

	optionsPath := filepath.Join(dir, "options.yml")
	if _, err := os.Stat(optionsPath); err == nil {
		c.Options, err = config.LoadOptions(optionsPath)
		if err != nil {
			t.Fatalf("failed to read %s: %v", optionsPath, err)
		}
	}

	actual := formatFn(t, c)

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	expected := string(expectedBytes)
	if actual != expected {
		t.Errorf("output mismatch for %s:\n--- expected\n%s\n--- actual\n%s", dir, expected, actual)
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, formatFn FormatFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(testdataDir, entry.Name())
			RunGolden(t, dir, formatFn)
		})
	}
}
