// Package runner orchestrates the read -> format -> report pipeline for the
// command line.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/pkg/cssfmt"
	"github.com/donaldgifford/cssfmt/pkg/diff"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitFormatDiff = 1
	ExitError      = 2
)

// stdinName labels standard input in diagnostics and diffs.
const stdinName = "<stdin>"

// Options configures the runner behavior.
type Options struct {
	Files      []string
	Check      bool
	Diff       bool
	Write      bool
	ConfigPath string
	// Syntax is "auto" (by file extension), "css" or "scss".
	Syntax string
	// Overrides are option values that take precedence over the config file.
	Overrides map[string]any
	Quiet     bool
	Verbose   bool
	// Color enables coloured diagnostics and diffs.
	Color bool
	// Jobs bounds the number of files formatted concurrently.
	Jobs   int
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// result is the outcome of formatting one input.
type result struct {
	path     string
	input    string
	output   string
	warnings []cssfmt.Warning
	err      error
}

func (r *result) changed() bool {
	return r.err == nil && r.input != r.output
}

type runner struct {
	opts *Options
	cfg  *config.Config
	log  *zap.Logger

	warnLabel *color.Color
	errLabel  *color.Color
}

// Run executes the format pipeline and returns an exit code.
func Run(ctx context.Context, opts *Options) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	r := &runner{
		opts:      opts,
		log:       opts.Logger,
		warnLabel: color.New(color.FgYellow),
		errLabel:  color.New(color.FgRed, color.Bold),
	}
	if opts.Color {
		r.warnLabel.EnableColor()
		r.errLabel.EnableColor()
	} else {
		r.warnLabel.DisableColor()
		r.errLabel.DisableColor()
	}

	if _, err := r.dialect(""); err != nil {
		r.fail("%v", err)
		return ExitError
	}

	cfg, used, err := config.Load(opts.ConfigPath, opts.Overrides)
	if err != nil {
		r.fail("%v", err)
		return ExitError
	}
	r.cfg = cfg
	if used == "" {
		r.log.Debug("no config file found, using defaults")
	} else {
		r.log.Debug("loaded config", zap.String("path", used))
	}

	if len(opts.Files) == 0 {
		return r.runStdin()
	}
	return r.runFiles(ctx)
}

func (r *runner) runStdin() int {
	src, err := io.ReadAll(r.opts.Stdin)
	if err != nil {
		r.fail("reading stdin: %v", err)
		return ExitError
	}

	res := r.format(stdinName, string(src))
	code := r.report(res)
	if res.err == nil && !r.opts.Check && !r.opts.Diff {
		if _, err := io.WriteString(r.opts.Stdout, res.output); err != nil {
			r.fail("writing stdout: %v", err)
			return ExitError
		}
	}
	return code
}

// runFiles formats files concurrently and reports them in argument order.
func (r *runner) runFiles(ctx context.Context) int {
	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*result, len(r.opts.Files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range r.opts.Files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = &result{path: path, err: err}
				return err
			}
			results[i] = r.formatFile(path)
			return nil
		})
	}
	// Per-file failures live in results; only cancellation surfaces here.
	_ = g.Wait()

	exitCode := ExitOK
	for _, res := range results {
		exitCode = max(exitCode, r.report(res))
	}
	return exitCode
}

// formatFile reads, formats and, in write mode, rewrites one file.
func (r *runner) formatFile(path string) *result {
	src, err := os.ReadFile(path)
	if err != nil {
		return &result{path: path, err: err}
	}

	res := r.format(path, string(src))
	if !res.changed() || r.opts.Check || r.opts.Diff {
		return res
	}

	info, err := os.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	if err := os.WriteFile(path, []byte(res.output), info.Mode().Perm()); err != nil {
		res.err = fmt.Errorf("writing %s: %w", path, err)
	}
	return res
}

func (r *runner) format(path, input string) *result {
	res := &result{path: path, input: input}

	dialect, err := r.dialect(path)
	if err != nil {
		res.err = err
		return res
	}

	start := time.Now()
	out, err := cssfmt.FormatConfig(input, dialect, r.cfg)
	if err != nil {
		res.err = err
		return res
	}
	res.output = out.CSS
	res.warnings = out.Warnings

	r.log.Debug("formatted",
		zap.String("path", path),
		zap.Stringer("syntax", dialect),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("warnings", len(out.Warnings)),
		zap.Bool("changed", res.changed()),
	)
	return res
}

// dialect resolves the input syntax for path.
func (r *runner) dialect(path string) (cssfmt.Dialect, error) {
	switch r.opts.Syntax {
	case "", "auto":
		return cssfmt.DialectForPath(path), nil
	default:
		return cssfmt.ParseDialect(r.opts.Syntax)
	}
}

// report prints diagnostics for one result and returns its exit code.
func (r *runner) report(res *result) int {
	if res.err != nil {
		r.reportError(res)
		return ExitError
	}

	if !r.opts.Quiet {
		for _, w := range res.warnings {
			r.diagnostic(res.path, w.Line, w.Column, r.warnLabel.Sprint("warning"), w.Message)
		}
	}

	switch {
	case r.opts.Check:
		if !res.changed() {
			return ExitOK
		}
		if !r.opts.Quiet {
			fmt.Fprintln(r.opts.Stderr, res.path)
		}
		return ExitFormatDiff

	case r.opts.Diff:
		if !res.changed() {
			return ExitOK
		}
		hunks := diff.Hunks(res.input, res.output)
		if err := diff.Write(r.opts.Stdout, res.path, hunks, r.opts.Color); err != nil {
			r.fail("writing diff: %v", err)
			return ExitError
		}
		return ExitFormatDiff
	}

	if r.opts.Verbose && res.path != stdinName {
		state := "unchanged"
		if res.changed() {
			state = "formatted"
		}
		fmt.Fprintf(r.opts.Stderr, "%s: %s\n", res.path, state)
	}
	return ExitOK
}

func (r *runner) reportError(res *result) {
	var fmtErr *cssfmt.Error
	if errors.As(res.err, &fmtErr) && fmtErr.Kind == cssfmt.ParseError {
		r.diagnostic(res.path, fmtErr.Line, fmtErr.Column, r.errLabel.Sprint("error"), fmtErr.Message)
		if !r.opts.Quiet {
			fmt.Fprint(r.opts.Stderr, excerpt(res.input, fmtErr.Line, fmtErr.Column))
		}
		return
	}
	r.fail("%s: %v", res.path, res.err)
}

// excerpt returns the source line at line with a caret under the byte
// column col, both indented, or "" when the position is outside src.
func excerpt(src string, line, col int) string {
	if line <= 0 || col <= 0 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return ""
	}
	text := strings.TrimRight(lines[line-1], "\r")
	prefix := text[:min(col-1, len(text))]

	var caret strings.Builder
	for _, c := range prefix {
		if c == '\t' {
			caret.WriteByte('\t')
			continue
		}
		caret.WriteString(strings.Repeat(" ", runewidth.RuneWidth(c)))
	}
	return "    " + text + "\n    " + caret.String() + "^\n"
}

// diagnostic prints "path:line:col: label: message".
func (r *runner) diagnostic(path string, line, col int, label, msg string) {
	if line > 0 {
		fmt.Fprintf(r.opts.Stderr, "%s:%d:%d: %s: %s\n", path, line, col, label, msg)
		return
	}
	fmt.Fprintf(r.opts.Stderr, "%s: %s: %s\n", path, label, msg)
}

func (r *runner) fail(format string, args ...any) {
	fmt.Fprintf(r.opts.Stderr, "cssfmt: "+format+"\n", args...)
}
