// Package main is the entry point for cssfmt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/runner"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// execute runs the root command and returns the process exit code.
func execute(ctx context.Context, args []string) int {
	exitCode := runner.ExitOK
	cmd := newRootCmd(&exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cssfmt: %v\n", err)
		return runner.ExitError
	}
	return exitCode
}

func newRootCmd(exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cssfmt [flags] [files...]",
		Short: "Format CSS and SCSS files",
		Long: `cssfmt formats CSS and SCSS stylesheets.

With no files, cssfmt reads from stdin and writes the result to stdout.
Files are rewritten in place unless --check or --diff is given.

Options are read from cssfmt.yml, .cssfmt.yml, cssfmt.toml and friends in
the current directory, or from --config. Flags override the file.`,
		Version:       fmt.Sprintf("%s (%s) %s", version, commit, date),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			opts, err := runnerOptions(cmd, args)
			if err != nil {
				return err
			}
			defer func() { _ = opts.Logger.Sync() }()

			*exitCode = runner.Run(cmd.Context(), opts)
			return nil
		},
	}
	cmd.SetVersionTemplate("cssfmt {{.Version}}\n")

	f := cmd.Flags()
	f.Bool("check", false, "exit 1 and list files that are not formatted")
	f.Bool("diff", false, "print a unified diff of changes")
	f.BoolP("write", "w", false, "write result to the source files (default for file arguments)")
	f.String("config", "", "path to config file")
	f.BoolP("quiet", "q", false, "suppress warnings and file listings")
	f.BoolP("verbose", "v", false, "print files as they are processed and debug logs")
	f.String("syntax", "auto", "input syntax (auto|css|scss)")
	f.IntP("jobs", "j", 0, "number of files formatted in parallel (default GOMAXPROCS)")
	f.Bool("no-color", false, "disable coloured output")

	// Formatting options; only flags that are set override the config file.
	f.String("format", "expanded", "output format (expanded|compact|compressed)")
	f.String("indent-type", "space", "indent character (space|tab)")
	f.Int("indent-size", 4, "indent width in characters")
	f.Bool("cascade", true, "align vendor-prefixed declarations (expanded format)")
	f.String("color-case", "lower", "hex colour case (lower|upper)")
	f.Bool("color-shorthand", true, "shorten hex colours such as #ffffff to #fff")
	f.Bool("trim-leading-zero", true, "drop the leading zero of fractions (0.5 to .5)")
	f.Bool("trim-trailing-zeros", true, "drop trailing fraction zeros (1.50 to 1.5)")
	f.Bool("zero-length-no-unit", true, "drop units from zero lengths (0px to 0)")
	f.Int("max-at-rule-length", 80, "wrap at-rule params wider than this (0 disables)")
	f.Int("max-selector-length", 80, "wrap selector lists wider than this (0 disables)")
	f.Int("max-value-length", 80, "wrap values wider than this (0 disables)")

	return cmd
}

// optionFlags maps formatting flags to their config option keys.
var optionFlags = map[string]string{
	"format":              config.KeyFormat,
	"indent-type":         config.KeyIndentType,
	"indent-size":         config.KeyIndentSize,
	"cascade":             config.KeyCascade,
	"color-case":          config.KeyColorCase,
	"color-shorthand":     config.KeyColorShorthand,
	"trim-leading-zero":   config.KeyTrimLeadingZero,
	"trim-trailing-zeros": config.KeyTrimTrailingZeros,
	"zero-length-no-unit": config.KeyZeroLengthNoUnit,
	"max-at-rule-length":  config.KeyMaxAtRuleLength,
	"max-selector-length": config.KeyMaxSelectorLength,
	"max-value-length":    config.KeyMaxValueLength,
}

func runnerOptions(cmd *cobra.Command, args []string) (*runner.Options, error) {
	f := cmd.Flags()

	opts := &runner.Options{
		Files:     args,
		Overrides: map[string]any{},
		Stdin:     cmd.InOrStdin(),
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
	}

	var err error
	bools := []struct {
		name string
		dst  *bool
	}{
		{"check", &opts.Check},
		{"diff", &opts.Diff},
		{"write", &opts.Write},
		{"quiet", &opts.Quiet},
		{"verbose", &opts.Verbose},
	}
	for _, b := range bools {
		if *b.dst, err = f.GetBool(b.name); err != nil {
			return nil, err
		}
	}
	if opts.ConfigPath, err = f.GetString("config"); err != nil {
		return nil, err
	}
	if opts.Syntax, err = f.GetString("syntax"); err != nil {
		return nil, err
	}
	if opts.Jobs, err = f.GetInt("jobs"); err != nil {
		return nil, err
	}

	if opts.Check && opts.Diff {
		return nil, fmt.Errorf("--check cannot be used with --diff")
	}
	if opts.Write && (opts.Check || opts.Diff) {
		return nil, fmt.Errorf("--write cannot be used with --check or --diff")
	}

	for name, key := range optionFlags {
		if !f.Changed(name) {
			continue
		}
		value, err := flagValue(cmd, name)
		if err != nil {
			return nil, err
		}
		opts.Overrides[key] = value
	}

	noColor, err := f.GetBool("no-color")
	if err != nil {
		return nil, err
	}
	out := os.Stderr
	if opts.Diff {
		out = os.Stdout
	}
	opts.Color = !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(out)

	opts.Logger = zap.NewNop()
	if opts.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
	}
	return opts, nil
}

// flagValue returns a formatting flag as an option value. A wrap cap of 0
// becomes false, which is how config files disable wrapping.
func flagValue(cmd *cobra.Command, name string) (any, error) {
	f := cmd.Flags()
	switch f.Lookup(name).Value.Type() {
	case "bool":
		return f.GetBool(name)
	case "int":
		n, err := f.GetInt(name)
		if err != nil {
			return nil, err
		}
		if n == 0 && strings.HasPrefix(name, "max-") {
			return false, nil
		}
		return n, nil
	default:
		return f.GetString(name)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
