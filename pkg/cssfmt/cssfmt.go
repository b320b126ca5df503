package cssfmt

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/formatter"
	"github.com/donaldgifford/cssfmt/internal/parser"
	"github.com/donaldgifford/cssfmt/internal/rules"
)

// Dialect selects the input grammar.
type Dialect = parser.Dialect

// Supported dialects.
const (
	CSS  = parser.CSS
	SCSS = parser.SCSS
)

// Result is the outcome of a successful format.
type Result struct {
	CSS      string
	Warnings []Warning
}

// Warning is a recoverable problem. Line is 0 when the position is unknown.
type Warning struct {
	Message string
	Line    int
	Column  int
}

func (w Warning) String() string {
	if w.Line == 0 {
		return w.Message
	}
	return fmt.Sprintf("%d:%d: %s", w.Line, w.Column, w.Message)
}

// Kind classifies an Error.
type Kind int

// Error kinds.
const (
	ParseError Kind = iota + 1
	ConfigError
)

func (k Kind) String() string {
	switch k {
	case ParseError:
		return "parse error"
	case ConfigError:
		return "config error"
	default:
		return "unknown error"
	}
}

// Error is a fatal formatting failure. No output is produced.
type Error struct {
	Kind    Kind
	Message string
	Line    int
	Column  int

	err error
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying *parser.ParseError or *config.ConfigError.
func (e *Error) Unwrap() error {
	return e.err
}

// Format resolves opts and formats src. Unknown option keys are ignored.
func Format(src string, dialect Dialect, opts map[string]any) (*Result, error) {
	cfg, err := config.Resolve(opts)
	if err != nil {
		return nil, newError(err)
	}
	return FormatConfig(src, dialect, cfg)
}

// FormatConfig formats src with an already resolved configuration.
func FormatConfig(src string, dialect Dialect, cfg *config.Config) (*Result, error) {
	root, parseWarnings, err := parser.Parse(src, dialect)
	if err != nil {
		return nil, newError(err)
	}

	formatted, ruleWarnings := formatter.Run(root, cfg, rules.FormatRules())

	res := &Result{CSS: formatter.Render(formatted, cfg)}
	for _, w := range append(parseWarnings, ruleWarnings...) {
		res.Warnings = append(res.Warnings, Warning{
			Message: w.Message,
			Line:    w.Pos.Line,
			Column:  w.Pos.Column,
		})
	}
	return res, nil
}

func newError(err error) *Error {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return &Error{
			Kind:    ParseError,
			Message: parseErr.Message,
			Line:    parseErr.Pos.Line,
			Column:  parseErr.Pos.Column,
			err:     err,
		}
	}
	return &Error{Kind: ConfigError, Message: err.Error(), err: err}
}

// ParseDialect parses a dialect name ("css" or "scss", any case).
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "css":
		return CSS, nil
	case "scss":
		return SCSS, nil
	}
	return CSS, fmt.Errorf("unknown syntax %q (want css or scss)", name)
}

// DialectForPath picks the dialect for a file from its extension.
func DialectForPath(path string) Dialect {
	if strings.EqualFold(filepath.Ext(path), ".scss") {
		return SCSS
	}
	return CSS
}
