package format

import (
	"fmt"
	"strings"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

// Values rewrites hex colours and numeric literals in declaration values:
// colour case and shorthand, leading and trailing zeros, and units on zero
// lengths. Every rewrite is lexical and leaves the computed value unchanged.
type Values struct{}

// Name returns the identifier for this rule.
func (*Values) Name() string {
	return "values"
}

// Format normalizes every declaration value in the tree.
func (*Values) Format(root *parser.Root, cfg *config.Config) (*parser.Root, []parser.Warning) {
	var warnings []parser.Warning

	out := root.Clone()
	eachNode(out.Children, func(n parser.Node) {
		d, ok := n.(*parser.Decl)
		if !ok || !normalizable(d) {
			return
		}
		value, notes := NormalizeValue(d.Value, cfg)
		d.Value = value
		for _, note := range notes {
			warnings = append(warnings, parser.Warning{Message: note, Pos: d.Pos})
		}
	})
	return out, warnings
}

// normalizable excludes opaque declarations, custom properties (arbitrary
// token streams) and unicode-range (hex code points, not colours).
func normalizable(d *parser.Decl) bool {
	if d.NoColon || strings.HasPrefix(d.Prop, "--") {
		return false
	}
	return !strings.EqualFold(d.Prop, "unicode-range")
}

// NormalizeValue applies the value rewrites enabled in cfg to a single
// declaration value. The second result lists ambiguities worth a warning.
func NormalizeValue(value string, cfg *config.Config) (string, []string) {
	n := &normalizer{cfg: cfg, src: value, out: make([]byte, 0, len(value))}
	n.run()
	return string(n.out), n.notes
}

type normalizer struct {
	cfg   *config.Config
	src   string
	out   []byte
	fns   []string // Enclosing function names, innermost last.
	notes []string
}

func (n *normalizer) run() {
	s := n.src
	for i := 0; i < len(s); {
		if j := parser.SkipOpaque(s, i); j >= 0 {
			// Name characters glued to an interpolation belong to it.
			if s[i] == '#' {
				for j < len(s) && (parser.IsNameByte(s[j]) || s[j] == '.') {
					j++
				}
			}
			n.out = append(n.out, s[i:j]...)
			i = j
			continue
		}

		c := s[i]
		switch {
		case c == '#':
			i = n.hash(i)
		case startsNumber(s, i):
			i = n.number(i)
		case startsIdent(s, i):
			j := identEnd(s, i)
			if j < len(s) && s[j] == '(' {
				n.fns = append(n.fns, strings.ToLower(s[i:j]))
				j++
			}
			n.out = append(n.out, s[i:j]...)
			i = j
		case c == '(':
			n.fns = append(n.fns, "")
			n.out = append(n.out, c)
			i++
		case c == ')':
			if len(n.fns) > 0 {
				n.fns = n.fns[:len(n.fns)-1]
			}
			n.out = append(n.out, c)
			i++
		default:
			n.out = append(n.out, c)
			i++
		}
	}
}

// hash handles a token starting with "#": a hex colour, or an id-like name
// that is copied unchanged.
func (n *normalizer) hash(i int) int {
	s := n.src
	j := i + 1
	for j < len(s) && isHex(s[j]) {
		j++
	}
	if j < len(s) && parser.IsNameByte(s[j]) {
		for j < len(s) && parser.IsNameByte(s[j]) {
			j++
		}
		n.out = append(n.out, s[i:j]...)
		return j
	}

	digits := s[i+1 : j]
	switch len(digits) {
	case 3, 4, 6, 8:
		n.out = append(n.out, '#')
		n.out = append(n.out, hexColor(digits, n.cfg)...)
	case 5, 7:
		n.notes = append(n.notes, fmt.Sprintf("suspicious hex color %q", s[i:j]))
		n.out = append(n.out, s[i:j]...)
	default:
		n.out = append(n.out, s[i:j]...)
	}
	return j
}

func (n *normalizer) number(i int) int {
	num, end := scanNumber(n.src, i)
	n.out = append(n.out, num.format(n.cfg, n.inMath())...)
	return end
}

// inMath reports whether the scanner is inside a math function, where a
// unitless zero is not interchangeable with a zero length.
func (n *normalizer) inMath() bool {
	for _, fn := range n.fns {
		if mathFunctions[stripVendor(fn)] {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	return isDigit(c) || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// startsIdent reports whether an identifier starts at s[i].
func startsIdent(s string, i int) bool {
	c := s[i]
	if isNameStart(c) {
		return true
	}
	if c != '-' || i+1 >= len(s) {
		return false
	}
	next := s[i+1]
	return next == '-' || next == '\\' || isNameStart(next)
}

func identEnd(s string, i int) int {
	j := i
	for j < len(s) {
		switch {
		case s[j] == '\\' && j+1 < len(s):
			j += 2
		case parser.IsNameByte(s[j]):
			j++
		default:
			return j
		}
	}
	return j
}

// startsNumber reports whether a numeric literal starts at s[i].
func startsNumber(s string, i int) bool {
	at := func(k int) byte {
		if k < len(s) {
			return s[k]
		}
		return 0
	}
	c := s[i]
	if c == '+' || c == '-' {
		i++
		c = at(i)
	}
	return isDigit(c) || (c == '.' && isDigit(at(i+1)))
}
