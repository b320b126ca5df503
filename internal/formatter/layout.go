package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/donaldgifford/cssfmt/internal/parser"
)

// selectorParts splits a selector list at top-level commas and normalizes
// the spacing around combinators in each selector.
func selectorParts(sel string, compressed bool) []string {
	parts := parser.SplitTopLevel(sel, ',')
	for i, part := range parts {
		parts[i] = spaceCombinators(part, compressed)
	}
	return parts
}

func isCombinator(c byte) bool {
	return c == '>' || c == '+' || c == '~'
}

// spaceCombinators renders "a>b" as "a > b" (or "a>b" when compressed).
// Combinators nested in brackets, such as [rel~=x] or :nth-child(2n+1),
// are left alone.
func spaceCombinators(sel string, compressed bool) string {
	buf := make([]byte, 0, len(sel)+8)
	depth := 0
	for i := 0; i < len(sel); {
		if j := parser.SkipOpaque(sel, i); j >= 0 {
			buf = append(buf, sel[i:j]...)
			i = j
			continue
		}

		c := sel[i]
		switch {
		case c == '(' || c == '[':
			depth++
		case (c == ')' || c == ']') && depth > 0:
			depth--
		case depth == 0 && isCombinator(c):
			j := i
			for j < len(sel) && isCombinator(sel[j]) {
				j++
			}
			buf = trimSpaceRight(buf)
			if !compressed && len(buf) > 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, sel[i:j]...)
			if !compressed {
				buf = append(buf, ' ')
			}
			for j < len(sel) && sel[j] == ' ' {
				j++
			}
			i = j
			continue
		}
		buf = append(buf, c)
		i++
	}
	return strings.TrimSpace(string(buf))
}

// spaceCommas renders every comma outside strings, comments and url() as
// ", " (or "," when compressed).
func spaceCommas(s string, compressed bool) string {
	if !strings.Contains(s, ",") {
		return s
	}

	buf := make([]byte, 0, len(s)+8)
	for i := 0; i < len(s); {
		if j := parser.SkipOpaque(s, i); j >= 0 {
			buf = append(buf, s[i:j]...)
			i = j
			continue
		}
		if s[i] != ',' {
			buf = append(buf, s[i])
			i++
			continue
		}

		buf = append(trimSpaceRight(buf), ',')
		i++
		for i < len(s) && s[i] == ' ' {
			i++
		}
		if !compressed && i < len(s) {
			buf = append(buf, ' ')
		}
	}
	return string(buf)
}

// stripComments removes block comments outside strings, url() and
// interpolation and collapses the whitespace they leave. A comment between
// two name characters becomes a space so the tokens stay apart.
func stripComments(s string) string {
	if !strings.Contains(s, "/*") {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '/' && i+1 < len(s) && s[i+1] == '*' {
			j := parser.SkipComment(s, i)
			if len(buf) > 0 && j < len(s) && parser.IsNameByte(buf[len(buf)-1]) && parser.IsNameByte(s[j]) {
				buf = append(buf, ' ')
			}
			i = j
			continue
		}
		if j := parser.SkipOpaque(s, i); j >= 0 {
			buf = append(buf, s[i:j]...)
			i = j
			continue
		}
		buf = append(buf, s[i])
		i++
	}
	return parser.Collapse(string(buf))
}

func trimSpaceRight(buf []byte) []byte {
	for len(buf) > 0 && buf[len(buf)-1] == ' ' {
		buf = buf[:len(buf)-1]
	}
	return buf
}

// width is the display width of s in terminal columns.
func width(s string) int {
	return runewidth.StringWidth(s)
}

// wrapList joins parts with ", ". When the joined text is wider than limit,
// each part after the first starts a continuation line prefixed by cont.
// A limit of zero never wraps.
func wrapList(parts []string, limit int, cont string) string {
	joined := strings.Join(parts, ", ")
	if limit <= 0 || len(parts) < 2 || width(joined) <= limit {
		return joined
	}
	return strings.Join(parts, ",\n"+cont)
}

// wrapParams wraps at-rule params wider than limit. Comma lists break after
// each comma; other params are filled greedily at top-level spaces.
func wrapParams(params string, limit int, cont string) string {
	if limit <= 0 || width(params) <= limit {
		return params
	}
	if parts := parser.SplitTopLevel(params, ','); len(parts) > 1 {
		return strings.Join(parts, ",\n"+cont)
	}

	var b strings.Builder
	line := 0
	for i, word := range parser.SplitTopLevel(params, ' ') {
		w := width(word)
		if i > 0 {
			if line+1+w > limit {
				b.WriteString("\n")
				b.WriteString(cont)
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(word)
		line += w
	}
	return b.String()
}
