package parser

import "strings"

// Lexical helpers shared by the parser, the value rules and the renderer.
// They operate on already-extracted selector, value and param text.

// SkipString returns the index just past the quoted string starting at
// s[i]. An unterminated string runs to the end of s.
func SkipString(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j + 1
		}
	}
	return len(s)
}

// SkipComment returns the index just past the /* */ comment starting at s[i].
func SkipComment(s string, i int) int {
	end := strings.Index(s[i+2:], "*/")
	if end < 0 {
		return len(s)
	}
	return i + 2 + end + 2
}

// SkipInterpolation returns the index just past the #{...} interpolation
// starting at s[i], honouring nested braces and strings.
func SkipInterpolation(s string, i int) int {
	end, _ := interpolationEnd(s, i)
	return end
}

func interpolationEnd(s string, i int) (int, bool) {
	depth := 0
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '"', '\'':
			j = SkipString(s, j) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1, true
			}
		}
	}
	return len(s), false
}

// SkipOpaque returns the end of the string, comment, interpolation, url()
// or escape starting at s[i], or -1 when s[i] starts none of them.
func SkipOpaque(s string, i int) int {
	switch c := s[i]; {
	case (c == 'u' || c == 'U') && isURL(s, i):
		return skipURL(s, i)
	case c == '"' || c == '\'':
		return SkipString(s, i)
	case c == '/' && i+1 < len(s) && s[i+1] == '*':
		return SkipComment(s, i)
	case c == '#' && i+1 < len(s) && s[i+1] == '{':
		return SkipInterpolation(s, i)
	case c == '\\':
		return min(i+2, len(s))
	}
	return -1
}

// SplitTopLevel splits s at every sep that is outside strings, comments,
// interpolation and parentheses or brackets. Parts are trimmed.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); {
		if j := SkipOpaque(s, i); j >= 0 {
			i = j
			continue
		}
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
		i++
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// IndexTopLevel returns the index of the first c outside strings, comments,
// interpolation and brackets, or -1.
func IndexTopLevel(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); {
		if j := SkipOpaque(s, i); j >= 0 {
			i = j
			continue
		}
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case c:
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// Collapse trims s and replaces every run of whitespace outside strings
// and comments with a single space.
func Collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for i := 0; i < len(s); {
		c := s[i]
		if isSpace(c) {
			pending = true
			i++
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		end := i + 1
		if c == '"' || c == '\'' || c == '\\' || (c == '/' && i+1 < len(s) && s[i+1] == '*') {
			end = SkipOpaque(s, i)
		}
		b.WriteString(s[i:end])
		i = end
	}
	return b.String()
}

func isURL(s string, i int) bool {
	return len(s)-i >= 4 && strings.EqualFold(s[i:i+4], "url(") && (i == 0 || !IsNameByte(s[i-1]))
}

func skipURL(s string, i int) int {
	for j := i + 4; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"', '\'':
			j = SkipString(s, j) - 1
		case ')':
			return j + 1
		}
	}
	return len(s)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// IsNameByte reports whether c may appear inside a CSS identifier.
func IsNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
