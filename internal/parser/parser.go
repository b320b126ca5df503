package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// importantRe matches a trailing !important flag, tolerating case and
// whitespace after the "!".
var importantRe = regexp.MustCompile(`(?i)\s*!\s*important$`)

// rootDeclRe matches the property part of a declaration accepted at the top
// level: SCSS variables, custom properties and plain identifiers.
var rootDeclRe = regexp.MustCompile(`^(\$|--)?[A-Za-z_-][A-Za-z0-9_-]*$`)

// Parse converts stylesheet source into a tree.
//
// Malformed input is recovered where possible and reported as warnings. The
// returned error, when non-nil, is a *ParseError and the root is nil.
func Parse(src string, dialect Dialect) (*Root, []Warning, error) {
	p := newState(src, dialect)
	root, err := p.parse()
	if err != nil {
		return nil, nil, err
	}
	return root, p.warnings, nil
}

// state tracks the parser's position and diagnostics.
type state struct {
	src        string
	dialect    Dialect
	off        int
	lineStarts []int
	warnings   []Warning
	err        *ParseError
}

// statement is the raw text of one selector, declaration or at-rule
// prelude and the character that ended it.
type statement struct {
	text    string
	term    byte // '{', ';', '}' or 0 at end of input.
	termOff int
}

func newState(src string, dialect Dialect) *state {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &state{src: src, dialect: dialect, lineStarts: starts}
}

func (p *state) parse() (*Root, error) {
	if i := strings.IndexByte(p.src, 0); i >= 0 {
		return nil, &ParseError{Message: "unexpected NUL byte", Pos: p.pos(i)}
	}

	children, _ := p.parseBlock(true)
	if p.err != nil {
		return nil, p.err
	}

	return &Root{Meta: Meta{Pos: Pos{Line: 1, Column: 1}}, Children: children}, nil
}

// pos converts a byte offset into a line and column.
func (p *state) pos(off int) Pos {
	line := sort.Search(len(p.lineStarts), func(i int) bool {
		return p.lineStarts[i] > off
	})
	return Pos{Line: line, Column: off - p.lineStarts[line-1] + 1}
}

func (p *state) warn(pos Pos, msg string) {
	p.warnings = append(p.warnings, Warning{Message: msg, Pos: pos})
}

func (p *state) fail(off int, msg string) {
	if p.err == nil {
		p.err = &ParseError{Message: msg, Pos: p.pos(off)}
	}
}

func (p *state) peek(n int) byte {
	if p.off+n < len(p.src) {
		return p.src[p.off+n]
	}
	return 0
}

// parseBlock parses nodes until the closing brace of the current block. At
// the root it runs to the end of input. closed reports whether a closing
// brace was found.
func (p *state) parseBlock(root bool) (nodes []Node, closed bool) {
	for p.err == nil {
		blank := p.skipSpace() > 1
		if p.off >= len(p.src) {
			return nodes, root
		}

		rest := p.src[p.off:]
		switch {
		case rest[0] == '}':
			if root {
				p.warn(p.pos(p.off), `unexpected "}"`)
				p.off++
				continue
			}
			p.off++
			return nodes, true
		case rest[0] == ';':
			p.off++
			continue
		case strings.HasPrefix(rest, "/*"):
			nodes = append(nodes, p.parseComment(blank))
			continue
		case p.dialect == SCSS && strings.HasPrefix(rest, "//"):
			nodes = append(nodes, p.parseLineComment(blank))
			continue
		case strings.HasPrefix(rest, "<!--"):
			p.off += 4
			continue
		case strings.HasPrefix(rest, "-->"):
			p.off += 3
			continue
		}

		if n := p.parseStatement(root, blank); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, true
}

// skipSpace advances past whitespace and returns the newlines crossed.
func (p *state) skipSpace() int {
	newlines := 0
	for ; p.off < len(p.src); p.off++ {
		switch p.src[p.off] {
		case '\n':
			newlines++
		case ' ', '\t', '\r', '\f':
		default:
			return newlines
		}
	}
	return newlines
}

func (p *state) parseComment(blank bool) Node {
	start := p.off
	c := &Comment{Meta: Meta{Pos: p.pos(start), BlankBefore: blank}}

	end := strings.Index(p.src[start+2:], "*/")
	if end < 0 {
		p.warn(c.Pos, "unterminated comment")
		c.Text = p.src[start+2:]
		p.off = len(p.src)
		return c
	}

	c.Text = p.src[start+2 : start+2+end]
	p.off = start + 2 + end + 2
	return c
}

func (p *state) parseLineComment(blank bool) Node {
	start := p.off
	end := strings.IndexByte(p.src[start:], '\n')
	if end < 0 {
		end = len(p.src) - start
	}
	p.off = start + end

	return &Comment{
		Meta:   Meta{Pos: p.pos(start), BlankBefore: blank},
		Text:   strings.TrimRight(p.src[start+2:start+end], " \t\r"),
		Inline: true,
	}
}

// parseStatement parses one rule, at-rule or declaration.
func (p *state) parseStatement(root, blank bool) Node {
	meta := Meta{Pos: p.pos(p.off), BlankBefore: blank}
	st := p.readStatement()
	if p.err != nil {
		return nil
	}

	switch {
	case strings.HasPrefix(st.text, "@"):
		return p.atRule(meta, st)
	case st.term == '{':
		return p.rule(meta, Collapse(st.text), st)
	case root && !looksLikeRootDecl(st.text):
		return p.strayStatement(meta, st)
	}
	return p.decl(meta, st)
}

// readStatement collects text up to the next structural '{', ';' or '}'.
// '{' and ';' are consumed; '}' is left for the enclosing block.
func (p *state) readStatement() statement {
	var b strings.Builder
	depth, openOff := 0, 0
	src := p.src

	for p.off < len(src) {
		c := src[p.off]
		switch {
		case c == '"' || c == '\'':
			p.readString(&b)
			continue
		case c == '\\' && p.off+1 < len(src):
			b.WriteString(src[p.off : p.off+2])
			p.off += 2
			continue
		case c == '/' && p.peek(1) == '*':
			p.readComment(&b)
			continue
		case c == '/' && p.peek(1) == '/' && p.dialect == SCSS:
			p.readLineComment(&b)
			continue
		case c == '#' && p.peek(1) == '{' && p.dialect == SCSS:
			p.readInterpolation(&b)
			continue
		case (c == 'u' || c == 'U') && p.atURL():
			p.readURL(&b)
			continue
		case c == '(' || c == '[':
			if depth == 0 {
				openOff = p.off
			}
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == ';' && depth == 0:
			st := statement{text: strings.TrimSpace(b.String()), term: ';', termOff: p.off}
			p.off++
			return st
		case c == '{' || c == '}':
			if depth > 0 {
				p.warn(p.pos(openOff), "unclosed parenthesis")
			}
			st := statement{text: strings.TrimSpace(b.String()), term: c, termOff: p.off}
			if c == '{' {
				p.off++
			}
			return st
		}
		b.WriteByte(c)
		p.off++
	}

	if depth > 0 {
		p.warn(p.pos(openOff), "unclosed parenthesis")
	}
	return statement{text: strings.TrimSpace(b.String()), termOff: p.off}
}

func (p *state) readString(b *strings.Builder) {
	start := p.off
	q := p.src[start]
	b.WriteByte(q)
	p.off++

	for p.off < len(p.src) {
		c := p.src[p.off]
		switch {
		case c == '\\' && p.off+1 < len(p.src):
			b.WriteString(p.src[p.off : p.off+2])
			p.off += 2
			continue
		case c == q:
			b.WriteByte(q)
			p.off++
			return
		case c == '\n':
			p.warn(p.pos(start), "unterminated string")
			b.WriteByte(q)
			return
		}
		b.WriteByte(c)
		p.off++
	}

	p.warn(p.pos(start), "unterminated string")
	b.WriteByte(q)
}

func (p *state) readComment(b *strings.Builder) {
	end := SkipComment(p.src, p.off)
	b.WriteString(p.src[p.off:end])
	if !strings.Contains(p.src[p.off+2:], "*/") {
		p.warn(p.pos(p.off), "unterminated comment")
		b.WriteString("*/")
	}
	p.off = end
}

// readLineComment turns an SCSS // comment embedded in a statement into a
// block comment so it survives being joined onto one line.
func (p *state) readLineComment(b *strings.Builder) {
	end := strings.IndexByte(p.src[p.off:], '\n')
	if end < 0 {
		end = len(p.src) - p.off
	}
	body := strings.TrimSpace(p.src[p.off+2 : p.off+end])
	body = strings.ReplaceAll(body, "*/", "* /")

	b.WriteString("/* ")
	b.WriteString(body)
	b.WriteString(" */")
	p.off += end
}

func (p *state) readInterpolation(b *strings.Builder) {
	end, ok := interpolationEnd(p.src, p.off)
	if !ok {
		p.fail(p.off, "unterminated interpolation")
		p.off = len(p.src)
		return
	}
	b.WriteString(p.src[p.off:end])
	p.off = end
}

// atURL reports whether an unquoted url( token starts at the current offset.
func (p *state) atURL() bool {
	rest := p.src[p.off:]
	if len(rest) < 4 || !strings.EqualFold(rest[:4], "url(") {
		return false
	}
	if p.off > 0 && IsNameByte(p.src[p.off-1]) {
		return false
	}
	body := strings.TrimLeft(rest[4:], " \t\r\n\f")
	return body == "" || (body[0] != '"' && body[0] != '\'')
}

// readURL copies an unquoted url( ... ) verbatim so that "//", ";" and
// other punctuation inside it are not interpreted.
func (p *state) readURL(b *strings.Builder) {
	start := p.off
	for p.off < len(p.src) {
		c := p.src[p.off]
		switch {
		case c == '\\' && p.off+1 < len(p.src):
			b.WriteString(p.src[p.off : p.off+2])
			p.off += 2
			continue
		case c == ')':
			b.WriteByte(c)
			p.off++
			return
		case c == '\n' || c == '{' || c == '}':
			p.warn(p.pos(start), "unterminated url")
			b.WriteByte(')')
			return
		}
		b.WriteByte(c)
		p.off++
	}
	p.warn(p.pos(start), "unterminated url")
	b.WriteByte(')')
}

// block parses the children of a block whose "{" is at openOff.
func (p *state) block(openOff int) []Node {
	children, closed := p.parseBlock(false)
	if closed || p.err != nil {
		return children
	}

	// Nothing but comments after the brace: there is no block to recover.
	if !hasContent(children) {
		p.fail(openOff, "unclosed block")
		return nil
	}
	p.warn(p.pos(openOff), "unclosed block")
	return children
}

func hasContent(nodes []Node) bool {
	for _, n := range nodes {
		if _, ok := n.(*Comment); !ok {
			return true
		}
	}
	return false
}

func (p *state) atRule(meta Meta, st statement) Node {
	name, params := splitAtRule(st.text)
	at := &AtRule{Meta: meta, Name: name, Params: Collapse(params)}
	if st.term != '{' {
		return at
	}
	at.HasBlock = true
	at.Children = p.block(st.termOff)
	return at
}

// splitAtRule splits "@media screen" into "@media" and "screen".
func splitAtRule(text string) (name, params string) {
	i := 1
	for i < len(text) && IsNameByte(text[i]) {
		i++
	}
	return text[:i], strings.TrimSpace(text[i:])
}

func (p *state) rule(meta Meta, selector string, st statement) Node {
	if selector == "" {
		p.warn(p.pos(st.termOff), "missing selector")
	}
	return &Rule{Meta: meta, Selector: selector, Children: p.block(st.termOff)}
}

// strayStatement handles top-level text that is neither a rule nor a
// declaration. A semicolon inside a selector ("a;b {") is kept verbatim so
// the output stays lossless; anything else becomes an opaque statement.
func (p *state) strayStatement(meta Meta, st statement) Node {
	if st.term == ';' {
		saveOff, saveWarn, saveErr := p.off, len(p.warnings), p.err
		next := p.readStatement()
		if next.term == '{' && p.err == nil && !strings.HasPrefix(next.text, "@") {
			p.warn(p.pos(st.termOff), `unexpected ";" in selector`)
			return p.rule(meta, Collapse(st.text+";"+next.text), next)
		}
		p.off, p.warnings, p.err = saveOff, p.warnings[:saveWarn], saveErr
	}

	text := Collapse(st.text)
	p.warn(meta.Pos, fmt.Sprintf("unknown word %q", text))
	return &Decl{Meta: meta, Prop: text, NoColon: true}
}

func (p *state) decl(meta Meta, st statement) Node {
	colon := IndexTopLevel(st.text, ':')
	if colon < 0 {
		p.warn(meta.Pos, `missing ":" in declaration`)
		return &Decl{Meta: meta, Prop: Collapse(st.text), NoColon: true}
	}

	d := &Decl{Meta: meta, Prop: strings.TrimSpace(st.text[:colon])}
	value := strings.TrimSpace(st.text[colon+1:])
	if loc := importantRe.FindStringIndex(value); loc != nil {
		d.Important = true
		value = value[:loc[0]]
	}
	d.Value = Collapse(value)
	return d
}

// looksLikeRootDecl reports whether top-level text is a declaration such as
// an SCSS variable rather than a stray selector fragment.
func looksLikeRootDecl(text string) bool {
	colon := IndexTopLevel(text, ':')
	if colon <= 0 {
		return false
	}
	return rootDeclRe.MatchString(strings.TrimSpace(text[:colon]))
}
