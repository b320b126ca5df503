// Package formatter provides the formatting engine, the layout renderer and
// the rule interface.
package formatter

import (
	"strings"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

// Render serializes a tree back into stylesheet text using the density
// policy selected by cfg.Format. The tree is not modified. Non-empty output
// always ends with a single newline.
func Render(root *parser.Root, cfg *config.Config) string {
	p := &printer{cfg: cfg}

	switch cfg.Format {
	case config.FormatCompressed:
		p.compressedList(root.Children, true)
	case config.FormatCompact:
		p.list(root.Children, 0, p.compactNode)
	default:
		p.list(root.Children, 0, p.expandedNode)
	}

	if p.b.Len() == 0 {
		return ""
	}
	p.b.WriteByte('\n')
	return p.b.String()
}

type printer struct {
	b   strings.Builder
	cfg *config.Config
}

// list writes nodes one per line, keeping a single blank line where the
// source had one before a rule, at-rule or comment.
func (p *printer) list(nodes []parser.Node, depth int, emit func(parser.Node, int)) {
	for i, n := range nodes {
		if i > 0 {
			p.b.WriteByte('\n')
			if keepBlank(n) {
				p.b.WriteByte('\n')
			}
		}
		emit(n, depth)
	}
}

func keepBlank(n parser.Node) bool {
	if _, ok := n.(*parser.Decl); ok {
		return false
	}
	return n.Metadata().BlankBefore
}

func (p *printer) expandedNode(n parser.Node, depth int) {
	p.b.WriteString(p.cfg.Indent(depth))

	switch n := n.(type) {
	case *parser.Decl:
		p.b.WriteString(strings.Repeat(" ", n.Pad))
		p.b.WriteString(p.declText(n, depth, p.cfg.MaxValueLength, false))
		p.b.WriteByte(';')

	case *parser.Comment:
		p.b.WriteString(commentText(n, false))

	case *parser.Rule:
		p.b.WriteString(p.selectorText(n.Selector, depth, false))
		p.expandedBlock(n.Children, depth, n.Selector != "")

	case *parser.AtRule:
		p.b.WriteString(p.atRuleHead(n, depth, p.cfg.MaxAtRuleLength, false))
		if !n.HasBlock {
			p.b.WriteByte(';')
			return
		}
		p.expandedBlock(n.Children, depth, true)
	}
}

func (p *printer) expandedBlock(children []parser.Node, depth int, spaced bool) {
	if spaced {
		p.b.WriteByte(' ')
	}
	if len(children) == 0 {
		p.b.WriteString("{}")
		return
	}
	p.b.WriteString("{\n")
	p.list(children, depth+1, p.expandedNode)
	p.b.WriteByte('\n')
	p.b.WriteString(p.cfg.Indent(depth))
	p.b.WriteByte('}')
}

func (p *printer) compactNode(n parser.Node, depth int) {
	p.b.WriteString(p.cfg.Indent(depth))

	switch n := n.(type) {
	case *parser.Decl:
		p.b.WriteString(p.declText(n, depth, 0, false))
		p.b.WriteByte(';')

	case *parser.Comment:
		p.b.WriteString(commentText(n, true))

	case *parser.Rule:
		p.b.WriteString(p.selectorText(n.Selector, depth, false))
		p.compactBlock(n.Children, depth, n.Selector != "")

	case *parser.AtRule:
		p.b.WriteString(p.atRuleHead(n, depth, 0, false))
		if !n.HasBlock {
			p.b.WriteByte(';')
			return
		}
		p.compactBlock(n.Children, depth, true)
	}
}

// compactBlock writes a block of declarations on one line. Blocks holding
// nested rules fall back to one child per line.
func (p *printer) compactBlock(children []parser.Node, depth int, spaced bool) {
	if spaced {
		p.b.WriteByte(' ')
	}
	if len(children) == 0 {
		p.b.WriteString("{}")
		return
	}

	if !isFlat(children) {
		p.b.WriteString("{\n")
		p.list(children, depth+1, p.compactNode)
		p.b.WriteByte('\n')
		p.b.WriteString(p.cfg.Indent(depth))
		p.b.WriteByte('}')
		return
	}

	p.b.WriteByte('{')
	for _, n := range children {
		p.b.WriteByte(' ')
		switch n := n.(type) {
		case *parser.Decl:
			p.b.WriteString(p.declText(n, depth, 0, false))
			p.b.WriteByte(';')
		case *parser.Comment:
			p.b.WriteString(commentText(n, true))
		}
	}
	p.b.WriteString(" }")
}

func isFlat(nodes []parser.Node) bool {
	for _, n := range nodes {
		switch n.(type) {
		case *parser.Decl, *parser.Comment:
		default:
			return false
		}
	}
	return true
}

// compressedList writes nodes with minimal whitespace. Inside a block the
// final semicolon is omitted; top-level statements go on separate lines.
func (p *printer) compressedList(nodes []parser.Node, top bool) {
	first, needSemi := true, false
	for _, n := range nodes {
		if _, ok := n.(*parser.Comment); ok {
			continue
		}
		if !first {
			if needSemi {
				p.b.WriteByte(';')
			}
			if top {
				p.b.WriteByte('\n')
			}
		}
		first = false

		switch n := n.(type) {
		case *parser.Decl:
			p.b.WriteString(p.declText(n, 0, 0, true))
			needSemi = true

		case *parser.Rule:
			p.b.WriteString(p.selectorText(n.Selector, 0, true))
			p.b.WriteByte('{')
			p.compressedList(n.Children, false)
			p.b.WriteByte('}')
			needSemi = false

		case *parser.AtRule:
			p.b.WriteString(p.atRuleHead(n, 0, 0, true))
			needSemi = !n.HasBlock
			if n.HasBlock {
				p.b.WriteByte('{')
				p.compressedList(n.Children, false)
				p.b.WriteByte('}')
			}
		}
	}
	if top && needSemi {
		p.b.WriteByte(';')
	}
}

func (p *printer) selectorText(sel string, depth int, compressed bool) string {
	if compressed {
		return strings.Join(selectorParts(stripComments(sel), true), ",")
	}
	parts := selectorParts(sel, false)
	return wrapList(parts, p.cfg.MaxSelectorLength, p.cfg.Indent(depth+1))
}

func (p *printer) atRuleHead(a *parser.AtRule, depth, limit int, compressed bool) string {
	params := a.Params
	if compressed {
		params = stripComments(params)
	}
	if params == "" {
		return a.Name
	}
	params = spaceCommas(params, compressed)
	if !compressed {
		params = wrapParams(params, limit, p.cfg.Indent(depth+1))
	}
	return a.Name + " " + params
}

// declText renders "prop: value", wrapping values wider than limit.
func (p *printer) declText(d *parser.Decl, depth, limit int, compressed bool) string {
	if d.NoColon {
		if compressed {
			return stripComments(d.Prop)
		}
		return d.Prop
	}

	value := d.Value
	if compressed {
		value = stripComments(value)
	}
	// Custom property values are arbitrary token streams; keep them as is.
	if !strings.HasPrefix(d.Prop, "--") {
		value = spaceCommas(value, compressed)
		if !compressed {
			value = wrapList(parser.SplitTopLevel(value, ','), limit, p.cfg.Indent(depth+1))
		}
	}

	var b strings.Builder
	b.WriteString(d.Prop)
	b.WriteByte(':')
	if value != "" {
		if !compressed {
			b.WriteByte(' ')
		}
		b.WriteString(value)
	}
	if d.Important {
		if !compressed {
			b.WriteByte(' ')
		}
		b.WriteString("!important")
	}
	return b.String()
}

// commentText renders a comment. In one-line layouts a // comment would
// swallow the rest of the line, so it becomes a block comment.
func commentText(c *parser.Comment, oneLine bool) string {
	if !c.Inline {
		return "/*" + c.Text + "*/"
	}
	if oneLine {
		return "/* " + strings.TrimSpace(c.Text) + " */"
	}
	return "//" + c.Text
}
