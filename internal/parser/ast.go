// Package parser provides a tolerant CSS/SCSS parser that produces a node tree.
package parser

import "fmt"

// Dialect selects the input grammar accepted by Parse.
type Dialect int

const (
	// CSS is plain CSS.
	CSS Dialect = iota
	// SCSS additionally accepts // comments, interpolation and nesting idioms.
	SCSS
)

func (d Dialect) String() string {
	if d == SCSS {
		return "scss"
	}
	return "css"
}

// Pos is a 1-indexed source position. Column counts bytes.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position refers to a source location.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Meta is the source metadata shared by every node.
type Meta struct {
	Pos Pos
	// BlankBefore is set when the source had an empty line between the
	// previous sibling and this node.
	BlankBefore bool
}

// Metadata returns the node's source metadata.
func (m Meta) Metadata() Meta {
	return m
}

// Node is a stylesheet node. The set of implementations is closed:
// *Root, *Rule, *AtRule, *Decl and *Comment.
type Node interface {
	Metadata() Meta
	cloneNode() Node
}

// Root is the top of a parsed stylesheet.
type Root struct {
	Meta
	Children []Node
}

// Rule is a qualified rule: a selector followed by a block.
type Rule struct {
	Meta
	Selector string
	Children []Node
}

// AtRule is an at-rule. Statement at-rules (@import, @charset, @include x;)
// have HasBlock false and no children.
type AtRule struct {
	Meta
	Name     string // Including the leading "@".
	Params   string
	HasBlock bool
	Children []Node
}

// Decl is a declaration inside a block (or a root-level variable).
type Decl struct {
	Meta
	Prop      string
	Value     string
	Important bool
	// NoColon marks an opaque statement that had no ":"; Prop holds its
	// text verbatim.
	NoColon bool
	// Pad is the number of spaces rendered before Prop to align a vendor
	// prefix cascade.
	Pad int
}

// Comment is a /* */ comment, or a // comment when Inline is set.
type Comment struct {
	Meta
	Text   string
	Inline bool
}

// Clone returns a deep copy of the root.
func (r *Root) Clone() *Root {
	if r == nil {
		return nil
	}
	return &Root{Meta: r.Meta, Children: CloneNodes(r.Children)}
}

// Clone returns a deep copy of the rule.
func (r *Rule) Clone() *Rule {
	c := *r
	c.Children = CloneNodes(r.Children)
	return &c
}

// Clone returns a deep copy of the at-rule.
func (a *AtRule) Clone() *AtRule {
	c := *a
	c.Children = CloneNodes(a.Children)
	return &c
}

// Clone returns a copy of the declaration.
func (d *Decl) Clone() *Decl {
	c := *d
	return &c
}

// Clone returns a copy of the comment.
func (c *Comment) Clone() *Comment {
	cc := *c
	return &cc
}

func (r *Root) cloneNode() Node    { return r.Clone() }
func (r *Rule) cloneNode() Node    { return r.Clone() }
func (a *AtRule) cloneNode() Node  { return a.Clone() }
func (d *Decl) cloneNode() Node    { return d.Clone() }
func (c *Comment) cloneNode() Node { return c.Clone() }

// CloneNodes returns a deep copy of a child list.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.cloneNode()
	}
	return out
}

// Children returns the child list of block-bearing nodes, or nil.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Root:
		return n.Children
	case *Rule:
		return n.Children
	case *AtRule:
		return n.Children
	}
	return nil
}

// Warning is a recoverable problem found while parsing or formatting.
type Warning struct {
	Message string
	Pos     Pos
}

func (w Warning) String() string {
	if !w.Pos.IsValid() {
		return w.Message
	}
	return w.Pos.String() + ": " + w.Message
}

// ParseError reports input that could not be structured even with recovery.
type ParseError struct {
	Message string
	Pos     Pos
}

func (e *ParseError) Error() string {
	if !e.Pos.IsValid() {
		return e.Message
	}
	return e.Pos.String() + ": " + e.Message
}
