// Package format contains individual formatting rule implementations.
package format

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

// PropertyCase lowercases property and at-rule names. Custom properties,
// SCSS variables and interpolated names are case-sensitive and left alone.
type PropertyCase struct{}

// Name returns the identifier for this rule.
func (*PropertyCase) Name() string {
	return "property_case"
}

// Format lowercases names throughout the tree.
func (*PropertyCase) Format(root *parser.Root, _ *config.Config) (*parser.Root, []parser.Warning) {
	// A Caser holds state, so each call gets its own.
	lower := cases.Lower(language.Und)

	out := root.Clone()
	eachNode(out.Children, func(n parser.Node) {
		switch n := n.(type) {
		case *parser.Decl:
			if !n.NoColon && foldable(n.Prop) {
				n.Prop = lower.String(n.Prop)
			}
		case *parser.AtRule:
			if foldable(n.Name) {
				n.Name = lower.String(n.Name)
			}
		}
	})
	return out, nil
}

func foldable(name string) bool {
	return !strings.HasPrefix(name, "--") &&
		!strings.HasPrefix(name, "$") &&
		!strings.Contains(name, "#{")
}

// eachNode calls fn for every node in document order, descending into
// blocks.
func eachNode(nodes []parser.Node, fn func(parser.Node)) {
	for _, n := range nodes {
		fn(n)
		eachNode(parser.Children(n), fn)
	}
}
