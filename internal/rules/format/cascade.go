package format

import (
	"strings"

	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

var vendorPrefixes = []string{"-webkit-", "-moz-", "-ms-", "-o-"}

// Cascade moves vendor-prefixed declarations next to their standard
// property and pads them so the base names line up:
//
//	-webkit-box-sizing: border-box;
//	   -moz-box-sizing: border-box;
//	        box-sizing: border-box;
//
// It only applies to the expanded format.
type Cascade struct{}

// Name returns the identifier for this rule.
func (*Cascade) Name() string {
	return "cascade"
}

// Format groups prefixed declarations in every block of the tree.
func (*Cascade) Format(root *parser.Root, cfg *config.Config) (*parser.Root, []parser.Warning) {
	if !cfg.Cascade || cfg.Format != config.FormatExpanded {
		return root, nil
	}

	out := root.Clone()
	out.Children = groupBlock(out.Children)
	eachNode(out.Children, func(n parser.Node) {
		switch n := n.(type) {
		case *parser.Rule:
			n.Children = groupBlock(n.Children)
		case *parser.AtRule:
			n.Children = groupBlock(n.Children)
		}
	})
	return out, nil
}

// splitVendor returns the vendor prefix of a property and its base name,
// both lowercased. The prefix is empty for standard properties.
func splitVendor(prop string) (prefix, base string) {
	lower := strings.ToLower(prop)
	for _, p := range vendorPrefixes {
		if strings.HasPrefix(lower, p) && len(lower) > len(p) {
			return p, lower[len(p):]
		}
	}
	return "", lower
}

func groupable(n parser.Node) (*parser.Decl, bool) {
	d, ok := n.(*parser.Decl)
	if !ok || d.NoColon {
		return nil, false
	}
	if strings.HasPrefix(d.Prop, "--") || strings.HasPrefix(d.Prop, "$") ||
		strings.Contains(d.Prop, "#{") {
		return nil, false
	}
	return d, true
}

// groupBlock reorders one block. Each prefixed declaration attaches to the
// first standard declaration of the same base property after it, or failing
// that the last one before it. Attached declarations are emitted, in source
// order, directly before their standard declaration.
func groupBlock(nodes []parser.Node) []parser.Node {
	type entry struct {
		decl   *parser.Decl
		prefix string
		base   string
	}

	entries := make([]*entry, len(nodes))
	prefixed := false
	for i, n := range nodes {
		d, ok := groupable(n)
		if !ok {
			continue
		}
		prefix, base := splitVendor(d.Prop)
		entries[i] = &entry{decl: d, prefix: prefix, base: base}
		prefixed = prefixed || prefix != ""
	}
	if !prefixed {
		return nodes
	}

	isTarget := func(e *entry, base string) bool {
		return e != nil && e.prefix == "" && e.base == base
	}

	members := make(map[int][]int)
	attached := make([]bool, len(nodes))
	for i, e := range entries {
		if e == nil || e.prefix == "" {
			continue
		}
		target := -1
		for j := i + 1; j < len(nodes) && target < 0; j++ {
			if isTarget(entries[j], e.base) {
				target = j
			}
		}
		for j := i - 1; j >= 0 && target < 0; j-- {
			if isTarget(entries[j], e.base) {
				target = j
			}
		}
		if target < 0 {
			continue
		}
		members[target] = append(members[target], i)
		attached[i] = true
	}

	out := make([]parser.Node, 0, len(nodes))
	for i, n := range nodes {
		if attached[i] {
			continue
		}
		group, ok := members[i]
		if !ok {
			out = append(out, n)
			continue
		}

		longest := 0
		for _, m := range group {
			longest = max(longest, len(entries[m].prefix))
		}
		for _, m := range group {
			entries[m].decl.Pad = longest - len(entries[m].prefix)
			out = append(out, nodes[m])
		}
		entries[i].decl.Pad = longest
		out = append(out, n)
	}
	return out
}
