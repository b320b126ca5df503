package format

import (
	"testing"

	"github.com/donaldgifford/cssfmt/internal/parser"
)

func mustParse(t *testing.T, src string, dialect parser.Dialect) *parser.Root {
	t.Helper()
	root, _, err := parser.Parse(src, dialect)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}

// decls returns the declarations of the first rule in root.
func decls(t *testing.T, root *parser.Root) []*parser.Decl {
	t.Helper()
	rule, ok := root.Children[0].(*parser.Rule)
	if !ok {
		t.Fatalf("first node is %T, want *parser.Rule", root.Children[0])
	}
	var out []*parser.Decl
	for _, n := range rule.Children {
		if d, ok := n.(*parser.Decl); ok {
			out = append(out, d)
		}
	}
	return out
}
