package formatter

import (
	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

// FormatRule transforms a stylesheet tree. Rules are applied in registered
// order.
type FormatRule interface {
	// Name returns a short identifier for the rule (e.g., "values").
	Name() string

	// Format receives the tree and config and returns the transformed tree
	// plus any warnings. Rules must not mutate the input; clone the nodes
	// they change.
	Format(root *parser.Root, cfg *config.Config) (*parser.Root, []parser.Warning)
}
