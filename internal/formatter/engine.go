package formatter

import (
	"github.com/donaldgifford/cssfmt/internal/config"
	"github.com/donaldgifford/cssfmt/internal/parser"
)

// Run applies each formatting rule in order, piping the output of one
// as input to the next. Warnings are collected in rule order.
func Run(root *parser.Root, cfg *config.Config, rules []FormatRule) (*parser.Root, []parser.Warning) {
	var warnings []parser.Warning
	result := root
	for _, rule := range rules {
		var ws []parser.Warning
		result, ws = rule.Format(result, cfg)
		warnings = append(warnings, ws...)
	}
	return result, warnings
}
