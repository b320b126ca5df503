// Package cssfmt formats CSS and SCSS source text.
//
// Formatting is a pure text-to-text transform: the source is parsed into a
// tree, declaration values are normalized, vendor-prefixed declarations are
// grouped, and the tree is rendered in one of three layouts (expanded,
// compact or compressed). Formatting already formatted output changes
// nothing.
//
// Malformed input is recovered where possible; each recovery is reported as
// a [Warning] on the [Result]. Input that cannot be recovered, and invalid
// options, fail with an [*Error].
//
//	res, err := cssfmt.Format("a{color:#FFFFFF}", cssfmt.CSS, map[string]any{
//		"indentSize": 2,
//	})
package cssfmt
